package parser

// SystemPrompt instructs the AI fallback to return the line items as a bare
// JSON array. The field names are the wire contract decoded by the fallback
// parser; keep them in sync with port.LineItem.
const SystemPrompt = `Jsi parser T-Mobile faktur. Z textu faktury extrahuj seznam telefonních čísel/služeb s částkami.

Pro každou položku vrať:
- phoneNumber: ID čísla/služby (9-ti místné číslo, DSL..., LIC..., TV...)
- serviceName: název služby
- amountNoDph: částka za služby bez DPH
- amountNonDph: částka za položky nepodléhající DPH (SMS platby apod.), 0 pokud není
- amountWithDph: celková částka včetně DPH

Vrať POUZE validní JSON pole, žádný jiný text.`

// UserPromptPrefix introduces the raw invoice text in the fallback request.
const UserPromptPrefix = "Parsuj tuto T-Mobile fakturu a vrať JSON pole položek:\n\n"

// MaxPromptChars caps how much raw text is sent to the fallback parser.
const MaxPromptChars = 15000
