package port

import "context"

// LineItem is one billing line extracted from an invoice document.
// The JSON tags are the wire contract shared with the AI fallback parser.
type LineItem struct {
	Identifier       string  `json:"phoneNumber"`
	Label            string  `json:"serviceName"`
	AmountWithoutVAT float64 `json:"amountNoDph"`
	AmountVATExempt  float64 `json:"amountNonDph"`
	AmountWithVAT    float64 `json:"amountWithDph"`
}

// ParseResult is the outcome of parsing one invoice document's text.
// Success means at least one line item was extracted; a zero-item result is
// not an error but a signal for the caller to try the fallback parser.
type ParseResult struct {
	Success         bool
	Items           []LineItem
	TotalWithVAT    float64
	TotalWithoutVAT float64
	VATRate         float64
	Period          string // "YYYY-MM", empty when undetectable
	PeriodText      string // the period range as printed on the invoice
	RawText         string // retained for the fallback parser
	Error           string
}

// LineItemParser extracts line items from raw invoice text. Implemented by
// the AI fallback parser; invoked only when marker-based parsing found nothing.
type LineItemParser interface {
	ParseItems(ctx context.Context, rawText string) ([]LineItem, error)
}
