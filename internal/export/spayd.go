// Package export renders payment statements as PDF, CSV and XLSX, including
// SPAYD payment QR codes scannable by Czech banking apps.
package export

import (
	"fmt"
	"strings"
)

// BankAccount is the payee side of generated payment instructions.
type BankAccount struct {
	IBAN          string // machine format for the QR payload
	Display       string // human format printed on statements
	MessagePrefix string // prepended to the payment message
}

// SPAYD builds a Short Payment Descriptor string as consumed by Czech
// banking apps. Amounts are CZK with two decimals.
func SPAYD(iban string, amount float64, message string) string {
	return fmt.Sprintf("SPD*1.0*ACC:%s*AM:%.2f*CC:CZK*MSG:%s",
		strings.ReplaceAll(iban, " ", ""), amount, spaydMessage(message))
}

// spaydMessage strips characters with structural meaning in SPAYD and trims
// to the 60-character limit of the MSG field. The limit counts characters,
// not bytes, so accented group names are never cut mid-rune.
func spaydMessage(s string) string {
	s = strings.NewReplacer("*", " ", ":", " ").Replace(s)
	if runes := []rune(s); len(runes) > 60 {
		s = string(runes[:60])
	}
	return strings.TrimSpace(s)
}

// FormatCZK renders an amount the way Czech invoices print it, with a thin
// space as thousands separator and a decimal comma.
func FormatCZK(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}

	out := b.String() + "," + frac + " Kč"
	if neg {
		out = "-" + out
	}
	return out
}
