package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"phonebills/internal/port"
)

// DefaultVATRate is assumed when the invoice carries no explicit DPH marker.
const DefaultVATRate = 0.21

// Marker patterns tied to the vendor's invoice phrasing. Each one is wrapped
// in a named extractor below so a missing marker degrades that single field
// to its default instead of failing the whole parse.
var (
	periodRange   = regexp.MustCompile(`(?i)za období\s+([\d.]+\s*-\s*[\d.]+\d{4})`)
	periodEndDate = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	grandTotal    = regexp.MustCompile(`Částka k úhradě([\d\s\x{00A0}]+,\d{2})\s*Kč`)
	totalNoVAT    = regexp.MustCompile(`Celkem za služby bez DPH([\d\s\x{00A0}]+,\d{2})\s*Kč`)
	vatRate       = regexp.MustCompile(`DPH\s*\((\d+)%\)`)
	blockExempt   = regexp.MustCompile(`Celkem za položky nepodléhající DPH([\d\s\x{00A0}]+,\d{2})\s*Kč`)
)

// extractPeriod returns the "YYYY-MM" period key and the range text as
// printed ("6.1. - 5.2.2026"). The key is derived from the END date of the
// range even when it spans two calendar months; that matches how the vendor
// labels the billing cycle.
func extractPeriod(text string) (period, periodText string) {
	m := periodRange.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	periodText = strings.TrimSpace(m[1])
	end := periodEndDate.FindStringSubmatch(periodText)
	if end == nil {
		return "", periodText
	}
	month := end[2]
	if len(month) == 1 {
		month = "0" + month
	}
	return fmt.Sprintf("%s-%s", end[3], month), periodText
}

// extractGrandTotal reads the "Částka k úhradě" amount from the document.
func extractGrandTotal(text string) (float64, bool) {
	m := grandTotal.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return ParseAmount(m[1]), true
}

// extractTotalWithoutVAT reads the document-level "Celkem za služby bez DPH"
// amount. The same phrase appears once per detail block; the document-level
// value is the first occurrence, printed near the top of the invoice.
func extractTotalWithoutVAT(text string) (float64, bool) {
	m := totalNoVAT.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return ParseAmount(m[1]), true
}

// extractVATRate reads the "DPH (NN%)" rate as a fraction.
func extractVATRate(text string) (float64, bool) {
	m := vatRate.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return float64(pct) / 100, true
}

// extractBlockSubtotal reads one block's taxable subtotal.
func extractBlockSubtotal(blockText string) (float64, bool) {
	return extractTotalWithoutVAT(blockText)
}

// extractBlockExempt reads one block's VAT-exempt subtotal (SMS payments and
// similar third-party charges).
func extractBlockExempt(blockText string) (float64, bool) {
	m := blockExempt.FindStringSubmatch(blockText)
	if m == nil {
		return 0, false
	}
	return ParseAmount(m[1]), true
}

// ParseInvoiceText extracts the billing period, grand totals, VAT rate and
// per-identifier line items from a vendor invoice's plain text. Success is
// true only when at least one line item was found; a zero-item result is the
// signal to try the AI fallback, not an error in itself.
func ParseInvoiceText(text string) port.ParseResult {
	result := port.ParseResult{
		VATRate: DefaultVATRate,
		RawText: text,
	}

	result.Period, result.PeriodText = extractPeriod(text)
	if total, ok := extractGrandTotal(text); ok {
		result.TotalWithVAT = total
	}
	if total, ok := extractTotalWithoutVAT(text); ok {
		result.TotalWithoutVAT = total
	}
	if rate, ok := extractVATRate(text); ok {
		result.VATRate = rate
	}

	blocks, found := Segment(text)
	if !found {
		result.Error = fmt.Sprintf("detail section %q not found", detailHeading)
		return result
	}

	for _, b := range blocks {
		noVAT, _ := extractBlockSubtotal(b.Text)
		exempt, _ := extractBlockExempt(b.Text)

		// Per-block amounts are rounded independently; the document-level
		// grand total may differ from their sum by rounding residue.
		withVAT := Round2(noVAT*(1+result.VATRate) + exempt)

		result.Items = append(result.Items, port.LineItem{
			Identifier:       b.Identifier,
			Label:            b.Label,
			AmountWithoutVAT: noVAT,
			AmountVATExempt:  exempt,
			AmountWithVAT:    withVAT,
		})
	}

	result.Success = len(result.Items) > 0
	return result
}
