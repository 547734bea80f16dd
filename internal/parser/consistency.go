package parser

import (
	"fmt"
	"math"

	"phonebills/internal/port"
)

// totalTolerance absorbs per-block rounding residue when comparing the sum
// of line items against the document-level totals.
const totalTolerance = 2.0

// CheckTotals cross-checks a parse result's line items against its header
// totals and returns a human-readable warning per mismatch. Warnings flag
// documents worth a manual look; they never fail ingestion, because the
// vendor's own rounding legitimately diverges by a few hellers.
func CheckTotals(result port.ParseResult) []string {
	if len(result.Items) == 0 {
		return nil
	}

	var warnings []string

	var sumNoVAT, sumWithVAT float64
	for _, item := range result.Items {
		sumNoVAT += item.AmountWithoutVAT
		sumWithVAT += item.AmountWithVAT
	}

	if result.TotalWithoutVAT > 0 {
		if diff := math.Abs(sumNoVAT - result.TotalWithoutVAT); diff > totalTolerance {
			warnings = append(warnings, fmt.Sprintf(
				"items sum to %.2f without VAT but the document states %.2f (diff %.2f)",
				sumNoVAT, result.TotalWithoutVAT, diff))
		}
	}

	if result.TotalWithVAT > 0 {
		if diff := math.Abs(sumWithVAT - result.TotalWithVAT); diff > totalTolerance {
			warnings = append(warnings, fmt.Sprintf(
				"items sum to %.2f with VAT but the amount due is %.2f (diff %.2f)",
				sumWithVAT, result.TotalWithVAT, diff))
		}
	}

	for _, item := range result.Items {
		if item.AmountWithVAT+0.005 < item.AmountWithoutVAT+item.AmountVATExempt {
			warnings = append(warnings, fmt.Sprintf(
				"item %s: amount with VAT %.2f is below its untaxed parts %.2f",
				item.Identifier, item.AmountWithVAT, item.AmountWithoutVAT+item.AmountVATExempt))
		}
	}

	return warnings
}
