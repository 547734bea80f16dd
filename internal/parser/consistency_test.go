package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"phonebills/internal/parser"
	"phonebills/internal/port"
)

func TestCheckTotals_Consistent(t *testing.T) {
	result := port.ParseResult{
		TotalWithVAT:    664.04,
		TotalWithoutVAT: 482.68,
		Items: []port.LineItem{
			{Identifier: "604413020", AmountWithoutVAT: 382.68, AmountVATExempt: 80, AmountWithVAT: 543.04},
			{Identifier: "DSL2821682", AmountWithoutVAT: 100, AmountWithVAT: 121},
		},
	}

	assert.Empty(t, parser.CheckTotals(result))
}

func TestCheckTotals_SumMismatch(t *testing.T) {
	result := port.ParseResult{
		TotalWithVAT: 5300.11,
		Items: []port.LineItem{
			{Identifier: "604413020", AmountWithoutVAT: 100, AmountWithVAT: 121},
		},
	}

	warnings := parser.CheckTotals(result)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "5300.11")
}

func TestCheckTotals_RoundingResidueTolerated(t *testing.T) {
	result := port.ParseResult{
		TotalWithVAT: 122.50,
		Items: []port.LineItem{
			{Identifier: "604413020", AmountWithoutVAT: 100, AmountWithVAT: 121},
		},
	}

	assert.Empty(t, parser.CheckTotals(result))
}

func TestCheckTotals_ItemBelowUntaxedParts(t *testing.T) {
	result := port.ParseResult{
		Items: []port.LineItem{
			{Identifier: "604413020", AmountWithoutVAT: 100, AmountVATExempt: 50, AmountWithVAT: 110},
		},
	}

	warnings := parser.CheckTotals(result)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "604413020")
}

func TestCheckTotals_NoItems(t *testing.T) {
	assert.Nil(t, parser.CheckTotals(port.ParseResult{TotalWithVAT: 100}))
}
