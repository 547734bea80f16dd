package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"phonebills/internal/parser"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"simple", "123,45", 123.45},
		{"thousands with space", "5 300,11", 5300.11},
		{"thousands with nbsp", "5 300,11", 5300.11},
		{"millions", "1 234 567,89", 1234567.89},
		{"no decimals", "42", 42},
		{"leading and trailing space", " 99,90 ", 99.9},
		{"negative", "-316,26", -316.26},
		{"garbage", "abc", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parser.ParseAmount(tt.input), 0.0001)
		})
	}
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 463.04, parser.Round2(382.68*1.21), 0.0001)
	assert.InDelta(t, 0.13, parser.Round2(0.125), 0.0001)
	assert.InDelta(t, -0.13, parser.Round2(-0.125), 0.0001)
	assert.InDelta(t, 100.0, parser.Round2(100.0), 0.0001)
}
