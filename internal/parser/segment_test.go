package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"phonebills/internal/parser"
)

const detailSection = `Přehled služeb po číslech
604413020 / Next internet 5 GB
Celkem za služby bez DPH316,26 Kč
DSL2821682 / Pevný internet pro firmy L
Celkem za služby bez DPH499,00 Kč
LIC00122398 / Služby Norton
Celkem za služby bez DPH79,00 Kč
TV132635271 / MAGENTA TV M Plus
Celkem za služby bez DPH349,00 Kč
`

func TestSegment(t *testing.T) {
	blocks, ok := parser.Segment("Hlavička faktury\n" + detailSection)

	assert.True(t, ok)
	assert.Len(t, blocks, 4)

	assert.Equal(t, "604413020", blocks[0].Identifier)
	assert.Equal(t, "Next internet 5 GB", blocks[0].Label)
	assert.Contains(t, blocks[0].Text, "316,26")
	assert.NotContains(t, blocks[0].Text, "499,00")

	assert.Equal(t, "DSL2821682", blocks[1].Identifier)
	assert.Equal(t, "LIC00122398", blocks[2].Identifier)
	assert.Equal(t, "TV132635271", blocks[3].Identifier)
	assert.Equal(t, "MAGENTA TV M Plus", blocks[3].Label)
}

func TestSegment_HeadingMissing(t *testing.T) {
	blocks, ok := parser.Segment("Faktura bez detailní sekce\n604413020 / Next internet\n")

	assert.False(t, ok)
	assert.Nil(t, blocks)
}

func TestSegment_SectionWithoutHeadings(t *testing.T) {
	blocks, ok := parser.Segment("Přehled služeb po číslech\nžádné položky zde\n")

	assert.True(t, ok)
	assert.Empty(t, blocks)
}

func TestSegment_IgnoresTextBeforeSection(t *testing.T) {
	// An identifier-looking line above the detail heading must not produce a block.
	text := "604999999 / Souhrnný řádek\n" + detailSection
	blocks, ok := parser.Segment(text)

	assert.True(t, ok)
	assert.Len(t, blocks, 4)
	assert.Equal(t, "604413020", blocks[0].Identifier)
}
