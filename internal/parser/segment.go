package parser

import (
	"regexp"
	"strings"
)

// detailHeading marks the start of the per-identifier detail section.
const detailHeading = "Přehled služeb po číslech"

// headingLine matches the heading of one identifier's block inside the
// detail section, e.g.
//
//	604413020 / Next internet 5 GB
//	DSL2821682 / Pevný internet pro firmy L
//	LIC00122398 / Služby Norton
//	TV132635271 / MAGENTA TV M Plus
var headingLine = regexp.MustCompile(`(?m)^(\d{9}|DSL\d+|LIC\d+|TV\d+)\s*/\s*(.+)$`)

// Block is one identifier's slice of the detail section.
type Block struct {
	Identifier string
	Label      string
	Text       string
}

// Segment splits the detail section into per-identifier blocks. Each block
// runs from its heading line to the next heading (or end of text); order is
// exactly document order. The second return is false when the detail heading
// is absent from the document.
func Segment(text string) ([]Block, bool) {
	start := strings.Index(text, detailHeading)
	if start == -1 {
		return nil, false
	}
	detail := text[start:]

	matches := headingLine.FindAllStringSubmatchIndex(detail, -1)
	blocks := make([]Block, 0, len(matches))
	for i, m := range matches {
		end := len(detail)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, Block{
			Identifier: detail[m[2]:m[3]],
			Label:      strings.TrimSpace(detail[m[4]:m[5]]),
			Text:       detail[m[0]:end],
		})
	}
	return blocks, true
}
