// Package extract pulls plain text out of uploaded invoice documents.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"phonebills/internal/port"
)

type pdfExtractor struct{}

// NewPDFExtractor creates a TextExtractor for PDF documents.
func NewPDFExtractor() port.TextExtractor {
	return pdfExtractor{}
}

// ExtractText concatenates the text content of every page, one page per line
// group, in document order. Layout is not preserved beyond reading order,
// which is what the marker-based parser expects.
func (pdfExtractor) ExtractText(_ context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var b strings.Builder
	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", pageNo, err)
		}
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word.S)
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
