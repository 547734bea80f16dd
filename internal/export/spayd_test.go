package export_test

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"phonebills/internal/domain"
	"phonebills/internal/export"
	"phonebills/internal/service"
)

func TestSPAYD(t *testing.T) {
	payload := export.SPAYD("CZ6508000000192000145399", 543.04, "Telefony 2026-02 Vedení")

	assert.Equal(t, "SPD*1.0*ACC:CZ6508000000192000145399*AM:543.04*CC:CZK*MSG:Telefony 2026-02 Vedení", payload)
}

func TestSPAYD_SanitizesMessage(t *testing.T) {
	payload := export.SPAYD("CZ65 0800 0000 1920 0014 5399", 100, "Skupina*X: test")

	assert.NotContains(t, payload, "ACC:CZ65 0800")
	assert.Contains(t, payload, "ACC:CZ6508000000192000145399")
	assert.Contains(t, payload, "MSG:Skupina X  test")
}

func TestSPAYD_TruncatesLongMessage(t *testing.T) {
	payload := export.SPAYD("CZ6508000000192000145399", 100, strings.Repeat("a", 100))

	msg := payload[strings.Index(payload, "MSG:")+4:]
	assert.LessOrEqual(t, len(msg), 60)
}

func TestSPAYD_TruncatesOnRuneBoundary(t *testing.T) {
	payload := export.SPAYD("CZ6508000000192000145399", 100, strings.Repeat("ž", 70))

	msg := payload[strings.Index(payload, "MSG:")+4:]
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, 60, utf8.RuneCountInString(msg))
}

func TestFormatCZK(t *testing.T) {
	assert.Equal(t, "5 300,11 Kč", export.FormatCZK(5300.11))
	assert.Equal(t, "543,04 Kč", export.FormatCZK(543.04))
	assert.Equal(t, "1 234 567,89 Kč", export.FormatCZK(1234567.89))
	assert.Equal(t, "0,00 Kč", export.FormatCZK(0))
	assert.Equal(t, "-316,26 Kč", export.FormatCZK(-316.26))
}

func sampleExport() *service.PaymentExport {
	groupID := int64(1)
	return &service.PaymentExport{
		Period: "2026-02",
		Total:  543.04,
		Entries: []service.PaymentExportEntry{
			{
				Payment: domain.PaymentDetail{
					Payment:   domain.Payment{InvoiceID: 10, GroupID: groupID, Amount: 543.04, AmountWithoutVAT: 448.79},
					GroupName: "Vedení",
					Period:    "2026-02",
				},
				Items: []domain.InvoiceItemDetail{
					{
						InvoiceItem: domain.InvoiceItem{Description: "Next internet 5 GB", AmountWithVAT: 543.04, AmountWithoutVAT: 448.79, AmountVATExempt: 80},
						Identifier:  "604413020",
						GroupID:     &groupID,
					},
				},
			},
		},
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	err := export.CSV(&buf, sampleExport())

	assert.NoError(t, err)
	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, export.BOM))

	text := string(out[len(export.BOM):])
	lines := strings.Split(strings.TrimSpace(text), "\n")
	// header + one item + one subtotal
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Skupina")
	assert.Contains(t, lines[1], "604413020")
	assert.Contains(t, lines[1], "448.79")
	assert.Contains(t, lines[2], "Celkem")
	assert.Contains(t, lines[2], "543.04")
}

func TestPDF(t *testing.T) {
	account := export.BankAccount{
		IBAN:          "CZ6508000000192000145399",
		Display:       "19-2000145399/0800",
		MessagePrefix: "Telefony",
	}

	doc, err := export.PDF(sampleExport(), account)

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := export.XLSX(&buf, sampleExport())

	assert.NoError(t, err)
	// XLSX is a zip archive.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}
