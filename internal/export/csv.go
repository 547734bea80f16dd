package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"phonebills/internal/service"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var csvColumns = []string{
	"Období",
	"Skupina",
	"Identifikátor",
	"Popis",
	"Bez DPH",
	"Osvobozeno od DPH",
	"S DPH",
}

// CSV writes the statement as one row per invoice item, prefixed with a BOM
// so spreadsheet apps detect the encoding.
func CSV(w io.Writer, data *service.PaymentExport) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}

	for _, entry := range data.Entries {
		for _, item := range entry.Items {
			row := []string{
				entry.Payment.Period,
				entry.Payment.GroupName,
				item.Identifier,
				item.Description,
				formatAmount(item.AmountWithoutVAT),
				formatAmount(item.AmountVATExempt),
				formatAmount(item.AmountWithVAT),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		// Subtotal row per group.
		if err := cw.Write([]string{
			entry.Payment.Period,
			entry.Payment.GroupName,
			"",
			"Celkem",
			formatAmount(entry.Payment.AmountWithoutVAT),
			"",
			formatAmount(entry.Payment.Amount),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
