package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"phonebills/internal/service"
)

const sheetName = "Vyúčtování"

// XLSX writes the statement as a workbook with one summary row per group
// followed by that group's item breakdown.
func XLSX(w io.Writer, data *service.PaymentExport) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("export.XLSX: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", "Období")
	f.SetCellValue(sheetName, "B1", data.Period)
	f.SetCellValue(sheetName, "A2", "Celkem k úhradě")
	f.SetCellValue(sheetName, "B2", data.Total)

	rowNo := 4
	for _, entry := range data.Entries {
		f.SetCellValue(sheetName, cell('A', rowNo), entry.Payment.GroupName)
		f.SetCellValue(sheetName, cell('B', rowNo), entry.Payment.AmountWithoutVAT)
		f.SetCellValue(sheetName, cell('C', rowNo), entry.Payment.Amount)
		rowNo++

		f.SetCellValue(sheetName, cell('A', rowNo), "Identifikátor")
		f.SetCellValue(sheetName, cell('B', rowNo), "Popis")
		f.SetCellValue(sheetName, cell('C', rowNo), "Bez DPH")
		f.SetCellValue(sheetName, cell('D', rowNo), "S DPH")
		rowNo++

		for _, item := range entry.Items {
			f.SetCellValue(sheetName, cell('A', rowNo), item.Identifier)
			f.SetCellValue(sheetName, cell('B', rowNo), item.Description)
			f.SetCellValue(sheetName, cell('C', rowNo), item.AmountWithoutVAT)
			f.SetCellValue(sheetName, cell('D', rowNo), item.AmountWithVAT)
			rowNo++
		}
		rowNo++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.XLSX: %w", err)
	}
	return nil
}

func cell(col rune, rowNo int) string {
	return fmt.Sprintf("%c%d", col, rowNo)
}
