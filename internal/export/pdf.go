package export

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"phonebills/internal/service"
)

var (
	colorPrimary = &props.Color{Red: 226, Green: 0, Blue: 116}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PDF renders the unpaid-payments statement: one section per group with its
// service breakdown and a SPAYD QR code for the exact amount due.
func PDF(data *service.PaymentExport, account BankAccount) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Vyúčtování telefonních služeb "+data.Period, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, entry := range data.Entries {
		m.AddRows(groupHeaderRow(entry))
		m.AddRows(itemHeaderRow())
		for _, r := range itemRows(entry) {
			m.AddRows(r)
		}
		m.AddRows(paymentRow(entry, account))
		m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	}

	m.AddRows(totalRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("export.PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(data *service.PaymentExport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Vyúčtování telefonních služeb", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Období: "+data.Period, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Celkem k úhradě", props.Text{Size: 8, Align: align.Right, Top: 2, Color: colorGray}),
			text.New(FormatCZK(data.Total), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func groupHeaderRow(entry service.PaymentExportEntry) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New(entry.Payment.GroupName, props.Text{
			Style: fontstyle.Bold, Size: 11, Top: 2,
		})),
		col.New(4).Add(text.New(FormatCZK(entry.Payment.Amount), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2,
		})),
	)
}

func itemHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7.5, Align: a, Color: colorGray, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Číslo / služba", 4, align.Left),
		h("Popis", 4, align.Left),
		h("Bez DPH", 2, align.Right),
		h("S DPH", 2, align.Right),
	)
}

func itemRows(entry service.PaymentExportEntry) []core.Row {
	rows := make([]core.Row, 0, len(entry.Items))
	for _, item := range entry.Items {
		label := item.Description
		if item.ServiceLabel != nil && *item.ServiceLabel != "" {
			label = *item.ServiceLabel
		}
		rows = append(rows, row.New(5).Add(
			col.New(4).Add(text.New(item.Identifier, props.Text{Size: 8, Top: 0.5})),
			col.New(4).Add(text.New(label, props.Text{Size: 8, Top: 0.5})),
			col.New(2).Add(text.New(FormatCZK(item.AmountWithoutVAT), props.Text{
				Size: 8, Align: align.Right, Top: 0.5,
			})),
			col.New(2).Add(text.New(FormatCZK(item.AmountWithVAT), props.Text{
				Size: 8, Align: align.Right, Top: 0.5,
			})),
		))
	}
	return rows
}

// paymentRow puts the SPAYD QR next to the payment instructions so the payer
// can either scan or type.
func paymentRow(entry service.PaymentExportEntry, account BankAccount) core.Row {
	message := fmt.Sprintf("%s %s %s", account.MessagePrefix, entry.Payment.Period, entry.Payment.GroupName)
	payload := SPAYD(account.IBAN, entry.Payment.Amount, message)

	return row.New(34).Add(
		col.New(3).Add(code.NewQr(payload, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Platba QR kódem nebo převodem:", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 4,
			}),
			text.New("Účet: "+account.Display, props.Text{Size: 8, Top: 10}),
			text.New("Částka: "+FormatCZK(entry.Payment.Amount), props.Text{Size: 8, Top: 15}),
			text.New("Zpráva: "+message, props.Text{Size: 8, Top: 20, Color: colorGray}),
		),
	)
}

func totalRow(data *service.PaymentExport) core.Row {
	return row.New(12).Add(
		col.New(8).Add(text.New("Celkem za neuhrazené skupiny", props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 3,
		})),
		col.New(4).Add(text.New(FormatCZK(data.Total), props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2, Color: colorPrimary,
		})),
	)
}
