package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

// PaymentExportEntry pairs an unpaid payment with the invoice items behind it,
// so statements can show the per-service breakdown.
type PaymentExportEntry struct {
	Payment domain.PaymentDetail
	Items   []domain.InvoiceItemDetail
}

// PaymentExport is the data set behind the PDF, CSV and XLSX statements.
// GroupName is set when the export is narrowed to a single group.
type PaymentExport struct {
	Period    string
	GroupName string
	Entries   []PaymentExportEntry
	Total     float64
}

// PaymentService manages payment allocation, settlement and reporting.
type PaymentService interface {
	// Reallocate recomputes an invoice's per-group payments from its current
	// item-to-group assignments. Paid flags on existing payments survive.
	Reallocate(ctx context.Context, invoiceID int64) ([]domain.PaymentDetail, error)

	List(ctx context.Context, filter port.PaymentFilter) ([]domain.PaymentDetail, error)

	// Summary aggregates one period's payments. An empty period means the
	// most recently imported one.
	Summary(ctx context.Context, period string) (*domain.PaymentsSummary, error)

	// SetPaid flips a payment's settled flag and returns the updated payment.
	SetPaid(ctx context.Context, id int64, isPaid bool) (*domain.PaymentDetail, error)

	// ExportUnpaid assembles the unpaid payments matching the filter with
	// their item breakdowns. An empty period means the most recently imported
	// one. Returns domain.ErrNothingToExport when nothing matches.
	ExportUnpaid(ctx context.Context, filter port.PaymentFilter) (*PaymentExport, error)
}

type paymentService struct {
	payments port.PaymentRepository
	invoices port.InvoiceRepository
	tx       port.TxRunner
	log      zerolog.Logger
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(payments port.PaymentRepository, invoices port.InvoiceRepository, tx port.TxRunner, log zerolog.Logger) PaymentService {
	return &paymentService{payments: payments, invoices: invoices, tx: tx, log: log}
}

func (s *paymentService) Reallocate(ctx context.Context, invoiceID int64) ([]domain.PaymentDetail, error) {
	if _, err := s.invoices.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}

	totals, err := s.payments.GroupTotals(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, domain.ErrNoGroupsAssigned
	}

	err = s.tx.RunPayments(ctx, func(payments port.PaymentRepository) error {
		_, err := allocatePayments(ctx, payments, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("invoice_id", invoiceID).Int("groups", len(totals)).Msg("payments reallocated")
	return s.payments.ListByInvoice(ctx, invoiceID)
}

func (s *paymentService) List(ctx context.Context, filter port.PaymentFilter) ([]domain.PaymentDetail, error) {
	return s.payments.List(ctx, filter)
}

func (s *paymentService) Summary(ctx context.Context, period string) (*domain.PaymentsSummary, error) {
	if period == "" {
		latest, err := s.invoices.LatestPeriod(ctx)
		if err != nil {
			return nil, err
		}
		period = latest
	}

	summary := &domain.PaymentsSummary{Period: period, Groups: []domain.PaymentDetail{}}
	if period == "" {
		return summary, nil
	}

	payments, err := s.payments.List(ctx, port.PaymentFilter{Period: period})
	if err != nil {
		return nil, err
	}

	summary.Groups = payments
	for _, p := range payments {
		summary.TotalDue += p.Amount
		summary.TotalDueNoVAT += p.AmountWithoutVAT
		if p.IsPaid {
			summary.TotalPaid += p.Amount
			summary.TotalPaidNoVAT += p.AmountWithoutVAT
		} else {
			summary.TotalUnpaid += p.Amount
			summary.TotalUnpaidNoVAT += p.AmountWithoutVAT
		}
	}
	return summary, nil
}

func (s *paymentService) SetPaid(ctx context.Context, id int64, isPaid bool) (*domain.PaymentDetail, error) {
	if _, err := s.payments.GetByID(ctx, id); err != nil {
		return nil, err
	}

	var paidAt *time.Time
	if isPaid {
		now := time.Now()
		paidAt = &now
	}
	if err := s.payments.SetPaid(ctx, id, isPaid, paidAt); err != nil {
		return nil, err
	}
	return s.payments.GetByID(ctx, id)
}

func (s *paymentService) ExportUnpaid(ctx context.Context, filter port.PaymentFilter) (*PaymentExport, error) {
	if filter.Period == "" {
		latest, err := s.invoices.LatestPeriod(ctx)
		if err != nil {
			return nil, err
		}
		filter.Period = latest
	}

	unpaid, err := s.payments.ListUnpaid(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(unpaid) == 0 {
		return nil, domain.ErrNothingToExport
	}

	// Item breakdowns come from the payment's invoice, filtered to the
	// payment's group. Fetch each invoice's items once.
	itemsByInvoice := make(map[int64][]domain.InvoiceItemDetail)
	export := &PaymentExport{Period: filter.Period, Entries: make([]PaymentExportEntry, 0, len(unpaid))}
	if filter.GroupID != nil {
		export.GroupName = unpaid[0].GroupName
	}
	for _, p := range unpaid {
		items, ok := itemsByInvoice[p.InvoiceID]
		if !ok {
			items, err = s.invoices.ListItems(ctx, p.InvoiceID)
			if err != nil {
				return nil, err
			}
			itemsByInvoice[p.InvoiceID] = items
		}

		entry := PaymentExportEntry{Payment: p}
		for _, item := range items {
			if item.GroupID != nil && *item.GroupID == p.GroupID {
				entry.Items = append(entry.Items, item)
			}
		}
		export.Entries = append(export.Entries, entry)
		export.Total += p.Amount
	}
	return export, nil
}
