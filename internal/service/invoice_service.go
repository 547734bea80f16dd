package service

import (
	"context"
	"io"
	"sort"

	"github.com/rs/zerolog"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

// unassignedGroupName labels items whose service has no group in detail views.
const unassignedGroupName = "Nepřiřazeno"

// InvoiceGroupDetail is one group's slice of an invoice: its items, their
// totals and the matching payment when one exists.
type InvoiceGroupDetail struct {
	GroupID         *int64                     `json:"group_id"`
	GroupName       string                     `json:"group_name"`
	Items           []domain.InvoiceItemDetail `json:"items"`
	TotalWithVAT    float64                    `json:"total_with_vat"`
	TotalWithoutVAT float64                    `json:"total_without_vat"`
	Payment         *domain.PaymentDetail      `json:"payment"`
}

// InvoiceDetail is the full invoice view grouped by cost center.
type InvoiceDetail struct {
	domain.Invoice
	Groups []InvoiceGroupDetail `json:"groups"`
}

// InvoiceService exposes read and delete operations over imported invoices.
type InvoiceService interface {
	List(ctx context.Context) ([]domain.InvoiceSummary, error)

	// Get returns the invoice with its items grouped by cost center. Groups
	// sort by name with unassigned items always last.
	Get(ctx context.Context, id int64) (*InvoiceDetail, error)

	// Delete removes the invoice, its items and payments, and the stored
	// source document when one is on record.
	Delete(ctx context.Context, id int64) error

	// OpenFile streams the invoice's stored source document.
	OpenFile(ctx context.Context, id int64) (io.ReadCloser, string, error)
}

type invoiceService struct {
	invoices port.InvoiceRepository
	payments port.PaymentRepository
	store    port.FileStore
	log      zerolog.Logger
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(invoices port.InvoiceRepository, payments port.PaymentRepository, store port.FileStore, log zerolog.Logger) InvoiceService {
	return &invoiceService{invoices: invoices, payments: payments, store: store, log: log}
}

func (s *invoiceService) List(ctx context.Context) ([]domain.InvoiceSummary, error) {
	return s.invoices.List(ctx)
}

func (s *invoiceService) Get(ctx context.Context, id int64) (*InvoiceDetail, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.invoices.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	paymentByGroup := make(map[int64]domain.PaymentDetail, len(payments))
	for _, p := range payments {
		paymentByGroup[p.GroupID] = p
	}

	// Bucket items by group; key 0 collects the unassigned ones, which the
	// schema guarantees never collides with a real group id.
	buckets := make(map[int64]*InvoiceGroupDetail)
	for _, item := range items {
		key := int64(0)
		if item.GroupID != nil {
			key = *item.GroupID
		}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &InvoiceGroupDetail{GroupID: item.GroupID, GroupName: unassignedGroupName}
			if item.GroupName != nil {
				bucket.GroupName = *item.GroupName
			}
			if p, found := paymentByGroup[key]; found {
				payment := p
				bucket.Payment = &payment
			}
			buckets[key] = bucket
		}
		bucket.Items = append(bucket.Items, item)
		bucket.TotalWithVAT += item.AmountWithVAT
		bucket.TotalWithoutVAT += item.AmountWithoutVAT
	}

	groups := make([]InvoiceGroupDetail, 0, len(buckets))
	for _, bucket := range buckets {
		groups = append(groups, *bucket)
	}
	sort.Slice(groups, func(i, j int) bool {
		// Unassigned sorts last regardless of name.
		if (groups[i].GroupID == nil) != (groups[j].GroupID == nil) {
			return groups[j].GroupID == nil
		}
		return groups[i].GroupName < groups[j].GroupName
	})

	return &InvoiceDetail{Invoice: *invoice, Groups: groups}, nil
}

func (s *invoiceService) Delete(ctx context.Context, id int64) error {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if invoice.FilePath != nil {
		if err := s.store.Remove(ctx, *invoice.FilePath); err != nil {
			// The database row still has to go; a stranded file is the
			// lesser failure.
			s.log.Warn().Err(err).Str("file", *invoice.FilePath).Msg("removing invoice file")
		}
	}

	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("invoice_id", id).Str("period", invoice.Period).Msg("invoice deleted")
	return nil
}

func (s *invoiceService) OpenFile(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if invoice.FilePath == nil {
		return nil, "", domain.ErrNotFound
	}

	rc, err := s.store.Open(ctx, *invoice.FilePath)
	if err != nil {
		return nil, "", err
	}
	return rc, *invoice.FilePath, nil
}
