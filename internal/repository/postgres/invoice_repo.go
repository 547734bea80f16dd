package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

type invoiceRepo struct {
	q sqlx.ExtContext
}

// NewInvoiceRepo creates a PostgreSQL-backed InvoiceRepository. It accepts
// either the pool or a transaction.
func NewInvoiceRepo(q sqlx.ExtContext) port.InvoiceRepository {
	return &invoiceRepo{q: q}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	invoice.ImportedAt = time.Now().UTC()

	query := `INSERT INTO invoices (period, file_path, total_with_vat, total_without_vat, dph_rate, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := sqlx.GetContext(ctx, r.q, &invoice.ID, query,
		invoice.Period, invoice.FilePath, invoice.TotalWithVAT, invoice.TotalWithoutVAT,
		invoice.VATRate, invoice.ImportedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "period") {
			return domain.ErrDuplicatePeriod
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := sqlx.GetContext(ctx, r.q, &invoice, `SELECT * FROM invoices WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context) ([]domain.InvoiceSummary, error) {
	var invoices []domain.InvoiceSummary
	query := `
		SELECT i.*,
			(SELECT COUNT(*) FROM invoice_items WHERE invoice_id = i.id) AS item_count,
			(SELECT COUNT(*) FROM payments WHERE invoice_id = i.id AND is_paid = TRUE) AS paid_groups,
			(SELECT COUNT(*) FROM payments WHERE invoice_id = i.id) AS total_groups
		FROM invoices i
		ORDER BY i.period DESC`
	if err := sqlx.SelectContext(ctx, r.q, &invoices, query); err != nil {
		return nil, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepo) LatestPeriod(ctx context.Context) (string, error) {
	var period string
	err := sqlx.GetContext(ctx, r.q, &period, `SELECT COALESCE(MAX(period), '') FROM invoices`)
	if err != nil {
		return "", fmt.Errorf("invoiceRepo.LatestPeriod: %w", err)
	}
	return period, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id int64) error {
	// invoice_items and payments cascade with the invoice.
	result, err := r.q.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// InsertItem writes one invoice item, skipping silently when the
// (invoice, service) pair already exists so re-runs cannot duplicate items.
func (r *invoiceRepo) InsertItem(ctx context.Context, item *domain.InvoiceItem) (bool, error) {
	query := `INSERT INTO invoice_items (invoice_id, service_id, description, amount_with_vat, amount_without_vat, amount_vat_exempt)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (invoice_id, service_id) DO NOTHING
		RETURNING id`
	err := sqlx.GetContext(ctx, r.q, &item.ID, query,
		item.InvoiceID, item.ServiceID, item.Description,
		item.AmountWithVAT, item.AmountWithoutVAT, item.AmountVATExempt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("invoiceRepo.InsertItem: %w", err)
	}
	return true, nil
}

func (r *invoiceRepo) ListItems(ctx context.Context, invoiceID int64) ([]domain.InvoiceItemDetail, error) {
	var items []domain.InvoiceItemDetail
	query := `
		SELECT ii.*, s.identifier, s.label AS service_label, s.type AS service_type,
			s.group_id, g.name AS group_name
		FROM invoice_items ii
		JOIN services s ON s.id = ii.service_id
		LEFT JOIN groups g ON g.id = s.group_id
		WHERE ii.invoice_id = $1
		ORDER BY g.name, s.identifier`
	if err := sqlx.SelectContext(ctx, r.q, &items, query, invoiceID); err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListItems: %w", err)
	}
	return items, nil
}
