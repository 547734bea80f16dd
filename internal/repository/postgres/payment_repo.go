package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

type paymentRepo struct {
	q sqlx.ExtContext
}

// NewPaymentRepo creates a PostgreSQL-backed PaymentRepository. It accepts
// either the pool or a transaction.
func NewPaymentRepo(q sqlx.ExtContext) port.PaymentRepository {
	return &paymentRepo{q: q}
}

// GroupTotals sums an invoice's items per assigned group. Items whose
// service has no group contribute to the invoice totals but never to a
// payment, so they are filtered out here.
func (r *paymentRepo) GroupTotals(ctx context.Context, invoiceID int64) ([]domain.GroupTotal, error) {
	var totals []domain.GroupTotal
	query := `
		SELECT s.group_id, SUM(ii.amount_with_vat) AS total, SUM(ii.amount_without_vat) AS total_no_vat
		FROM invoice_items ii
		JOIN services s ON s.id = ii.service_id
		WHERE ii.invoice_id = $1 AND s.group_id IS NOT NULL
		GROUP BY s.group_id`
	if err := sqlx.SelectContext(ctx, r.q, &totals, query, invoiceID); err != nil {
		return nil, fmt.Errorf("paymentRepo.GroupTotals: %w", err)
	}
	return totals, nil
}

// UpsertAmounts writes a payment's two amount columns, inserting the row if
// it does not exist yet. is_paid and paid_at are deliberately untouched:
// re-allocation must never unpay a group.
func (r *paymentRepo) UpsertAmounts(ctx context.Context, invoiceID, groupID int64, amount, amountWithoutVAT float64) error {
	query := `INSERT INTO payments (invoice_id, group_id, amount, amount_without_vat)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (invoice_id, group_id)
		DO UPDATE SET amount = EXCLUDED.amount, amount_without_vat = EXCLUDED.amount_without_vat`
	if _, err := r.q.ExecContext(ctx, query, invoiceID, groupID, amount, amountWithoutVAT); err != nil {
		return fmt.Errorf("paymentRepo.UpsertAmounts: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentDetail, error) {
	var payment domain.PaymentDetail
	query := `
		SELECT p.*, g.name AS group_name, i.period
		FROM payments p
		JOIN groups g ON g.id = p.group_id
		JOIN invoices i ON i.id = p.invoice_id
		WHERE p.id = $1`
	err := sqlx.GetContext(ctx, r.q, &payment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.PaymentDetail, error) {
	var payments []domain.PaymentDetail
	query := `
		SELECT p.*, g.name AS group_name, i.period
		FROM payments p
		JOIN groups g ON g.id = p.group_id
		JOIN invoices i ON i.id = p.invoice_id
		WHERE p.invoice_id = $1
		ORDER BY g.name`
	if err := sqlx.SelectContext(ctx, r.q, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByInvoice: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) List(ctx context.Context, filter port.PaymentFilter) ([]domain.PaymentDetail, error) {
	return r.list(ctx, filter, false)
}

func (r *paymentRepo) ListUnpaid(ctx context.Context, filter port.PaymentFilter) ([]domain.PaymentDetail, error) {
	return r.list(ctx, filter, true)
}

func (r *paymentRepo) list(ctx context.Context, filter port.PaymentFilter, unpaidOnly bool) ([]domain.PaymentDetail, error) {
	query := `
		SELECT p.*, g.name AS group_name, i.period
		FROM payments p
		JOIN groups g ON g.id = p.group_id
		JOIN invoices i ON i.id = p.invoice_id`

	var conditions []string
	var args []interface{}
	if unpaidOnly {
		conditions = append(conditions, "p.is_paid = FALSE")
	}
	if filter.Period != "" {
		args = append(args, filter.Period)
		conditions = append(conditions, fmt.Sprintf("i.period = $%d", len(args)))
	}
	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		conditions = append(conditions, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += "\n\t\tWHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += "\n\t\tORDER BY i.period DESC, g.name"

	var payments []domain.PaymentDetail
	if err := sqlx.SelectContext(ctx, r.q, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("paymentRepo.list: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) SetPaid(ctx context.Context, id int64, isPaid bool, paidAt *time.Time) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE payments SET is_paid = $1, paid_at = $2 WHERE id = $3`, isPaid, paidAt, id)
	if err != nil {
		return fmt.Errorf("paymentRepo.SetPaid: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
