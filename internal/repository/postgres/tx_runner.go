package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"phonebills/internal/port"
)

// TxRunner executes callbacks inside one PostgreSQL transaction, handing the
// callback repositories bound to that transaction. The deferred rollback is a
// no-op once the transaction has committed.
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner creates a TxRunner over the connection pool.
func NewTxRunner(db *sqlx.DB) port.TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) RunIngest(ctx context.Context, fn func(invoices port.InvoiceRepository, services port.ServiceRepository, payments port.PaymentRepository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewInvoiceRepo(tx), NewServiceRepo(tx), NewPaymentRepo(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *TxRunner) RunPayments(ctx context.Context, fn func(payments port.PaymentRepository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewPaymentRepo(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
