package service

import (
	"context"

	"phonebills/internal/port"
)

// allocatePayments recomputes per-group payment obligations for one invoice
// and upserts them, returning how many groups were written. Only the two
// amount columns are touched, so re-running over unchanged items always
// converges to the same totals and never flips a paid flag. Zero grouped
// items means zero upserts; the caller decides whether that is an error.
func allocatePayments(ctx context.Context, payments port.PaymentRepository, invoiceID int64) (int, error) {
	totals, err := payments.GroupTotals(ctx, invoiceID)
	if err != nil {
		return 0, err
	}
	for _, t := range totals {
		if err := payments.UpsertAmounts(ctx, invoiceID, t.GroupID, t.Total, t.TotalWithoutVAT); err != nil {
			return 0, err
		}
	}
	return len(totals), nil
}
