package mocks

import (
	"context"

	"phonebills/internal/port"
)

// MockTxRunner is a pass-through implementation of port.TxRunner that hands
// the held mocks to the callback instead of transaction-bound repositories.
type MockTxRunner struct {
	Invoices *MockInvoiceRepo
	Services *MockServiceRepo
	Payments *MockPaymentRepo
}

func (m *MockTxRunner) RunIngest(ctx context.Context, fn func(invoices port.InvoiceRepository, services port.ServiceRepository, payments port.PaymentRepository) error) error {
	return fn(m.Invoices, m.Services, m.Payments)
}

func (m *MockTxRunner) RunPayments(ctx context.Context, fn func(payments port.PaymentRepository) error) error {
	return fn(m.Payments)
}
