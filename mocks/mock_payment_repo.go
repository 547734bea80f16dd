package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"phonebills/internal/domain"
	"phonebills/internal/port"
)

// MockPaymentRepo is a mock implementation of port.PaymentRepository.
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) GroupTotals(ctx context.Context, invoiceID int64) ([]domain.GroupTotal, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupTotal), args.Error(1)
}

func (m *MockPaymentRepo) UpsertAmounts(ctx context.Context, invoiceID, groupID int64, amount, amountWithoutVAT float64) error {
	args := m.Called(ctx, invoiceID, groupID, amount, amountWithoutVAT)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentDetail), args.Error(1)
}

func (m *MockPaymentRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.PaymentDetail, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentDetail), args.Error(1)
}

func (m *MockPaymentRepo) List(ctx context.Context, filter port.PaymentFilter) ([]domain.PaymentDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentDetail), args.Error(1)
}

func (m *MockPaymentRepo) ListUnpaid(ctx context.Context, filter port.PaymentFilter) ([]domain.PaymentDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentDetail), args.Error(1)
}

func (m *MockPaymentRepo) SetPaid(ctx context.Context, id int64, isPaid bool, paidAt *time.Time) error {
	args := m.Called(ctx, id, isPaid, paidAt)
	return args.Error(0)
}
