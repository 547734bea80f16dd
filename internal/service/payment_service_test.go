package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"phonebills/internal/domain"
	"phonebills/internal/port"
	"phonebills/internal/service"
	"phonebills/mocks"
)

type paymentFixture struct {
	payments *mocks.MockPaymentRepo
	invoices *mocks.MockInvoiceRepo
}

func newPaymentFixture() *paymentFixture {
	return &paymentFixture{
		payments: new(mocks.MockPaymentRepo),
		invoices: new(mocks.MockInvoiceRepo),
	}
}

func (f *paymentFixture) newService() service.PaymentService {
	tx := &mocks.MockTxRunner{Invoices: f.invoices, Payments: f.payments}
	return service.NewPaymentService(f.payments, f.invoices, tx, zerolog.Nop())
}

func TestPaymentService_Reallocate(t *testing.T) {
	f := newPaymentFixture()

	f.invoices.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Invoice{ID: 10, Period: "2026-02"}, nil)
	f.payments.On("GroupTotals", mock.Anything, int64(10)).
		Return([]domain.GroupTotal{
			{GroupID: 1, Total: 543.04, TotalWithoutVAT: 448.79},
			{GroupID: 2, Total: 603.79, TotalWithoutVAT: 499.00},
		}, nil)
	f.payments.On("UpsertAmounts", mock.Anything, int64(10), int64(1), 543.04, 448.79).Return(nil)
	f.payments.On("UpsertAmounts", mock.Anything, int64(10), int64(2), 603.79, 499.00).Return(nil)
	f.payments.On("ListByInvoice", mock.Anything, int64(10)).
		Return([]domain.PaymentDetail{
			{Payment: domain.Payment{InvoiceID: 10, GroupID: 1, Amount: 543.04}},
			{Payment: domain.Payment{InvoiceID: 10, GroupID: 2, Amount: 603.79}},
		}, nil)

	svc := f.newService()
	payments, err := svc.Reallocate(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, payments, 2)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_Reallocate_InvoiceMissing(t *testing.T) {
	f := newPaymentFixture()

	f.invoices.On("GetByID", mock.Anything, int64(99)).
		Return(nil, domain.ErrInvoiceNotFound)

	svc := f.newService()
	_, err := svc.Reallocate(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestPaymentService_Reallocate_NoGroupsAssigned(t *testing.T) {
	f := newPaymentFixture()

	f.invoices.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Invoice{ID: 10}, nil)
	f.payments.On("GroupTotals", mock.Anything, int64(10)).
		Return([]domain.GroupTotal{}, nil)

	svc := f.newService()
	_, err := svc.Reallocate(context.Background(), 10)

	assert.ErrorIs(t, err, domain.ErrNoGroupsAssigned)
	f.payments.AssertNotCalled(t, "UpsertAmounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_Summary(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("List", mock.Anything, port.PaymentFilter{Period: "2026-02"}).
		Return([]domain.PaymentDetail{
			{Payment: domain.Payment{Amount: 543.04, AmountWithoutVAT: 448.79, IsPaid: true}},
			{Payment: domain.Payment{Amount: 603.79, AmountWithoutVAT: 499.00}},
		}, nil)

	svc := f.newService()
	summary, err := svc.Summary(context.Background(), "2026-02")

	assert.NoError(t, err)
	assert.Equal(t, "2026-02", summary.Period)
	assert.InDelta(t, 1146.83, summary.TotalDue, 0.001)
	assert.InDelta(t, 947.79, summary.TotalDueNoVAT, 0.001)
	assert.InDelta(t, 543.04, summary.TotalPaid, 0.001)
	assert.InDelta(t, 603.79, summary.TotalUnpaid, 0.001)
	f.invoices.AssertNotCalled(t, "LatestPeriod", mock.Anything)
}

func TestPaymentService_Summary_DefaultsToLatestPeriod(t *testing.T) {
	f := newPaymentFixture()

	f.invoices.On("LatestPeriod", mock.Anything).Return("2026-02", nil)
	f.payments.On("List", mock.Anything, port.PaymentFilter{Period: "2026-02"}).
		Return([]domain.PaymentDetail{}, nil)

	svc := f.newService()
	summary, err := svc.Summary(context.Background(), "")

	assert.NoError(t, err)
	assert.Equal(t, "2026-02", summary.Period)
}

func TestPaymentService_Summary_NothingImported(t *testing.T) {
	f := newPaymentFixture()

	f.invoices.On("LatestPeriod", mock.Anything).Return("", nil)

	svc := f.newService()
	summary, err := svc.Summary(context.Background(), "")

	assert.NoError(t, err)
	assert.Empty(t, summary.Period)
	assert.Empty(t, summary.Groups)
	f.payments.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestPaymentService_SetPaid(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.PaymentDetail{Payment: domain.Payment{ID: 5}}, nil)
	f.payments.On("SetPaid", mock.Anything, int64(5), true, mock.MatchedBy(func(paidAt *time.Time) bool {
		return paidAt != nil
	})).Return(nil)

	svc := f.newService()
	_, err := svc.SetPaid(context.Background(), 5, true)

	assert.NoError(t, err)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_SetPaid_Unpay(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.PaymentDetail{Payment: domain.Payment{ID: 5, IsPaid: true}}, nil)
	f.payments.On("SetPaid", mock.Anything, int64(5), false, (*time.Time)(nil)).Return(nil)

	svc := f.newService()
	_, err := svc.SetPaid(context.Background(), 5, false)

	assert.NoError(t, err)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_ExportUnpaid(t *testing.T) {
	f := newPaymentFixture()

	groupA, groupB := int64(1), int64(2)
	f.invoices.On("LatestPeriod", mock.Anything).Return("2026-02", nil)
	f.payments.On("ListUnpaid", mock.Anything, port.PaymentFilter{Period: "2026-02"}).
		Return([]domain.PaymentDetail{
			{Payment: domain.Payment{InvoiceID: 10, GroupID: groupA, Amount: 543.04}, GroupName: "Vedení", Period: "2026-02"},
			{Payment: domain.Payment{InvoiceID: 10, GroupID: groupB, Amount: 603.79}, GroupName: "Sklad", Period: "2026-02"},
		}, nil)
	f.invoices.On("ListItems", mock.Anything, int64(10)).
		Return([]domain.InvoiceItemDetail{
			{InvoiceItem: domain.InvoiceItem{ServiceID: 1, AmountWithVAT: 543.04}, Identifier: "604413020", GroupID: &groupA},
			{InvoiceItem: domain.InvoiceItem{ServiceID: 2, AmountWithVAT: 603.79}, Identifier: "DSL2821682", GroupID: &groupB},
			{InvoiceItem: domain.InvoiceItem{ServiceID: 3, AmountWithVAT: 79.00}, Identifier: "LIC00122398", GroupID: nil},
		}, nil).Once()

	svc := f.newService()
	data, err := svc.ExportUnpaid(context.Background(), port.PaymentFilter{})

	assert.NoError(t, err)
	assert.Equal(t, "2026-02", data.Period)
	assert.Empty(t, data.GroupName)
	assert.InDelta(t, 1146.83, data.Total, 0.001)
	assert.Len(t, data.Entries, 2)
	// Each entry carries only its own group's items; unassigned items appear nowhere.
	assert.Len(t, data.Entries[0].Items, 1)
	assert.Equal(t, "604413020", data.Entries[0].Items[0].Identifier)
	assert.Len(t, data.Entries[1].Items, 1)
	assert.Equal(t, "DSL2821682", data.Entries[1].Items[0].Identifier)
	// Items were fetched once per invoice, not once per payment.
	f.invoices.AssertNumberOfCalls(t, "ListItems", 1)
}

func TestPaymentService_ExportUnpaid_FilteredByGroup(t *testing.T) {
	f := newPaymentFixture()

	groupA, groupB := int64(1), int64(2)
	f.payments.On("ListUnpaid", mock.Anything, port.PaymentFilter{Period: "2026-02", GroupID: &groupA}).
		Return([]domain.PaymentDetail{
			{Payment: domain.Payment{InvoiceID: 10, GroupID: groupA, Amount: 543.04}, GroupName: "Vedení", Period: "2026-02"},
		}, nil)
	f.invoices.On("ListItems", mock.Anything, int64(10)).
		Return([]domain.InvoiceItemDetail{
			{InvoiceItem: domain.InvoiceItem{ServiceID: 1, AmountWithVAT: 543.04}, Identifier: "604413020", GroupID: &groupA},
			{InvoiceItem: domain.InvoiceItem{ServiceID: 2, AmountWithVAT: 603.79}, Identifier: "DSL2821682", GroupID: &groupB},
		}, nil)

	svc := f.newService()
	data, err := svc.ExportUnpaid(context.Background(), port.PaymentFilter{Period: "2026-02", GroupID: &groupA})

	assert.NoError(t, err)
	assert.Equal(t, "Vedení", data.GroupName)
	assert.Len(t, data.Entries, 1)
	assert.Equal(t, groupA, data.Entries[0].Payment.GroupID)
	assert.Len(t, data.Entries[0].Items, 1)
	assert.Equal(t, "604413020", data.Entries[0].Items[0].Identifier)
	assert.InDelta(t, 543.04, data.Total, 0.001)
	f.invoices.AssertNotCalled(t, "LatestPeriod", mock.Anything)
}

func TestPaymentService_ExportUnpaid_NothingToExport(t *testing.T) {
	f := newPaymentFixture()

	f.payments.On("ListUnpaid", mock.Anything, port.PaymentFilter{Period: "2026-02"}).
		Return([]domain.PaymentDetail{}, nil)

	svc := f.newService()
	_, err := svc.ExportUnpaid(context.Background(), port.PaymentFilter{Period: "2026-02"})

	assert.ErrorIs(t, err, domain.ErrNothingToExport)
}
