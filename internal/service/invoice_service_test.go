package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"phonebills/internal/domain"
	"phonebills/internal/service"
	"phonebills/mocks"
)

func TestInvoiceService_Get_GroupsItemsByCostCenter(t *testing.T) {
	invoices := new(mocks.MockInvoiceRepo)
	payments := new(mocks.MockPaymentRepo)
	store := new(mocks.MockFileStore)

	vedeni, sklad := int64(1), int64(2)
	invoices.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Invoice{ID: 10, Period: "2026-02"}, nil)
	invoices.On("ListItems", mock.Anything, int64(10)).
		Return([]domain.InvoiceItemDetail{
			{InvoiceItem: domain.InvoiceItem{AmountWithVAT: 100, AmountWithoutVAT: 82.64}, Identifier: "604413020", GroupID: &vedeni, GroupName: strPtr("Vedení")},
			{InvoiceItem: domain.InvoiceItem{AmountWithVAT: 200, AmountWithoutVAT: 165.29}, Identifier: "604413021", GroupID: &vedeni, GroupName: strPtr("Vedení")},
			{InvoiceItem: domain.InvoiceItem{AmountWithVAT: 300, AmountWithoutVAT: 247.93}, Identifier: "DSL2821682", GroupID: &sklad, GroupName: strPtr("Sklad")},
			{InvoiceItem: domain.InvoiceItem{AmountWithVAT: 79}, Identifier: "LIC00122398"},
		}, nil)
	payments.On("ListByInvoice", mock.Anything, int64(10)).
		Return([]domain.PaymentDetail{
			{Payment: domain.Payment{GroupID: vedeni, Amount: 300, IsPaid: true}, GroupName: "Vedení"},
			{Payment: domain.Payment{GroupID: sklad, Amount: 300}, GroupName: "Sklad"},
		}, nil)

	svc := service.NewInvoiceService(invoices, payments, store, zerolog.Nop())
	detail, err := svc.Get(context.Background(), 10)

	assert.NoError(t, err)
	assert.Len(t, detail.Groups, 3)

	// Alphabetical by name, unassigned last.
	assert.Equal(t, "Sklad", detail.Groups[0].GroupName)
	assert.Equal(t, "Vedení", detail.Groups[1].GroupName)
	assert.Equal(t, "Nepřiřazeno", detail.Groups[2].GroupName)
	assert.Nil(t, detail.Groups[2].GroupID)

	vedeniGroup := detail.Groups[1]
	assert.Len(t, vedeniGroup.Items, 2)
	assert.InDelta(t, 300, vedeniGroup.TotalWithVAT, 0.001)
	assert.InDelta(t, 247.93, vedeniGroup.TotalWithoutVAT, 0.001)
	assert.NotNil(t, vedeniGroup.Payment)
	assert.True(t, vedeniGroup.Payment.IsPaid)

	assert.Nil(t, detail.Groups[2].Payment)
}

func TestInvoiceService_Get_NotFound(t *testing.T) {
	invoices := new(mocks.MockInvoiceRepo)
	payments := new(mocks.MockPaymentRepo)
	store := new(mocks.MockFileStore)

	invoices.On("GetByID", mock.Anything, int64(99)).
		Return(nil, domain.ErrInvoiceNotFound)

	svc := service.NewInvoiceService(invoices, payments, store, zerolog.Nop())
	_, err := svc.Get(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestInvoiceService_Delete_RemovesStoredFile(t *testing.T) {
	invoices := new(mocks.MockInvoiceRepo)
	payments := new(mocks.MockPaymentRepo)
	store := new(mocks.MockFileStore)

	invoices.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Invoice{ID: 10, FilePath: strPtr("invoice-1700000000000.pdf")}, nil)
	store.On("Remove", mock.Anything, "invoice-1700000000000.pdf").Return(nil)
	invoices.On("Delete", mock.Anything, int64(10)).Return(nil)

	svc := service.NewInvoiceService(invoices, payments, store, zerolog.Nop())
	err := svc.Delete(context.Background(), 10)

	assert.NoError(t, err)
	store.AssertExpectations(t)
	invoices.AssertExpectations(t)
}

func TestInvoiceService_Delete_NoStoredFile(t *testing.T) {
	invoices := new(mocks.MockInvoiceRepo)
	payments := new(mocks.MockPaymentRepo)
	store := new(mocks.MockFileStore)

	invoices.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Invoice{ID: 10}, nil)
	invoices.On("Delete", mock.Anything, int64(10)).Return(nil)

	svc := service.NewInvoiceService(invoices, payments, store, zerolog.Nop())
	err := svc.Delete(context.Background(), 10)

	assert.NoError(t, err)
	store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestInvoiceService_OpenFile_NoFileOnRecord(t *testing.T) {
	invoices := new(mocks.MockInvoiceRepo)
	payments := new(mocks.MockPaymentRepo)
	store := new(mocks.MockFileStore)

	invoices.On("GetByID", mock.Anything, int64(10)).
		Return(&domain.Invoice{ID: 10}, nil)

	svc := service.NewInvoiceService(invoices, payments, store, zerolog.Nop())
	_, _, err := svc.OpenFile(context.Background(), 10)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
