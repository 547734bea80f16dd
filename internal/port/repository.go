package port

import (
	"context"
	"time"

	"phonebills/internal/domain"
)

// GroupRepository defines the contract for cost-center group persistence.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id int64) (*domain.Group, error)
	List(ctx context.Context) ([]domain.GroupWithServices, error)
	Update(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id int64) error
}

// ServiceRepository defines the contract for service registry persistence.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Service, error)
	GetWithGroup(ctx context.Context, id int64) (*domain.ServiceWithGroup, error)
	List(ctx context.Context) ([]domain.ServiceWithGroup, error)
	UpdateLabel(ctx context.Context, id int64, label string) error
	Update(ctx context.Context, service *domain.Service) error
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	// Create inserts an invoice and fills in its id. A period collision
	// returns domain.ErrDuplicatePeriod.
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context) ([]domain.InvoiceSummary, error)
	LatestPeriod(ctx context.Context) (string, error)
	Delete(ctx context.Context, id int64) error

	// InsertItem inserts an invoice item, silently skipping when the
	// (invoice, service) pair already exists. Returns whether a row was written.
	InsertItem(ctx context.Context, item *domain.InvoiceItem) (bool, error)
	ListItems(ctx context.Context, invoiceID int64) ([]domain.InvoiceItemDetail, error)
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	Period  string
	GroupID *int64
}

// PaymentRepository defines the contract for payment persistence.
type PaymentRepository interface {
	// GroupTotals aggregates an invoice's items by their service's group,
	// excluding items whose service is unassigned.
	GroupTotals(ctx context.Context, invoiceID int64) ([]domain.GroupTotal, error)

	// UpsertAmounts inserts or overwrites the two amount columns for the
	// (invoice, group) payment, never touching is_paid or paid_at.
	UpsertAmounts(ctx context.Context, invoiceID, groupID int64, amount, amountWithoutVAT float64) error

	GetByID(ctx context.Context, id int64) (*domain.PaymentDetail, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]domain.PaymentDetail, error)
	List(ctx context.Context, filter PaymentFilter) ([]domain.PaymentDetail, error)
	ListUnpaid(ctx context.Context, filter PaymentFilter) ([]domain.PaymentDetail, error)
	SetPaid(ctx context.Context, id int64, isPaid bool, paidAt *time.Time) error
}

// TxRunner runs callbacks inside one database transaction, with repositories
// bound to that transaction. Any error from the callback rolls everything back.
type TxRunner interface {
	RunIngest(ctx context.Context, fn func(invoices InvoiceRepository, services ServiceRepository, payments PaymentRepository) error) error
	RunPayments(ctx context.Context, fn func(payments PaymentRepository) error) error
}
