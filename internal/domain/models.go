package domain

import "time"

// Group is an internal cost center to which services are assigned.
type Group struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Note      *string   `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GroupWithServices is the group list read model: a group, its service count,
// and the services currently assigned to it.
type GroupWithServices struct {
	Group
	ServiceCount int       `db:"service_count" json:"service_count"`
	Services     []Service `json:"services"`
}

// Service is a billable line identified by a vendor-assigned code
// (a 9-digit phone number or a DSL/TV/LIC-prefixed code).
type Service struct {
	ID         int64       `db:"id" json:"id"`
	Identifier string      `db:"identifier" json:"identifier"`
	Label      *string     `db:"label" json:"label"`
	Type       ServiceType `db:"type" json:"type"`
	GroupID    *int64      `db:"group_id" json:"group_id"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// ServiceWithGroup joins a service with its group name for listings.
type ServiceWithGroup struct {
	Service
	GroupName *string `db:"group_name" json:"group_name"`
}

// Invoice is one imported vendor invoice, unique per billing period.
type Invoice struct {
	ID              int64     `db:"id" json:"id"`
	Period          string    `db:"period" json:"period"`
	FilePath        *string   `db:"file_path" json:"file_path"`
	TotalWithVAT    float64   `db:"total_with_vat" json:"total_with_vat"`
	TotalWithoutVAT float64   `db:"total_without_vat" json:"total_without_vat"`
	VATRate         float64   `db:"dph_rate" json:"dph_rate"`
	ImportedAt      time.Time `db:"imported_at" json:"imported_at"`
}

// InvoiceSummary is the invoice list read model with item and payment counts.
type InvoiceSummary struct {
	Invoice
	ItemCount   int `db:"item_count" json:"item_count"`
	PaidGroups  int `db:"paid_groups" json:"paid_groups"`
	TotalGroups int `db:"total_groups" json:"total_groups"`
}

// InvoiceItem is one service's share of one invoice. The (invoice, service)
// pair is unique so re-ingesting a document cannot duplicate items.
type InvoiceItem struct {
	ID               int64   `db:"id" json:"id"`
	InvoiceID        int64   `db:"invoice_id" json:"invoice_id"`
	ServiceID        int64   `db:"service_id" json:"service_id"`
	Description      string  `db:"description" json:"description"`
	AmountWithVAT    float64 `db:"amount_with_vat" json:"amount_with_vat"`
	AmountWithoutVAT float64 `db:"amount_without_vat" json:"amount_without_vat"`
	AmountVATExempt  float64 `db:"amount_vat_exempt" json:"amount_vat_exempt"`
}

// InvoiceItemDetail joins an item with its service and group for the
// invoice detail view and exports.
type InvoiceItemDetail struct {
	InvoiceItem
	Identifier   string      `db:"identifier" json:"identifier"`
	ServiceLabel *string     `db:"service_label" json:"label"`
	ServiceType  ServiceType `db:"service_type" json:"service_type"`
	GroupID      *int64      `db:"group_id" json:"group_id"`
	GroupName    *string     `db:"group_name" json:"group_name"`
}

// Payment is one group's obligation for one invoice period, unique per
// (invoice, group). Re-allocation rewrites only the amounts; the paid flag
// and timestamp belong to the mark-paid operation.
type Payment struct {
	ID               int64      `db:"id" json:"id"`
	InvoiceID        int64      `db:"invoice_id" json:"invoice_id"`
	GroupID          int64      `db:"group_id" json:"group_id"`
	Amount           float64    `db:"amount" json:"amount"`
	AmountWithoutVAT float64    `db:"amount_without_vat" json:"amount_without_vat"`
	IsPaid           bool       `db:"is_paid" json:"is_paid"`
	PaidAt           *time.Time `db:"paid_at" json:"paid_at"`
}

// PaymentDetail joins a payment with its group name and invoice period.
type PaymentDetail struct {
	Payment
	GroupName string `db:"group_name" json:"group_name"`
	Period    string `db:"period" json:"period"`
}

// GroupTotal is the per-group aggregation of invoice items that drives
// payment allocation. Items whose service has no group never appear here.
type GroupTotal struct {
	GroupID         int64   `db:"group_id"`
	Total           float64 `db:"total"`
	TotalWithoutVAT float64 `db:"total_no_vat"`
}

// PaymentsSummary aggregates one period's payments for the dashboard.
type PaymentsSummary struct {
	Period           string          `json:"period"`
	Groups           []PaymentDetail `json:"groups"`
	TotalDue         float64         `json:"total_due"`
	TotalDueNoVAT    float64         `json:"total_due_no_vat"`
	TotalPaid        float64         `json:"total_paid"`
	TotalPaidNoVAT   float64         `json:"total_paid_no_vat"`
	TotalUnpaid      float64         `json:"total_unpaid"`
	TotalUnpaidNoVAT float64         `json:"total_unpaid_no_vat"`
}
