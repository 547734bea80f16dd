package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrServiceNotFound    = errors.New("service not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrDuplicatePeriod    = errors.New("invoice for this period already exists")
	ErrDuplicateGroupName = errors.New("group with this name already exists")
	ErrNoPeriodDetected   = errors.New("billing period could not be detected")
	ErrNoGroupsAssigned   = errors.New("no services are assigned to any group")
	ErrNothingToExport    = errors.New("no unpaid payments to export")
	ErrImportDirMissing   = errors.New("import directory does not exist")
)
