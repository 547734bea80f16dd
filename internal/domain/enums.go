package domain

import "strings"

// ServiceType classifies a billable line by the shape of its vendor identifier.
type ServiceType string

const (
	ServiceTypePhone   ServiceType = "phone"
	ServiceTypeDSL     ServiceType = "dsl"
	ServiceTypeTV      ServiceType = "tv"
	ServiceTypeLicense ServiceType = "license"
)

// DetectServiceType classifies an identifier by its prefix. Plain 9-digit
// numbers are phone lines; everything unrecognized defaults to phone as well.
func DetectServiceType(identifier string) ServiceType {
	switch {
	case strings.HasPrefix(identifier, "DSL"):
		return ServiceTypeDSL
	case strings.HasPrefix(identifier, "TV"):
		return ServiceTypeTV
	case strings.HasPrefix(identifier, "LIC"):
		return ServiceTypeLicense
	default:
		return ServiceTypePhone
	}
}

// ImportStatus is the per-file outcome of a batch import.
type ImportStatus string

const (
	ImportStatusImported ImportStatus = "imported"
	ImportStatusSkipped  ImportStatus = "skipped"
	ImportStatusError    ImportStatus = "error"
)
