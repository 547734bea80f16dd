package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"phonebills/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "INVOICE_NOT_FOUND", "invoice not found"
	case errors.Is(err, domain.ErrServiceNotFound):
		return http.StatusNotFound, "SERVICE_NOT_FOUND", "service not found"
	case errors.Is(err, domain.ErrGroupNotFound):
		return http.StatusNotFound, "GROUP_NOT_FOUND", "group not found"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "PAYMENT_NOT_FOUND", "payment not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrDuplicatePeriod):
		return http.StatusConflict, "DUPLICATE_PERIOD", "an invoice for this period already exists"
	case errors.Is(err, domain.ErrDuplicateGroupName):
		return http.StatusConflict, "DUPLICATE_GROUP_NAME", "a group with this name already exists"
	case errors.Is(err, domain.ErrNoPeriodDetected):
		return http.StatusBadRequest, "NO_PERIOD_DETECTED", "could not detect a billing period; supply one explicitly"
	case errors.Is(err, domain.ErrNoGroupsAssigned):
		return http.StatusBadRequest, "NO_GROUPS_ASSIGNED", "no invoice items are assigned to a group"
	case errors.Is(err, domain.ErrNothingToExport):
		return http.StatusNotFound, "NOTHING_TO_EXPORT", "no unpaid payments for this period"
	case errors.Is(err, domain.ErrImportDirMissing):
		return http.StatusBadRequest, "IMPORT_DIR_MISSING", "import directory is not configured or does not exist"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Msg("internal error")
	}
	RespondError(c, status, code, msg)
}
