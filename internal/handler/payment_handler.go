package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"phonebills/internal/export"
	"phonebills/internal/port"
	"phonebills/internal/service"
)

// PaymentHandler handles payment allocation, settlement and export endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
	account        export.BankAccount
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService, account export.BankAccount) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, account: account}
}

// Generate handles POST /api/v1/invoices/:id/payments
func (h *PaymentHandler) Generate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.Reallocate(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payments)
}

// List handles GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	filter, ok := parsePaymentFilter(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payments)
}

// Summary handles GET /api/v1/payments/summary
func (h *PaymentHandler) Summary(c *gin.Context) {
	period := c.Query("period")
	if period != "" && !periodFormat.MatchString(period) {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "period must be YYYY-MM")
		return
	}

	summary, err := h.paymentService.Summary(c.Request.Context(), period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// SetPaid handles PUT /api/v1/payments/:id
func (h *PaymentHandler) SetPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		IsPaid *bool `json:"is_paid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "is_paid is required")
		return
	}

	payment, err := h.paymentService.SetPaid(c.Request.Context(), id, *req.IsPaid)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payment)
}

// ExportPDF handles GET /api/v1/payments/export
func (h *PaymentHandler) ExportPDF(c *gin.Context) {
	data, ok := h.exportData(c)
	if !ok {
		return
	}

	doc, err := export.PDF(data, h.account)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// ExportCSV handles GET /api/v1/payments/export/csv
func (h *PaymentHandler) ExportCSV(c *gin.Context) {
	data, ok := h.exportData(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.CSV(&buf, data); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX handles GET /api/v1/payments/export/xlsx
func (h *PaymentHandler) ExportXLSX(c *gin.Context) {
	data, ok := h.exportData(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.XLSX(&buf, data); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// exportData validates the period and group_id queries and assembles the
// unpaid statement. Returns false when a response was already written.
func (h *PaymentHandler) exportData(c *gin.Context) (*service.PaymentExport, bool) {
	filter, ok := parsePaymentFilter(c)
	if !ok {
		return nil, false
	}

	data, err := h.paymentService.ExportUnpaid(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return data, true
}

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// exportFilename builds "vyuctovani-<period>[-<group>].<ext>".
func exportFilename(data *service.PaymentExport, ext string) string {
	name := "vyuctovani-" + data.Period
	if data.GroupName != "" {
		name += "-" + filenameUnsafe.ReplaceAllString(data.GroupName, "-")
	}
	return name + "." + ext
}

// parsePaymentFilter reads the period and group_id query parameters.
// Returns false if invalid (error response already written).
func parsePaymentFilter(c *gin.Context) (port.PaymentFilter, bool) {
	var filter port.PaymentFilter

	filter.Period = c.Query("period")
	if filter.Period != "" && !periodFormat.MatchString(filter.Period) {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "period must be YYYY-MM")
		return filter, false
	}

	if groupIDStr := c.Query("group_id"); groupIDStr != "" {
		groupID, err := strconv.ParseInt(groupIDStr, 10, 64)
		if err != nil || groupID <= 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "group_id must be a positive integer")
			return filter, false
		}
		filter.GroupID = &groupID
	}
	return filter, true
}
