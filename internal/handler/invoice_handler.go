package handler

import (
	"io"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"phonebills/internal/service"
)

// periodFormat validates explicit billing periods supplied by clients.
var periodFormat = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// maxUploadBytes caps uploaded invoice documents at 25 MB.
const maxUploadBytes = 25 << 20

// InvoiceHandler handles invoice ingestion and read endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	ingestService  service.IngestService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, ingestService service.IngestService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, ingestService: ingestService}
}

// Upload handles POST /api/v1/invoices/upload
func (h *InvoiceHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	period := c.PostForm("period")
	if period != "" && !periodFormat.MatchString(period) {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "period must be YYYY-MM")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "READ_FAILED", "could not read uploaded file")
		return
	}
	if len(data) > maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
		return
	}

	result, err := h.ingestService.IngestUpload(c.Request.Context(), header.Filename, data, period)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// Import handles POST /api/v1/invoices/import
func (h *InvoiceHandler) Import(c *gin.Context) {
	report, err := h.ingestService.IngestBatch(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoiceService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, invoices)
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// GetFile handles GET /api/v1/invoices/:id/file
func (h *InvoiceHandler) GetFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rc, name, err := h.invoiceService.OpenFile(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// Delete handles DELETE /api/v1/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// parseID parses the :id path parameter. Returns false if invalid
// (error response already written).
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
