package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phonebills/internal/service"
)

// ServiceHandler handles service registry endpoints.
type ServiceHandler struct {
	registry service.RegistryService
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(registry service.RegistryService) *ServiceHandler {
	return &ServiceHandler{registry: registry}
}

// List handles GET /api/v1/services
func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.registry.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, services)
}

// Update handles PUT /api/v1/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateServiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	svc, err := h.registry.Update(c.Request.Context(), id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, svc)
}

// Reconcile handles POST /api/v1/services/reconcile
func (h *ServiceHandler) Reconcile(c *gin.Context) {
	var req service.ReconcileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "identifier is required")
		return
	}

	id, err := h.registry.Reconcile(c.Request.Context(), req.Identifier, req.Label)
	if err != nil {
		HandleError(c, err)
		return
	}

	svc, err := h.registry.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, svc)
}
