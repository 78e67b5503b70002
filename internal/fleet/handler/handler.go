// Package handler provides HTTP handlers for fleet roster lookups.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"depot_dispatch_backend/internal/fleet/service"
	"depot_dispatch_backend/internal/fleet/transport"
	"depot_dispatch_backend/platform/httpkit"
	"depot_dispatch_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for fleet lookups.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new fleet handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListConvoys returns all convoys.
// GET /api/v1/fleet/convoys
func (h *Handler) ListConvoys(c *gin.Context) {
	if identity := httpkit.MustGetIdentity(c); identity == nil {
		return
	}
	result, err := h.svc.ListConvoys(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListVehicles returns the vehicle roster.
// GET /api/v1/fleet/vehicles?convoyId=...&activeOnly=true
func (h *Handler) ListVehicles(c *gin.Context) {
	var req transport.ListVehiclesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if identity := httpkit.MustGetIdentity(c); identity == nil {
		return
	}

	result, err := h.svc.ListVehicles(c.Request.Context(), parseOptionalUUID(req.ConvoyID), req.ActiveOnly)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListDrivers returns the driver roster.
// GET /api/v1/fleet/drivers?convoyId=...&activeOnly=true
func (h *Handler) ListDrivers(c *gin.Context) {
	var req transport.ListDriversRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if identity := httpkit.MustGetIdentity(c); identity == nil {
		return
	}

	result, err := h.svc.ListDrivers(c.Request.Context(), parseOptionalUUID(req.ConvoyID), req.ActiveOnly)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// parseOptionalUUID returns nil for empty or malformed input; the validator
// has already rejected malformed non-empty values.
func parseOptionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &parsed
}
