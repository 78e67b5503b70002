// Package handler provides HTTP handlers for the dispatch statement workflow.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"depot_dispatch_backend/internal/dispatch/service"
	"depot_dispatch_backend/internal/dispatch/transport"
	"depot_dispatch_backend/platform/httpkit"
	"depot_dispatch_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidSlotID    = "invalid slot id"
)

// Handler handles HTTP requests for dispatch statements.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new dispatch handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetStatement builds the dispatch statement for one day and convoy.
// GET /api/v1/dispatch/statements?date=2026-03-14&convoyId=...&status=...
func (h *Handler) GetStatement(c *gin.Context) {
	var req transport.StatementQuery
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

	serviceDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "date must be YYYY-MM-DD")
		return
	}
	convoyID, err := uuid.Parse(req.ConvoyID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "invalid convoy id")
		return
	}

	result, err := h.svc.BuildStatement(c.Request.Context(), serviceDate, convoyID, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ExecuteAction runs one workflow action against a statement row.
// POST /api/v1/dispatch/slots/:slotId/actions
func (h *Handler) ExecuteAction(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("slotId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSlotID, nil)
		return
	}

	var req transport.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	result, err := h.svc.ExecuteAction(c.Request.Context(), slotID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetJournal returns the merged action/replacement journal for a slot.
// GET /api/v1/dispatch/slots/:slotId/journal
func (h *Handler) GetJournal(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("slotId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSlotID, nil)
		return
	}
	if identity := httpkit.MustGetIdentity(c); identity == nil {
		return
	}

	result, err := h.svc.Journal(c.Request.Context(), slotID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// EditReportedCount records an in-progress reported-count edit. The value is
// persisted after the debounce window, so the response is 202 Accepted.
// PUT /api/v1/dispatch/slots/:slotId/reported-count
func (h *Handler) EditReportedCount(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("slotId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidSlotID, nil)
		return
	}

	var req transport.CountEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	if err := h.svc.EditCount(slotID, req.Value); httpkit.HandleError(c, err) {
		return
	}
	httpkit.Accepted(c, transport.CountEditResponse{
		SlotID:       slotID,
		PendingValue: req.Value,
		State:        "scheduled",
	})
}

// ListReasons returns the reason-code catalog grouped by action.
// GET /api/v1/dispatch/reasons
func (h *Handler) ListReasons(c *gin.Context) {
	if identity := httpkit.MustGetIdentity(c); identity == nil {
		return
	}
	httpkit.OK(c, h.svc.Reasons())
}
