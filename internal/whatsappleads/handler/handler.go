// Package handler exposes the whatsapp leads module over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"rentmatch_backend/internal/whatsappleads/service"
	"rentmatch_backend/internal/whatsappleads/transport"
	"rentmatch_backend/platform/httpkit"
	"rentmatch_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultMatchLimit = 10

// Handler handles whatsapp lead HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates the whatsapp leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the whatsapp lead routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/leads", h.intake)
	group.GET("/leads", h.list)
	group.GET("/leads/:id", h.get)
	group.POST("/leads/:id/link", h.linkLead)
	group.GET("/leads/:id/matches", h.findMatches)
	group.GET("/leads/:id/matches/saved", h.savedMatches)
}

func (h *Handler) intake(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	var req transport.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	created, err := h.svc.Intake(c.Request.Context(), req.ToModel(tenantID))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromModel(created))
}

func (h *Handler) list(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	leads, err := h.svc.List(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"whatsappLeads": transport.FromModels(leads)})
}

func (h *Handler) get(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid whatsapp lead id", nil)
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromModel(lead))
}

func (h *Handler) linkLead(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid whatsapp lead id", nil)
		return
	}

	var req transport.LinkLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	lead, err := h.svc.LinkLead(c.Request.Context(), tenantID, id, req.LeadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromModel(lead))
}

func (h *Handler) findMatches(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid whatsapp lead id", nil)
		return
	}

	limit := defaultMatchLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpkit.Error(c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = parsed
	}

	results, err := h.svc.FindMatches(c.Request.Context(), tenantID, id, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"matches": results})
}

func (h *Handler) savedMatches(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid whatsapp lead id", nil)
		return
	}

	saved, err := h.svc.SavedMatches(c.Request.Context(), tenantID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"matches": saved})
}
