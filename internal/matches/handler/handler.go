// Package handler exposes strict match runs over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"rentmatch_backend/internal/matches/service"
	"rentmatch_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles match HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates the matches handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the match routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.run)
	group.GET("/pairs/:leadId/:propertyId", h.scorePair)
}

func (h *Handler) run(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpkit.Error(c, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = parsed
	}

	results, summary, err := h.svc.Run(c.Request.Context(), tenantID, limit)
	if httpkit.HandleError(c, err) {
		return
	}

	payload := gin.H{"matches": results}
	if c.Query("debug") == "true" {
		payload["debug"] = summary
	}
	httpkit.OK(c, payload)
}

func (h *Handler) scorePair(c *gin.Context) {
	tenantID, ok := httpkit.MustGetTenantID(c)
	if !ok {
		return
	}
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}
	propertyID, err := uuid.Parse(c.Param("propertyId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid property id", nil)
		return
	}

	result, err := h.svc.ScorePair(c.Request.Context(), tenantID, leadID, propertyID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
