package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/phishwatch/internal/services"
)

type RiskCheckHandler struct {
	service *services.RiskCheckService
}

func NewRiskCheckHandler(service *services.RiskCheckService) *RiskCheckHandler {
	return &RiskCheckHandler{service: service}
}

// recordCheckRequest accepts an optional user_id, which must name the caller.
type recordCheckRequest struct {
	services.RecordCheckInput
	UserID string `json:"user_id"`
}

// Create handles POST /api/v1/user/url-checks
func (h *RiskCheckHandler) Create(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req recordCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID != "" && req.UserID != id.UserID {
		fail(c, http.StatusBadRequest, "user_id does not match the authenticated user")
		return
	}

	check, err := h.service.Record(c.Request.Context(), req.RecordCheckInput, services.Requester{
		ID:    id.UserID,
		Name:  id.Name,
		Email: id.Email,
		Role:  id.Role(),
	})
	if err != nil {
		respondServiceError(c, err, "Failed to store URL check result")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "URL check result stored successfully",
		"url_check": check,
	})
}

// List handles GET /api/v1/user/url-checks
func (h *RiskCheckHandler) List(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	checks, err := h.service.ListForUser(c.Request.Context(), id.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve URL check results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url_checks": checks})
}

// ListAll handles GET /api/v1/admin/url-checks
func (h *RiskCheckHandler) ListAll(c *gin.Context) {
	all, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve URL checks")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"url_checks":    all.Checks,
		"threat_checks": all.ThreatChecks,
		"total_scans":   all.TotalScans,
	})
}

// Stats handles GET /api/v1/admin/stats
func (h *RiskCheckHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute scan statistics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
