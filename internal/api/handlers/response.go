package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Wikid82/phishwatch/internal/api/middleware"
	"github.com/Wikid82/phishwatch/internal/services"
)

// fail writes the structured failure body used by every endpoint.
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respondServiceError maps validation failures to 400 and everything else to
// a logged 500 with a generic message.
func respondServiceError(c *gin.Context, err error, internalMsg string) {
	if services.IsValidationError(err) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	middleware.GetRequestLogger(c).WithError(err).Error(internalMsg)
	fail(c, http.StatusInternalServerError, internalMsg)
}

// requireIdentity returns the authenticated caller or answers 401.
func requireIdentity(c *gin.Context) (middleware.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required")
	}
	return id, ok
}

// notificationIDParam validates the :id path parameter or answers 400.
func notificationIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		fail(c, http.StatusBadRequest, "ID is required")
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, "Invalid ID")
		return "", false
	}
	return id, true
}
