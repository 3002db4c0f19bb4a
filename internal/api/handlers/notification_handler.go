package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/phishwatch/internal/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListUnread handles GET /api/v1/user/notifications
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	notifications, err := h.service.ListUnread(c.Request.Context(), id.UserID)
	if err != nil {
		respondServiceError(c, err, "Error fetching unread notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

// MarkAsRead handles PATCH /api/v1/user/notifications/:id/read. Unknown ids and
// repeated acknowledgements get the same 404 so read state is not leaked.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}
	notificationID, ok := notificationIDParam(c)
	if !ok {
		return
	}

	err := h.service.MarkRead(c.Request.Context(), notificationID, id.UserID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read"})
	case errors.Is(err, services.ErrNotificationNotFound), errors.Is(err, services.ErrAlreadyAcknowledged):
		fail(c, http.StatusNotFound, "Notification not found or already read")
	default:
		respondServiceError(c, err, "Error updating notification status")
	}
}

// Create handles POST /api/v1/admin/notifications
func (h *NotificationHandler) Create(c *gin.Context) {
	var in services.BroadcastInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	notification, err := h.service.Broadcast(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "Failed to add notification")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "New notification added",
		"notification": notification,
	})
}

// ListAll handles GET /api/v1/admin/notifications
func (h *NotificationHandler) ListAll(c *gin.Context) {
	notifications, err := h.service.ListWithReadCounts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

// Delete handles DELETE /api/v1/admin/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	notificationID, ok := notificationIDParam(c)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), notificationID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted successfully"})
	case errors.Is(err, services.ErrNotificationNotFound):
		fail(c, http.StatusNotFound, "Notification not found or already been deleted!")
	default:
		respondServiceError(c, err, "Failed to delete notification")
	}
}
