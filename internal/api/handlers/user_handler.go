package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wikid82/phishwatch/internal/services"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"users":       list.Users,
		"total_users": list.TotalUsers,
		"admin_count": list.AdminCount,
	})
}
