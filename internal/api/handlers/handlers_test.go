package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Wikid82/phishwatch/internal/api/handlers"
	"github.com/Wikid82/phishwatch/internal/api/middleware"
	"github.com/Wikid82/phishwatch/internal/database"
	"github.com/Wikid82/phishwatch/internal/models"
	"github.com/Wikid82/phishwatch/internal/services"
)

const testSecret = "handlers-test-secret"

var (
	alice = middleware.Identity{UserID: "alice", Name: "Alice", Email: "alice@example.com"}
	bob   = middleware.Identity{UserID: "bob", Name: "Bob", Email: "bob@example.com"}
	admin = middleware.Identity{UserID: "root", Name: "Root", Email: "root@example.com", IsAdmin: true}
)

// setupRouter mounts every handler behind the auth middleware against a fresh database.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := database.OpenTestDB(t)

	checks := handlers.NewRiskCheckHandler(services.NewRiskCheckService(db))
	notifications := handlers.NewNotificationHandler(services.NewNotificationService(db))
	users := handlers.NewUserHandler(services.NewUserService(db))

	r := gin.New()
	api := r.Group("/api/v1", middleware.AuthMiddleware(testSecret))
	api.POST("/user/url-checks", checks.Create)
	api.GET("/user/url-checks", checks.List)
	api.GET("/user/notifications", notifications.ListUnread)
	api.PATCH("/user/notifications/:id/read", notifications.MarkAsRead)

	adminGroup := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adminGroup.GET("/url-checks", checks.ListAll)
	adminGroup.GET("/stats", checks.Stats)
	adminGroup.POST("/notifications", notifications.Create)
	adminGroup.GET("/notifications", notifications.ListAll)
	adminGroup.DELETE("/notifications/:id", notifications.Delete)
	adminGroup.GET("/users", users.List)
	return r, db
}

func tokenFor(t *testing.T, id middleware.Identity) string {
	t.Helper()
	token, err := middleware.GenerateToken(testSecret, id, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, r http.Handler, method, path string, id *middleware.Identity, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if id != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, *id))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func broadcast(t *testing.T, r http.Handler, title, content string, typ models.NotificationType) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/v1/admin/notifications", &admin, gin.H{
		"title": title, "content": content, "type": typ,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	n := decode(t, w)["notification"].(map[string]interface{})
	return n["id"].(string)
}
