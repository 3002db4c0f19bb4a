package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wikid82/phishwatch/internal/config"
	"github.com/Wikid82/phishwatch/internal/database"
)

func newTestServer(t *testing.T, frontendDir string) *Server {
	t.Helper()
	db := database.OpenTestDB(t)
	srv, err := New(db, config.Config{
		Environment: "test",
		HTTPPort:    "0",
		JWTSecret:   "server-test-secret",
		FrontendDir: frontendDir,
	})
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)
	return srv
}

func TestNew_ServesFrontend(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	srv := newTestServer(t, tempDir)

	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<html></html>")

	w = httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_UnknownAPIRouteIsJSON404(t *testing.T) {
	srv := newTestServer(t, "")

	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"route not found"}`, w.Body.String())
}

func TestNew_AppliesMiddleware(t *testing.T) {
	srv := newTestServer(t, "")

	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := newTestServer(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
