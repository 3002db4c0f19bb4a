package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Wikid82/phishwatch/internal/api/handlers"
	"github.com/Wikid82/phishwatch/internal/api/middleware"
	"github.com/Wikid82/phishwatch/internal/config"
	"github.com/Wikid82/phishwatch/internal/database"
	"github.com/Wikid82/phishwatch/internal/metrics"
	"github.com/Wikid82/phishwatch/internal/models"
	"github.com/Wikid82/phishwatch/internal/services"
)

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/api/v1/health", healthHandler.Check)

	riskCheckHandler := handlers.NewRiskCheckHandler(services.NewRiskCheckService(db))
	notificationHandler := handlers.NewNotificationHandler(services.NewNotificationService(db))
	userHandler := handlers.NewUserHandler(services.NewUserService(db))

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	user := api.Group("/user")
	{
		user.POST("/url-checks", riskCheckHandler.Create)
		user.GET("/url-checks", riskCheckHandler.List)
		user.GET("/notifications", notificationHandler.ListUnread)
		user.PATCH("/notifications/:id/read", notificationHandler.MarkAsRead)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/url-checks", riskCheckHandler.ListAll)
		admin.GET("/stats", riskCheckHandler.Stats)
		admin.POST("/notifications", notificationHandler.Create)
		admin.GET("/notifications", notificationHandler.ListAll)
		admin.DELETE("/notifications/:id", notificationHandler.Delete)
		admin.GET("/users", userHandler.List)
	}

	return nil
}
