package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/api/handlers"
	"github.com/Pranay9392/meity-audit-v2/internal/api/middleware"
	"github.com/Pranay9392/meity-audit-v2/internal/config"
	"github.com/Pranay9392/meity-audit-v2/internal/metrics"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
	"github.com/Pranay9392/meity-audit-v2/internal/services"
	"github.com/Pranay9392/meity-audit-v2/internal/storage"
)

// Register migrates the schema, wires services to handlers and mounts the
// versioned API.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.AuditRequest{},
		&models.Document{},
		&models.Remark{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	blobs, err := storage.NewFilesystemStore(cfg.MediaDir)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics.Register(registry)

	notifier := services.NewNotificationService(cfg.NotifyURLs)
	authService := services.NewAuthService(db, cfg)
	requestService := services.NewAuditRequestService(db, blobs, notifier)
	documentService := services.NewDocumentService(db, blobs)
	remarkService := services.NewRemarkService(db)

	authHandler := handlers.NewAuthHandler(authService)
	requestHandler := handlers.NewAuditRequestHandler(requestService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	remarkHandler := handlers.NewRemarkHandler(remarkService)

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", middleware.Auth(authService), authHandler.Me)
	}

	protected := v1.Group("")
	protected.Use(middleware.Auth(authService))
	{
		protected.GET("/audit-requests", requestHandler.List)
		protected.POST("/audit-requests", requestHandler.Create)
		protected.GET("/audit-requests/:uuid", requestHandler.Get)
		protected.PATCH("/audit-requests/:uuid", requestHandler.UpdateDetails)
		protected.PATCH("/audit-requests/:uuid/status", requestHandler.UpdateStatus)
		protected.POST("/audit-requests/:uuid/certificate", requestHandler.UploadCertificate)
		protected.GET("/audit-requests/:uuid/certificate", requestHandler.DownloadCertificate)
		protected.POST("/audit-requests/:uuid/documents", documentHandler.Upload)
		protected.POST("/audit-requests/:uuid/remarks", remarkHandler.Add)
		protected.GET("/documents/:uuid/download", documentHandler.Download)
		protected.DELETE("/documents/:uuid", documentHandler.Delete)
	}

	return nil
}
