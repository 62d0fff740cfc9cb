package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Pranay9392/meity-audit-v2/internal/config"
	"github.com/Pranay9392/meity-audit-v2/internal/database"
	"github.com/Pranay9392/meity-audit-v2/internal/logger"
	"github.com/Pranay9392/meity-audit-v2/internal/server"
	"github.com/Pranay9392/meity-audit-v2/internal/services"
	"github.com/Pranay9392/meity-audit-v2/internal/version"
)

func main() {
	// Setup logging with rotation
	logDir := filepath.Join("data", "logs")
	_ = os.MkdirAll(logDir, 0755)

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "audit.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Log to both stdout and file
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))
	logger.Log().Infof("starting %s version %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	notifier := services.NewNotificationService(cfg.NotifyURLs)
	sweeper := services.NewStaleRequestService(db, notifier, cfg.StaleAfter)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("start stale request sweep: %v", err)
	}
	defer sweeper.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
