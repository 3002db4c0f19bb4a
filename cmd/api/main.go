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

	"github.com/Wikid82/phishwatch/internal/config"
	"github.com/Wikid82/phishwatch/internal/database"
	"github.com/Wikid82/phishwatch/internal/logger"
	"github.com/Wikid82/phishwatch/internal/server"
	"github.com/Wikid82/phishwatch/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Setup logging with rotation
	out := io.Writer(os.Stdout)
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Printf("WARNING: log dir %s unavailable, logging to stdout only: %v", cfg.LogDir, err)
	} else {
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "phishwatch.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		defer rotator.Close()
		out = io.MultiWriter(os.Stdout, rotator)
	}
	log.SetOutput(out)
	logger.Init(cfg.Debug, out)

	logger.Log().WithField("version", version.Full()).Infof("starting %s backend", version.Name)

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		logger.Log().WithError(err).Fatal("connect database")
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		logger.Log().WithError(err).Fatal("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Error("server error")
		stop()
		os.Exit(1)
	}
	logger.Log().Info("server stopped")
}
