package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"blogsphere/cmd/app"
	"blogsphere/internal/config"
	handlers "blogsphere/internal/handler"
	"blogsphere/internal/logger"
	"blogsphere/internal/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// setting up config
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to start application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			zlog.Error("failed to release resources", zap.Error(err))
		}
	}()

	handler := handlers.NewHandlers(application.Services, application.DB, cfg, zlog)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router.New(handler, cfg, zlog),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("database", cfg.DB.DbNAME),
			zap.String("upload_driver", cfg.Upload.Driver),
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
