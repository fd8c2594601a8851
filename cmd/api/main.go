package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pdfvault/internal/config"
	"pdfvault/internal/database"
	"pdfvault/internal/domain/document"
	"pdfvault/internal/objectstore"
	jwtsvc "pdfvault/internal/pkg/jwt"
	"pdfvault/internal/pkg/logger"
	"pdfvault/internal/reconcile"
	"pdfvault/internal/scratch"
	"pdfvault/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLogger := logger.New(cfg.LogLevel)
	slog.SetDefault(appLogger)

	db, err := database.Connect(cfg.DatabaseURL, appLogger)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	store, err := objectstore.New(cfg, appLogger)
	if err != nil {
		log.Fatalf("object store init failed: %v", err)
	}

	// the scratch dir must exist before any request is served
	area, err := scratch.New(cfg.Storage.Location)
	if err != nil {
		log.Fatalf("could not initialize storage location: %v", err)
	}

	documentRepo := document.NewRepository(db)
	documentService := document.NewService(cfg, documentRepo, store, area, appLogger)
	documentHandler := document.NewHandler(documentService)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := server.NewRouter(appLogger, cfg.CORSAllowedOrigins, j, documentHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := reconcile.NewService(store, documentRepo, cfg.Minio.BucketName, cfg.ReconcileInterval, appLogger)
	reconciler.Start(ctx)
	defer reconciler.Stop()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("http server started", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			appLogger.Error("http server failed", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	appLogger.Info("http server stopped")
}
