package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"pdfvault/internal/config"
	"pdfvault/internal/database"
	"pdfvault/internal/domain/document"
	"pdfvault/internal/objectstore"
	"pdfvault/internal/pkg/logger"
	"pdfvault/internal/reconcile"
)

// reconcile runs one sweep and prints the report as JSON on stdout.
// Exit code is 2 when issues were found.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLogger := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, appLogger)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	store, err := objectstore.New(cfg, appLogger)
	if err != nil {
		log.Fatalf("object store init failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	svc := reconcile.NewService(store, document.NewRepository(db), cfg.Minio.BucketName, 0, appLogger)
	report, _, err := svc.RunOnce(ctx)
	if err != nil {
		log.Fatalf("reconciliation failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("write report: %v", err)
	}

	if len(report.Issues) > 0 {
		os.Exit(2)
	}
}
