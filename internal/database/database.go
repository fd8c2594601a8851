package database

import (
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"pdfvault/internal/domain/document"
)

// Connect opens PostgreSQL for postgres:// DSNs and pure-Go SQLite otherwise.
func Connect(dsn string, log *slog.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using sqlite", slog.String("dsn", dsn))

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&document.Document{})
}
