package db

import (
	"context"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open initializes the history database at path and brings its schema up to date.
func Open(path string, log *slog.Logger) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}
	log.Debug("Initializing database", "path", path)

	db, err := InitDatabase(DBConfig{
		Path:     path,
		LogLevel: GormLogLevel(log),
	})
	if err != nil {
		return nil, err
	}

	if err := AutoMigrateAll(db); err != nil {
		log.Error("Database operation failed",
			"layer", "db",
			"operation", "migrate",
			"error", err)
		return nil, err
	}

	return db, nil
}

// GormLogLevel maps the application log level to the corresponding GORM log level
func GormLogLevel(log *slog.Logger) logger.LogLevel {
	ctx := context.Background()

	switch {
	case log.Enabled(ctx, slog.LevelDebug):
		return logger.Info // Show SQL queries only when debug logging is enabled
	case log.Enabled(ctx, slog.LevelWarn):
		return logger.Warn
	case log.Enabled(ctx, slog.LevelError):
		return logger.Error
	default:
		return logger.Silent
	}
}
