package db

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		name           string
		logLevel       slog.Level
		expectedResult logger.LogLevel
	}{
		{
			name:           "debug level returns info",
			logLevel:       slog.LevelDebug,
			expectedResult: logger.Info,
		},
		{
			name:           "info level returns warn",
			logLevel:       slog.LevelInfo,
			expectedResult: logger.Warn,
		},
		{
			name:           "warn level returns warn",
			logLevel:       slog.LevelWarn,
			expectedResult: logger.Warn,
		},
		{
			name:           "error level returns error",
			logLevel:       slog.LevelError,
			expectedResult: logger.Error,
		},
		{
			name:           "above error returns silent",
			logLevel:       slog.LevelError + 4,
			expectedResult: logger.Silent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: tt.logLevel}))
			assert.Equal(t, tt.expectedResult, GormLogLevel(log))
		})
	}
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "pushr.db")

	db, err := Open(dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NotNil(t, db)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&DeploymentModel{}))
	assert.True(t, db.Migrator().HasTable(&MigrationModel{}))
	assert.True(t, db.Migrator().HasColumn(&DeploymentModel{}, "slug"))

	var journalMode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&journalMode).Error)
	assert.Equal(t, "wal", journalMode)
}

func TestInitDatabase_InMemory(t *testing.T) {
	db, err := InitDatabase(DBConfig{Path: MemoryPath, LogLevel: logger.Silent})
	require.NoError(t, err)

	require.NoError(t, db.Exec("CREATE TABLE test_table (id INTEGER PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("INSERT INTO test_table (id) VALUES (1)").Error)

	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM test_table").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}
