package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a file-backed SQLite database in a per-test temp dir.
// The users table is created by hand because its Postgres UUID default
// does not migrate to SQLite.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL DEFAULT '',
		full_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		is_active NUMERIC NOT NULL DEFAULT true,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`).Error)

	require.NoError(t, db.AutoMigrate(
		&models.Review{},
		&models.BrandGuidelines{},
		&models.IntegrationConfig{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, email, password, role, is_active, created_at, updated_at) VALUES (?, ?, 'x', ?, true, ?, ?)`,
		id.String(), email, role, time.Now(), time.Now(),
	).Error)
	return id
}

func strPtr(s string) *string { return &s }
