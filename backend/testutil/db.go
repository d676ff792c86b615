package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"prashiskshan/backend/config"
	"prashiskshan/backend/models"
	"prashiskshan/backend/utils"
)

// NewDB opens a migrated in-memory database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), utils.GormConfig(nil))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared-cache database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// Config returns settings suitable for tests: fast bcrypt and a fixed secret.
func Config() *config.Config {
	return &config.Config{
		JWTSecret:        "testsecret",
		JWTTTL:           time.Hour,
		BcryptCost:       4,
		ServerPort:       "0",
		CORSOrigins:      "*",
		RequestBodyLimit: 10 << 20,
		LogFormat:        "text",
	}
}
