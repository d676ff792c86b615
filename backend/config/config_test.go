package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigRejectsBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "2")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "BCRYPT_COST")
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5433", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", cfg.DSN())

	cfg.DatabaseURL = "postgres://u:p@db/n"
	assert.Equal(t, "postgres://u:p@db/n", cfg.DSN())
}

func TestStorageEnabled(t *testing.T) {
	cfg := &Config{B2KeyID: "id", B2AppKey: "key"}
	assert.False(t, cfg.StorageEnabled())
	cfg.B2Bucket = "uploads"
	assert.True(t, cfg.StorageEnabled())
}
