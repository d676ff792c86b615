package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	ServerPort       string
	CORSOrigins      string
	RequestBodyLimit int

	RedisURL string

	B2KeyID  string
	B2AppKey string
	B2Bucket string

	LogFormat string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "prashiskshan"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		JWTTTL:            getDuration("JWT_TTL", 7*24*time.Hour),
		BcryptCost:        getInt("BCRYPT_COST", 12),
		ServerPort:        getEnv("SERVER_PORT", "5000"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		RequestBodyLimit:  getInt("REQUEST_BODY_LIMIT", 10<<20),
		RedisURL:          getEnv("REDIS_URL", ""),
		B2KeyID:           getEnv("B2_KEY_ID", ""),
		B2AppKey:          getEnv("B2_APP_KEY", ""),
		B2Bucket:          getEnv("B2_BUCKET", ""),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	if cfg.JWTSecret == "secret" {
		log.Println("JWT_SECRET is not set, using the insecure default")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", cfg.BcryptCost)
	}

	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// StorageEnabled reports whether the B2 credentials are complete.
func (c *Config) StorageEnabled() bool {
	return c.B2KeyID != "" && c.B2AppKey != "" && c.B2Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
		log.Printf("Invalid integer for %s: %q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
		log.Printf("Invalid duration for %s: %q, using %s", key, value, defaultValue)
	}
	return defaultValue
}
