package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by the store factory.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultJWTSecret signs tokens when JWT_SECRET is unset outside production.
const DefaultJWTSecret = "fallback-secret-key-for-dev-only"

// ErrMissingJWTSecret is returned by Load in production without JWT_SECRET.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Storage
	StorageDriver string
	DataDir       string
	LedgerFile    string
	UsersFile     string
	SQLitePath    string

	// Database (postgres driver only)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		StorageDriver: getEnv("STORAGE_DRIVER", DriverCSV),
		DataDir:       getEnv("DATA_DIR", "data"),
		LedgerFile:    getEnv("LEDGER_FILE", "ledger.csv"),
		UsersFile:     getEnv("USERS_FILE", "users.csv"),
		SQLitePath:    getEnv("SQLITE_PATH", "mykhata.db"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "mykhata"),
		DBPassword: getEnv("DB_PASSWORD", "mykhata"),
		DBName:     getEnv("DB_NAME", "mykhata"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	if config.JWTSecret == "" {
		if config.Env == "production" {
			return nil, ErrMissingJWTSecret
		}
		log.Println("Warning: JWT_SECRET not set, using the insecure development secret")
		config.JWTSecret = DefaultJWTSecret
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil || expDur <= 0 {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	switch config.StorageDriver {
	case DriverCSV, DriverSQLite, DriverPostgres:
	default:
		log.Printf("Warning: unknown STORAGE_DRIVER '%s', falling back to %s\n", config.StorageDriver, DriverCSV)
		config.StorageDriver = DriverCSV
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// LedgerPath is the location of the ledger flat file.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, c.LedgerFile)
}

// UsersPath is the location of the credential flat file.
func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
