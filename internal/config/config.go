package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv        string
	Port           string
	JWTSecret      string
	EditSecretHash string
	Database       DatabaseConfig
	Sequence       SequenceConfig
	Printing       PrintingConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// SequenceConfig selects where document numbers come from. Mode "db" uses
// the durable counter table; "remote" asks the ERP over XML-RPC.
type SequenceConfig struct {
	Mode     string
	URL      string
	Database string
	Username string
	Password string
}

// PrintingConfig holds output rendering configuration
type PrintingConfig struct {
	OutputDir string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:        getEnv("NODE_ENV", "development"),
		Port:           getEnv("PORT", "3001"),
		JWTSecret:      jwtSecret,
		EditSecretHash: os.Getenv("AUTH_EDIT_SECRET_HASH"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "returnhub"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Sequence: SequenceConfig{
			Mode:     getEnv("SEQUENCE_MODE", "db"),
			URL:      os.Getenv("SEQUENCE_ERP_URL"),
			Database: os.Getenv("SEQUENCE_ERP_DB"),
			Username: os.Getenv("SEQUENCE_ERP_USERNAME"),
			Password: os.Getenv("SEQUENCE_ERP_PASSWORD"),
		},
		Printing: PrintingConfig{
			OutputDir: getEnv("PRINT_OUTPUT_DIR", "./printouts"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
