// Package config provides configuration management for the ledger.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Ledger    LedgerConfig
	Beancount BeancountConfig
	Debug     bool
}

// LedgerConfig represents the record store configuration.
type LedgerConfig struct {
	DataDir        string
	File           string
	DBPath         string
	ExportDir      string
	CategoriesFile string
	Currency       string
	Timezone       string
}

// BeancountConfig represents Beancount export configuration.
type BeancountConfig struct {
	Root         string
	AssetAccount string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	dataDir := getEnvOrDefault("KAKEIBO_DATA_DIR", "./data")

	config := &Config{
		Ledger: LedgerConfig{
			DataDir:        dataDir,
			File:           getEnvOrDefault("KAKEIBO_FILE", "account_records.xlsx"),
			DBPath:         os.Getenv("KAKEIBO_DB_PATH"),
			ExportDir:      os.Getenv("KAKEIBO_EXPORT_DIR"),
			CategoriesFile: os.Getenv("KAKEIBO_CATEGORIES"),
			Currency:       strings.ToUpper(getEnvOrDefault("KAKEIBO_CURRENCY", "CNY")),
			Timezone:       os.Getenv("KAKEIBO_TIMEZONE"),
		},
		Beancount: BeancountConfig{
			Root:         getEnvOrDefault("KAKEIBO_BEANCOUNT_ROOT", filepath.Join(dataDir, "beancount")),
			AssetAccount: getEnvOrDefault("KAKEIBO_BEANCOUNT_ASSET", "Assets:Cash"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	if _, err := config.Location(); err != nil {
		return nil, err
	}

	return config, nil
}

// Location returns the configured time zone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Ledger.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid KAKEIBO_TIMEZONE %q: %w", c.Ledger.Timezone, err)
	}
	return loc, nil
}

// Validate validates the configuration.
// It checks if all required fields are set.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "ledger":
			switch path[1] {
			case "dataDir":
				value = c.Ledger.DataDir
			case "file":
				value = c.Ledger.File
			case "dbPath":
				value = c.Ledger.DBPath
			case "exportDir":
				value = c.Ledger.ExportDir
			case "categoriesFile":
				value = c.Ledger.CategoriesFile
			case "currency":
				value = c.Ledger.Currency
			}
		case "beancount":
			switch path[1] {
			case "root":
				value = c.Beancount.Root
			case "assetAccount":
				value = c.Beancount.AssetAccount
			}
		}

		if value == "" {
			missing = append(missing, strings.Join(path, "."))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
