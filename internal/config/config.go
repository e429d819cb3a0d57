// Package config loads the application configuration from the
// environment, with defaults resolved under the XDG base directories.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Export sink kinds.
const (
	SinkXLSX   = "xlsx"
	SinkCSV    = "csv"
	SinkSheets = "sheets"
)

const appDir = "cashmentor"

type Config struct {
	// HTTP server
	Port string

	// Persisted state store
	SQLiteDBPath string

	// Export
	ExportSink string
	ExportDir  string

	// Google Sheets sink
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
}

// Load reads the configuration from the environment, filling defaults.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", filepath.Join(xdg.DataHome, appDir, "cashmentor.db")),

		ExportSink: getEnv("EXPORT_SINK", SinkXLSX),
		ExportDir:  getEnv("EXPORT_DIR", defaultExportDir()),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
	}
}

func defaultExportDir() string {
	if xdg.UserDirs.Documents != "" {
		return filepath.Join(xdg.UserDirs.Documents, appDir)
	}
	return "."
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.SQLiteDBPath, validation.Required),
		validation.Field(&c.ExportSink, validation.Required,
			validation.In(SinkXLSX, SinkCSV, SinkSheets)),
		validation.Field(&c.ExportDir,
			validation.Required.When(c.ExportSink != SinkSheets)),
	)
	if err != nil {
		return err
	}
	if c.ExportSink == SinkSheets {
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("export sink is %q but GOOGLE_SPREADSHEET_ID is empty", SinkSheets)
		}
		if c.GoogleCredentialsJSON == "" && c.GoogleCredentialsFile == "" {
			return fmt.Errorf("export sink is %q but no Google credentials are configured", SinkSheets)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
