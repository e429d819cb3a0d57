// Package cli provides common process-initialization helpers shared by
// the cashmentor subcommands: env loading, logging, config, store and
// engine construction, and export-sink selection.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"cashmentor/internal/config"
	"cashmentor/internal/engine"
	"cashmentor/internal/export"
	"cashmentor/internal/export/csvfile"
	"cashmentor/internal/export/gsheet"
	"cashmentor/internal/export/xlsx"
	applog "cashmentor/internal/log"
	"cashmentor/internal/registry"
	"cashmentor/internal/store"
)

// SetupLogger initializes structured logging and installs it as the
// process default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.Config{Component: applog.ComponentApp})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads an optional .env file for local development.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig loads and validates the configuration.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// OpenEngine opens the store and loads a ready-to-use engine for this
// session. The caller closes the returned store.
func OpenEngine(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*engine.Engine, *store.Store, error) {
	st, err := store.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	eng := engine.New(st, registry.List(),
		engine.WithLogger(logger.WithComponent(applog.ComponentEngine)))
	if err := eng.Load(ctx); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("load engine: %w", err)
	}
	return eng, st, nil
}

// NewExportSink selects the export sink from the configuration.
func NewExportSink(ctx context.Context, cfg *config.Config) (export.Sink, error) {
	switch cfg.ExportSink {
	case config.SinkXLSX:
		return xlsx.New(cfg.ExportDir), nil
	case config.SinkCSV:
		return csvfile.New(cfg.ExportDir), nil
	case config.SinkSheets:
		sink, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("init sheets sink: %w", err)
		}
		return sink, nil
	default:
		return nil, fmt.Errorf("unsupported export sink: %s", cfg.ExportSink)
	}
}
