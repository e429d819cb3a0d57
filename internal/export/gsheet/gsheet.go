// Package gsheet appends the export rows to a Google Sheets spreadsheet.
// Authentication uses a service account, passed either as inline JSON or
// as a credentials file path.
package gsheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"cashmentor/internal/export"
)

// Config holds the spreadsheet target and credentials.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Sink appends row sets to one spreadsheet sheet.
type Sink struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
}

var _ export.Sink = (*Sink)(nil)

// New creates a Sheets sink from the given config.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = export.SheetName
	}

	credentials, err := resolveCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := sheetsapi.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Sink{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func resolveCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

func (s *Sink) Ext() string { return "" }

// Write appends header plus rows in a single batched call, so a failed
// append commits nothing. The remote sheet keeps its own name; the local
// artifact name is ignored.
func (s *Sink) Write(ctx context.Context, _ string, rows []export.Row) (string, error) {
	values := make([][]any, 0, len(rows)+1)
	header := make([]any, len(export.Header))
	for i, h := range export.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range rows {
		values = append(values, r.Values())
	}

	vr := &sheetsapi.ValueRange{Values: values}
	resp, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.sheetName+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", s.sheetName, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return s.sheetName, nil
}
