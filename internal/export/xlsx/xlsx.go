// Package xlsx writes the export rows into a single-sheet workbook. The
// workbook is assembled in memory and saved to a temporary file that is
// renamed into place, so a failed write leaves no partial artifact.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cashmentor/internal/export"
)

// Sink writes workbooks into a target directory.
type Sink struct {
	dir string
}

var _ export.Sink = (*Sink)(nil)

// New creates a workbook sink writing into dir.
func New(dir string) *Sink {
	return &Sink{dir: dir}
}

func (s *Sink) Ext() string { return "xlsx" }

// Write builds the workbook and commits it as <dir>/<name>.
func (s *Sink) Write(ctx context.Context, name string, rows []export.Row) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), export.SheetName); err != nil {
		return "", fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(export.Header))
	for i, h := range export.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(export.SheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}
		values := r.Values()
		if err := f.SetSheetRow(export.SheetName, cell, &values); err != nil {
			return "", fmt.Errorf("write row %d: %w", i, err)
		}
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	err = f.Write(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("commit workbook: %w", err)
	}
	return path, nil
}
