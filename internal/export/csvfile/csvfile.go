// Package csvfile writes the export rows as a CSV file. Like the
// workbook sink it writes to a temporary file and renames it into place.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cashmentor/internal/export"
)

// Sink writes CSV files into a target directory.
type Sink struct {
	dir string
}

var _ export.Sink = (*Sink)(nil)

// New creates a CSV sink writing into dir.
func New(dir string) *Sink {
	return &Sink{dir: dir}
}

func (s *Sink) Ext() string { return "csv" }

// Write commits the row set as <dir>/<name>.
func (s *Sink) Write(ctx context.Context, name string, rows []export.Row) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	w := csv.NewWriter(f)
	records := [][]string{export.Header}
	for _, r := range rows {
		records = append(records, []string{
			r.Category,
			strconv.FormatFloat(r.Amount, 'f', -1, 64),
			r.Date,
			r.Time,
		})
	}
	err = w.WriteAll(records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write csv: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("commit csv: %w", err)
	}
	return path, nil
}
