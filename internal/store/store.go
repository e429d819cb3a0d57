// Package store persists the budget state in a small SQLite key-value
// table with a write-through lifecycle: every committed mutation is
// written before the command returns, and the snapshot is read once at
// startup. A malformed snapshot is treated as absent and replaced by the
// default shape; that recovery is logged, never surfaced as an error.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cashmentor/internal/core"

	_ "modernc.org/sqlite"
)

// Persisted keys.
const (
	keyBudgetItems = "budgetItems"
	keySalary      = "salary"
	keyOtherIncome = "otherIncome"
)

// Documented income defaults, in cents.
const (
	DefaultSalaryCents      int64 = 95400 * 100
	DefaultOtherIncomeCents int64 = 6000 * 100
)

// Store is the durable key-value snapshot store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at dbPath and
// brings its schema up to date.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// LoadBudgetItems reads the persisted snapshot and normalizes it against
// the registry: exactly one item per category, in registry order. An
// absent or unparsable snapshot falls back to the default empty shape.
// Legacy single-amount items are migrated with loadTime as the synthetic
// expense date.
func (s *Store) LoadBudgetItems(ctx context.Context, cats []core.Category, loadTime time.Time) ([]core.BudgetItem, error) {
	raw, ok, err := s.get(ctx, keyBudgetItems)
	if err != nil {
		return nil, err
	}
	if !ok {
		return defaultItems(cats), nil
	}

	items, err := decodeBudgetItems([]byte(raw), loadTime)
	if err != nil {
		slog.WarnContext(ctx, "Malformed budget snapshot, falling back to defaults",
			"key", keyBudgetItems, "error", err)
		return defaultItems(cats), nil
	}

	return reconcile(items, cats), nil
}

// SaveBudgetItems writes the full collection through to disk.
func (s *Store) SaveBudgetItems(ctx context.Context, items []core.BudgetItem) error {
	data, err := encodeBudgetItems(items)
	if err != nil {
		return fmt.Errorf("encode budget items: %w", err)
	}
	return s.put(ctx, keyBudgetItems, string(data))
}

// LoadIncome reads both income figures. A missing or unparsable value
// falls back to its documented default.
func (s *Store) LoadIncome(ctx context.Context) (core.Income, error) {
	salary, err := s.loadIncomeKey(ctx, keySalary, DefaultSalaryCents)
	if err != nil {
		return core.Income{}, err
	}
	other, err := s.loadIncomeKey(ctx, keyOtherIncome, DefaultOtherIncomeCents)
	if err != nil {
		return core.Income{}, err
	}
	return core.Income{Salary: salary, Other: other}, nil
}

func (s *Store) loadIncomeKey(ctx context.Context, key string, defaultCents int64) (core.Money, error) {
	raw, ok, err := s.get(ctx, key)
	if err != nil {
		return core.Money{}, err
	}
	if !ok {
		return core.Money{Cents: defaultCents}, nil
	}
	cents, err := core.ParseIncomeCents(raw)
	if err != nil {
		slog.WarnContext(ctx, "Unparsable income value, falling back to default",
			"key", key, "value", raw)
		return core.Money{Cents: defaultCents}, nil
	}
	return core.Money{Cents: cents}, nil
}

// SaveIncome writes one income figure through to disk as a numeric string.
func (s *Store) SaveIncome(ctx context.Context, field core.IncomeField, m core.Money) error {
	switch field {
	case core.FieldSalary:
		return s.put(ctx, keySalary, m.String())
	case core.FieldOtherIncome:
		return s.put(ctx, keyOtherIncome, m.String())
	default:
		return core.ErrUnknownField
	}
}
