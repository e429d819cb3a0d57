// Package engine owns the live budget state: the per-category expense
// histories and the income figures. All mutation goes through the engine,
// which writes every committed change through to the injected store
// before returning. Derived views are recomputed on demand against a
// caller-captured instant.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cashmentor/internal/core"
	"cashmentor/internal/filter"
	applog "cashmentor/internal/log"
)

// Store is the persistence collaborator. *store.Store satisfies it.
type Store interface {
	LoadBudgetItems(ctx context.Context, cats []core.Category, loadTime time.Time) ([]core.BudgetItem, error)
	SaveBudgetItems(ctx context.Context, items []core.BudgetItem) error
	LoadIncome(ctx context.Context) (core.Income, error)
	SaveIncome(ctx context.Context, field core.IncomeField, m core.Money) error
}

// Confirmer is the yes/no prompt collaborator consulted before a reset.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ErrResetDeclined reports that the confirmation collaborator answered no.
var ErrResetDeclined = errors.New("reset declined")

// Summary is the derived money overview for one filter pass.
type Summary struct {
	Filter           filter.Mode          `json:"filter"`
	TotalIncome      core.Money           `json:"totalIncome"`
	TotalExpense     core.Money           `json:"totalExpense"`
	RemainingBalance core.Money           `json:"remainingBalance"`
	Items            []core.CategoryTotal `json:"items"`
}

// Engine holds the in-memory budget state for one session.
type Engine struct {
	store  Store
	cats   []core.Category
	logger *applog.Logger
	clock  func() time.Time

	mu     sync.Mutex
	items  []core.BudgetItem
	income core.Income
	loaded bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock. Tests use this to pin "now".
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithLogger replaces the default logger.
func WithLogger(l *applog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine over the given store and category registry. Call
// Load before issuing commands.
func New(st Store, cats []core.Category, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		cats:   cats,
		logger: applog.New(applog.Config{Component: applog.ComponentEngine}),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load reads the persisted snapshot and income figures. Read-once at
// startup; every later mutation is written through immediately.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	items, err := e.store.LoadBudgetItems(ctx, e.cats, now)
	if err != nil {
		return fmt.Errorf("load budget items: %w", err)
	}
	income, err := e.store.LoadIncome(ctx)
	if err != nil {
		return fmt.Errorf("load income: %w", err)
	}

	e.items = items
	e.income = income
	e.loaded = true
	e.logger.InfoContext(ctx, "Budget state loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldCount, len(items))
	return nil
}

// AddExpense validates and records one expense against a category, then
// persists the collection. A rejected amount leaves the state untouched.
func (e *Engine) AddExpense(ctx context.Context, category, amount string) (core.Expense, error) {
	cents, err := core.ParseAmountCents(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", amount, core.ErrInvalidAmount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i := range e.items {
		if e.items[i].Name == category {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Expense{}, fmt.Errorf("category %q: %w", category, core.ErrUnknownCategory)
	}

	exp := core.Expense{Amount: core.Money{Cents: cents}, Date: e.clock()}
	e.items[idx].Expenses = append(e.items[idx].Expenses, exp)

	if err := e.store.SaveBudgetItems(ctx, e.items); err != nil {
		// Write-through failed: revert the append so memory and disk agree.
		e.items[idx].Expenses = e.items[idx].Expenses[:len(e.items[idx].Expenses)-1]
		return core.Expense{}, fmt.Errorf("persist expense: %w", err)
	}

	e.logger.InfoContext(ctx, "Expense recorded",
		applog.FieldOperation, applog.OpAddExpense,
		applog.FieldCategory, category,
		applog.FieldAmount, cents)
	return exp, nil
}

// UpdateIncome sets one income figure and persists that field on its own.
// No lower bound: negative values are accepted.
func (e *Engine) UpdateIncome(ctx context.Context, field core.IncomeField, value string) (core.Money, error) {
	cents, err := core.ParseIncomeCents(value)
	if err != nil {
		return core.Money{}, fmt.Errorf("income %q: %w", value, core.ErrInvalidAmount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	m := core.Money{Cents: cents}
	next, err := e.income.WithField(field, m)
	if err != nil {
		return core.Money{}, err
	}

	if err := e.store.SaveIncome(ctx, field, m); err != nil {
		return core.Money{}, fmt.Errorf("persist income: %w", err)
	}
	e.income = next

	e.logger.InfoContext(ctx, "Income updated",
		applog.FieldOperation, applog.OpUpdateIncome,
		applog.FieldKey, string(field),
		applog.FieldAmount, cents)
	return m, nil
}

// Reset clears every category's expense history after the confirmation
// collaborator answers yes. A declined prompt returns ErrResetDeclined
// and changes nothing.
func (e *Engine) Reset(ctx context.Context, confirm Confirmer) error {
	ok, err := confirm.Confirm(ctx, "Are you sure you want to reset the budget?")
	if err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}
	if !ok {
		return ErrResetDeclined
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.items
	e.items = make([]core.BudgetItem, len(prev))
	for i, it := range prev {
		e.items[i] = core.BudgetItem{Name: it.Name, Expenses: []core.Expense{}}
	}

	if err := e.store.SaveBudgetItems(ctx, e.items); err != nil {
		e.items = prev
		return fmt.Errorf("persist reset: %w", err)
	}

	e.logger.InfoContext(ctx, "Budget reset", applog.FieldOperation, applog.OpReset)
	return nil
}

// Aggregates sums each category's expenses that pass the filter relative
// to now. Output order matches the registry. The same now is used for
// every expense in the pass.
func (e *Engine) Aggregates(mode filter.Mode, now time.Time) []core.CategoryTotal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.aggregatesLocked(mode, now)
}

func (e *Engine) aggregatesLocked(mode filter.Mode, now time.Time) []core.CategoryTotal {
	out := make([]core.CategoryTotal, len(e.items))
	for i, it := range e.items {
		var sum int64
		for _, exp := range it.Expenses {
			if filter.Include(exp.Date, mode, now) {
				sum += exp.Amount.Cents
			}
		}
		out[i] = core.CategoryTotal{Name: it.Name, Total: core.Money{Cents: sum}}
	}
	return out
}

// Summarize derives the full money overview for one filter pass: the
// per-category totals plus income, expense and remaining-balance folds.
func (e *Engine) Summarize(mode filter.Mode, now time.Time) Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.aggregatesLocked(mode, now)
	var totalExpense int64
	for _, it := range items {
		totalExpense += it.Total.Cents
	}
	totalIncome := e.income.Total()
	return Summary{
		Filter:           mode,
		TotalIncome:      totalIncome,
		TotalExpense:     core.Money{Cents: totalExpense},
		RemainingBalance: core.Money{Cents: totalIncome.Cents - totalExpense},
		Items:            items,
	}
}

// Items returns a deep copy of the budget collection in registry order.
func (e *Engine) Items() []core.BudgetItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return core.CloneItems(e.items)
}

// Income returns the current income figures.
func (e *Engine) Income() core.Income {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.income
}

// Categories returns the registry slice the engine was built with.
func (e *Engine) Categories() []core.Category {
	out := make([]core.Category, len(e.cats))
	copy(out, e.cats)
	return out
}

// Now returns the engine's current clock reading. Command surfaces use it
// to capture the single instant for a filtering pass.
func (e *Engine) Now() time.Time {
	return e.clock()
}
