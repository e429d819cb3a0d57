package core

import (
	"errors"
	"time"
)

// IncomeField names one of the two independently persisted income figures.
type IncomeField string

const (
	FieldSalary      IncomeField = "salary"
	FieldOtherIncome IncomeField = "otherIncome"
)

type (
	// Category is one entry of the fixed spending taxonomy: a stable
	// identifier plus a display label.
	Category struct {
		Value string `yaml:"value"`
		Label string `yaml:"label"`
	}

	// Expense is a single recorded spend. Immutable once recorded.
	Expense struct {
		Amount Money     `json:"amount"`
		Date   time.Time `json:"date"`
	}

	// BudgetItem holds the expense history of one category. Name always
	// equals a Category.Value from the registry.
	BudgetItem struct {
		Name     string    `json:"name"`
		Expenses []Expense `json:"expenses"`
	}

	// Income holds the two user-declared income figures. Negative values
	// are allowed.
	Income struct {
		Salary Money
		Other  Money
	}

	// CategoryTotal is the derived per-category sum under the active
	// date filter. Never stored.
	CategoryTotal struct {
		Name  string `json:"name"`
		Total Money  `json:"total"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownField    = errors.New("unknown income field")
)

// Total returns salary plus other income.
func (in Income) Total() Money {
	return Money{Cents: in.Salary.Cents + in.Other.Cents}
}

// Field returns the named income figure.
func (in Income) Field(f IncomeField) (Money, error) {
	switch f {
	case FieldSalary:
		return in.Salary, nil
	case FieldOtherIncome:
		return in.Other, nil
	default:
		return Money{}, ErrUnknownField
	}
}

// WithField returns a copy of the income state with the named figure replaced.
func (in Income) WithField(f IncomeField, m Money) (Income, error) {
	switch f {
	case FieldSalary:
		in.Salary = m
	case FieldOtherIncome:
		in.Other = m
	default:
		return in, ErrUnknownField
	}
	return in, nil
}

// ParseIncomeField validates an income field name.
func ParseIncomeField(s string) (IncomeField, error) {
	switch IncomeField(s) {
	case FieldSalary, FieldOtherIncome:
		return IncomeField(s), nil
	default:
		return "", ErrUnknownField
	}
}

// Clone returns a deep copy of the item so callers cannot mutate the
// engine-owned expense history through a derived view.
func (b BudgetItem) Clone() BudgetItem {
	out := BudgetItem{Name: b.Name}
	if b.Expenses != nil {
		out.Expenses = make([]Expense, len(b.Expenses))
		copy(out.Expenses, b.Expenses)
	}
	return out
}

// CloneItems deep-copies a budget item collection.
func CloneItems(items []BudgetItem) []BudgetItem {
	out := make([]BudgetItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
