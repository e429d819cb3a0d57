package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cashmentor/internal/core"
)

var testCats = []core.Category{
	{Value: "Food", Label: "Food & Groceries"},
	{Value: "Transport", Label: "Transport"},
	{Value: "Rent", Label: "Rent"},
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cashmentor.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadBudgetItemsAbsentReturnsDefaults(t *testing.T) {
	s := openTestStore(t)

	items, err := s.LoadBudgetItems(context.Background(), testCats, time.Now())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != len(testCats) {
		t.Fatalf("expected %d items, got %d", len(testCats), len(items))
	}
	for i, it := range items {
		if it.Name != testCats[i].Value {
			t.Fatalf("item %d: expected %q, got %q", i, testCats[i].Value, it.Name)
		}
		if len(it.Expenses) != 0 {
			t.Fatalf("item %q: expected empty expenses", it.Name)
		}
	}
}

func TestBudgetItemsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d1 := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	in := []core.BudgetItem{
		{Name: "Food", Expenses: []core.Expense{
			{Amount: core.Money{Cents: 50000}, Date: d1},
			{Amount: core.Money{Cents: 12550}, Date: d2},
		}},
		{Name: "Transport", Expenses: []core.Expense{
			{Amount: core.Money{Cents: 20000}, Date: d2},
		}},
		{Name: "Rent", Expenses: []core.Expense{}},
	}

	if err := s.SaveBudgetItems(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.LoadBudgetItems(ctx, testCats, time.Now())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("expected %d items, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i].Name != in[i].Name {
			t.Fatalf("item %d: name %q != %q", i, out[i].Name, in[i].Name)
		}
		if len(out[i].Expenses) != len(in[i].Expenses) {
			t.Fatalf("item %q: expected %d expenses, got %d",
				in[i].Name, len(in[i].Expenses), len(out[i].Expenses))
		}
		for j := range in[i].Expenses {
			want, got := in[i].Expenses[j], out[i].Expenses[j]
			if got.Amount != want.Amount || !got.Date.Equal(want.Date) {
				t.Fatalf("item %q expense %d: %+v != %+v", in[i].Name, j, got, want)
			}
		}
	}
}

func TestLoadMigratesLegacySingleAmountItems(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	raw := `[{"name":"Food","amount":500},{"name":"Transport","amount":200}]`
	if err := s.put(ctx, keyBudgetItems, raw); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	loadTime := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	items, err := s.LoadBudgetItems(ctx, testCats, loadTime)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	food := items[0]
	if food.Name != "Food" || len(food.Expenses) != 1 {
		t.Fatalf("unexpected food item: %+v", food)
	}
	if food.Expenses[0].Amount.Cents != 50000 {
		t.Fatalf("legacy amount: expected 50000 cents, got %d", food.Expenses[0].Amount.Cents)
	}
	if !food.Expenses[0].Date.Equal(loadTime) {
		t.Fatalf("legacy expense must be dated at load time, got %v", food.Expenses[0].Date)
	}
	// Category absent from the snapshot comes back empty.
	if rent := items[2]; rent.Name != "Rent" || len(rent.Expenses) != 0 {
		t.Fatalf("unexpected rent item: %+v", rent)
	}
}

func TestLoadNormalizesMixedShapesPerItem(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	raw := `[
		{"name":"Food","expenses":[{"amount":42.5,"date":"2025-06-01T10:30:00Z"}]},
		{"name":"Transport","amount":200},
		{"name":"Rent"}
	]`
	if err := s.put(ctx, keyBudgetItems, raw); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	loadTime := time.Now()
	items, err := s.LoadBudgetItems(ctx, testCats, loadTime)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := items[0].Expenses; len(got) != 1 || got[0].Amount.Cents != 4250 {
		t.Fatalf("current-shape item mishandled: %+v", got)
	}
	if got := items[1].Expenses; len(got) != 1 || got[0].Amount.Cents != 20000 {
		t.Fatalf("legacy item mishandled: %+v", got)
	}
	// Legacy item without an amount migrates as zero.
	if got := items[2].Expenses; len(got) != 1 || got[0].Amount.Cents != 0 {
		t.Fatalf("amountless legacy item mishandled: %+v", got)
	}
}

func TestLoadDropsUnknownCategories(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	raw := `[{"name":"Yachts","expenses":[{"amount":9999,"date":"2025-06-01T10:30:00Z"}]}]`
	if err := s.put(ctx, keyBudgetItems, raw); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	items, err := s.LoadBudgetItems(ctx, testCats, time.Now())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != len(testCats) {
		t.Fatalf("expected %d items, got %d", len(testCats), len(items))
	}
	for _, it := range items {
		if it.Name == "Yachts" {
			t.Fatalf("unknown category survived reconciliation")
		}
	}
}

func TestLoadMalformedSnapshotFallsBackToDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, raw := range []string{"{not json", `{"an":"object"}`, `[{"name":3}]`} {
		if err := s.put(ctx, keyBudgetItems, raw); err != nil {
			t.Fatalf("seed snapshot: %v", err)
		}
		items, err := s.LoadBudgetItems(ctx, testCats, time.Now())
		if err != nil {
			t.Fatalf("malformed snapshot %q must recover locally, got %v", raw, err)
		}
		if len(items) != len(testCats) {
			t.Fatalf("expected default shape for %q", raw)
		}
		for _, it := range items {
			if len(it.Expenses) != 0 {
				t.Fatalf("expected empty expenses for %q", raw)
			}
		}
	}
}

func TestLoadIncomeDefaults(t *testing.T) {
	s := openTestStore(t)

	income, err := s.LoadIncome(context.Background())
	if err != nil {
		t.Fatalf("load income: %v", err)
	}
	if income.Salary.Cents != DefaultSalaryCents {
		t.Fatalf("salary default: expected %d, got %d", DefaultSalaryCents, income.Salary.Cents)
	}
	if income.Other.Cents != DefaultOtherIncomeCents {
		t.Fatalf("other income default: expected %d, got %d", DefaultOtherIncomeCents, income.Other.Cents)
	}
}

func TestSaveAndLoadIncome(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveIncome(ctx, core.FieldSalary, core.Money{Cents: 123456}); err != nil {
		t.Fatalf("save salary: %v", err)
	}
	if err := s.SaveIncome(ctx, core.FieldOtherIncome, core.Money{Cents: -500}); err != nil {
		t.Fatalf("save other income: %v", err)
	}

	income, err := s.LoadIncome(ctx)
	if err != nil {
		t.Fatalf("load income: %v", err)
	}
	if income.Salary.Cents != 123456 || income.Other.Cents != -500 {
		t.Fatalf("unexpected income: %+v", income)
	}
}

func TestLoadIncomeUnparsableFallsBackToDefault(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.put(ctx, keySalary, "not-a-number"); err != nil {
		t.Fatalf("seed salary: %v", err)
	}
	income, err := s.LoadIncome(ctx)
	if err != nil {
		t.Fatalf("load income: %v", err)
	}
	if income.Salary.Cents != DefaultSalaryCents {
		t.Fatalf("expected salary default, got %d", income.Salary.Cents)
	}
}
