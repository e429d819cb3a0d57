package store

import (
	"encoding/json"
	"time"

	"cashmentor/internal/core"
)

// snapshotItem is the on-disk shape of one budget item. Two shapes exist
// in the wild: the current one carries an expenses array, the legacy one a
// single amount field. Decoding normalizes both into core.BudgetItem.
type snapshotItem struct {
	Name     string         `json:"name"`
	Expenses []core.Expense `json:"expenses"`
	Amount   *core.Money    `json:"amount,omitempty"`
}

// encodeBudgetItems serializes the collection in the current shape.
func encodeBudgetItems(items []core.BudgetItem) ([]byte, error) {
	out := make([]snapshotItem, len(items))
	for i, it := range items {
		exps := it.Expenses
		if exps == nil {
			exps = []core.Expense{}
		}
		out[i] = snapshotItem{Name: it.Name, Expenses: exps}
	}
	return json.Marshal(out)
}

// decodeBudgetItems parses a snapshot, migrating legacy single-amount
// items on the spot: each legacy item becomes one synthetic expense with
// the legacy amount (or 0) dated at load time. Migration is per item;
// mixed snapshots normalize item by item.
func decodeBudgetItems(data []byte, loadTime time.Time) ([]core.BudgetItem, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items := make([]core.BudgetItem, 0, len(raw))
	for _, r := range raw {
		var si snapshotItem
		if err := json.Unmarshal(r, &si); err != nil {
			return nil, err
		}
		it := core.BudgetItem{Name: si.Name}
		switch {
		case hasExpensesKey(r):
			it.Expenses = si.Expenses
			if it.Expenses == nil {
				it.Expenses = []core.Expense{}
			}
		default:
			legacy := core.Money{}
			if si.Amount != nil {
				legacy = *si.Amount
			}
			it.Expenses = []core.Expense{{Amount: legacy, Date: loadTime}}
		}
		items = append(items, it)
	}
	return items, nil
}

// hasExpensesKey distinguishes the current shape from the legacy one at
// the deserialization boundary. An explicit "expenses" key, even an empty
// array, means current shape; its absence means legacy.
func hasExpensesKey(r json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(r, &probe); err != nil {
		return false
	}
	_, ok := probe["expenses"]
	return ok
}

// reconcile maps decoded items onto the registry: output carries exactly
// one item per category in registry order. Items for unknown categories
// are dropped, missing categories come back empty.
func reconcile(items []core.BudgetItem, cats []core.Category) []core.BudgetItem {
	byName := make(map[string]core.BudgetItem, len(items))
	for _, it := range items {
		byName[it.Name] = it
	}
	out := make([]core.BudgetItem, 0, len(cats))
	for _, c := range cats {
		if it, ok := byName[c.Value]; ok {
			out = append(out, it)
			continue
		}
		out = append(out, core.BudgetItem{Name: c.Value, Expenses: []core.Expense{}})
	}
	return out
}

// defaultItems builds the initial shape: one empty item per category.
func defaultItems(cats []core.Category) []core.BudgetItem {
	out := make([]core.BudgetItem, len(cats))
	for i, c := range cats {
		out[i] = core.BudgetItem{Name: c.Value, Expenses: []core.Expense{}}
	}
	return out
}
