// Package export flattens the recorded expenses into tabular rows and
// defines the outbound sink port the rows are handed to. Sink
// implementations live in subpackages.
package export

import (
	"context"
	"fmt"
	"time"

	"cashmentor/internal/core"
)

// SheetName is the single sheet every sink writes.
const SheetName = "Expenses"

// Header is the column order of the exported table.
var Header = []string{"Category", "Amount", "Date", "Time"}

// Row is one exported expense.
type Row struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
}

// Sink is the outbound port for the tabular export. Write either fully
// commits the row set or fails without leaving a partial artifact; a
// failure is surfaced to the caller and never retried. The returned
// reference names what was written (a file path, a sheet range).
type Sink interface {
	// Ext is the file extension the sink produces, empty for remote sinks.
	Ext() string
	Write(ctx context.Context, name string, rows []Row) (ref string, err error)
}

// Display layouts for the date and time columns.
const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// BuildRows flattens the budget collection: one row per expense, category
// order first, insertion order within each category.
func BuildRows(items []core.BudgetItem) []Row {
	var rows []Row
	for _, it := range items {
		for _, exp := range it.Expenses {
			rows = append(rows, Row{
				Category: it.Name,
				Amount:   exp.Amount.Float(),
				Date:     exp.Date.Format(dateLayout),
				Time:     exp.Date.Format(timeLayout),
			})
		}
	}
	return rows
}

// Filename builds the export artifact name for the given instant.
// Pattern: CashMentor_Expenses_<date>_<hour>-<minute>.<ext>.
func Filename(now time.Time, ext string) string {
	name := fmt.Sprintf("CashMentor_Expenses_%s_%s",
		now.Format("2006-01-02"), now.Format("15-04"))
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// Values renders the row as a cell slice in Header order.
func (r Row) Values() []any {
	return []any{r.Category, r.Amount, r.Date, r.Time}
}
