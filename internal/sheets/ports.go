package sheets

import (
	"context"

	"my/internal/core"
)

// Ports for inbound expense sources.
type (
	// ExpenseReader loads every expense held by one tabular source, in row order.
	ExpenseReader interface {
		ReadExpenses(ctx context.Context, path string) ([]core.Expense, error)
	}
)

// Required column headers of an expense table.
const (
	ColumnTimestamp = "Timestamp"
	ColumnAmount    = "Amount"
	ColumnCategory  = "Category"
)
