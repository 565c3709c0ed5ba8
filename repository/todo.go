package repository

import (
	"context"
	"time"
)

// Column names shared by every row store.
const (
	ColumnID      = "id"
	ColumnContent = "content"
	ColumnDate    = "date"
	ColumnDone    = "done"
)

// DateLayout is the textual form of the date column.
const DateLayout = time.RFC3339Nano

// Row is an untyped todo record as returned by a store. Values are
// JSON-compatible: strings, bools and float64s.
type Row map[string]any

// TodoFilter selects a window of the date-descending ordering.
type TodoFilter struct {
	Offset int
	Limit  int
}

// Patch lists the mutable columns of a todo. Nil fields are left untouched.
type Patch struct {
	Done *bool
}

// TodoRepository is the row store behind the todo use case.
type TodoRepository interface {
	Insert(ctx context.Context, content string) (Row, error)
	GetByID(ctx context.Context, id string) (Row, error)
	Update(ctx context.Context, id string, patch Patch) (Row, error)
	Delete(ctx context.Context, id string) error
	// List returns the rows of the window together with the total row count.
	List(ctx context.Context, filter TodoFilter) ([]Row, int, error)
}

// FormatDate renders t in the date column format.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
