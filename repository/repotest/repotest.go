// Package repotest holds the behaviour every TodoRepository must share.
package repotest

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) repository.TodoRepository

// Run exercises the store contract against stores built by newRepo.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("insert and get", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		row, err := repo.Insert(ctx, "Buy milk")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		id, _ := row[repository.ColumnID].(string)
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("Insert id = %q, want a uuid", id)
		}
		if got := row[repository.ColumnContent]; got != "Buy milk" {
			t.Errorf("content = %v, want Buy milk", got)
		}
		if Done(t, row) {
			t.Errorf("done = true, want false")
		}
		date, _ := row[repository.ColumnDate].(string)
		if _, err := time.Parse(repository.DateLayout, date); err != nil {
			t.Errorf("date %q does not parse: %v", date, err)
		}

		got, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got[repository.ColumnID] != id || got[repository.ColumnContent] != "Buy milk" {
			t.Errorf("GetByID = %v, want the inserted row", got)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.GetByID(context.Background(), uuid.NewString()); !domain.IsNotFound(err) {
			t.Fatalf("GetByID(unknown) error = %v, want not found", err)
		}
	})

	t.Run("update done", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		row, err := repo.Insert(ctx, "Walk the dog")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		id := row[repository.ColumnID].(string)

		done := true
		updated, err := repo.Update(ctx, id, repository.Patch{Done: &done})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if !Done(t, updated) {
			t.Errorf("Update returned done = false, want true")
		}
		if updated[repository.ColumnContent] != "Walk the dog" || updated[repository.ColumnDate] != row[repository.ColumnDate] {
			t.Errorf("Update changed immutable columns: before %v after %v", row, updated)
		}

		reread, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if !Done(t, reread) {
			t.Errorf("stored done = false, want true")
		}

		if _, err := repo.Update(ctx, uuid.NewString(), repository.Patch{Done: &done}); !domain.IsNotFound(err) {
			t.Errorf("Update(unknown) error = %v, want not found", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		row, err := repo.Insert(ctx, "Pay rent")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		id := row[repository.ColumnID].(string)

		if err := repo.Delete(ctx, id); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, id); !domain.IsNotFound(err) {
			t.Errorf("GetByID after delete error = %v, want not found", err)
		}
		if err := repo.Delete(ctx, id); !domain.IsNotFound(err) {
			t.Errorf("second Delete error = %v, want not found", err)
		}
		rows, total, err := repo.List(ctx, repository.TodoFilter{Limit: 10})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if total != 0 || len(rows) != 0 {
			t.Errorf("List after delete = %d rows, total %d; want empty", len(rows), total)
		}
	})

	t.Run("list pages", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		for i := 0; i < 5; i++ {
			if _, err := repo.Insert(ctx, fmt.Sprintf("todo %d", i)); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}

		seen := make(map[string]bool)
		var last time.Time
		for offset, want := range map[int]int{0: 2, 2: 2, 4: 1, 6: 0} {
			rows, total, err := repo.List(ctx, repository.TodoFilter{Offset: offset, Limit: 2})
			if err != nil {
				t.Fatalf("List(offset=%d): %v", offset, err)
			}
			if total != 5 {
				t.Errorf("List(offset=%d) total = %d, want 5", offset, total)
			}
			if len(rows) != want {
				t.Errorf("List(offset=%d) returned %d rows, want %d", offset, len(rows), want)
			}
			for _, row := range rows {
				id := row[repository.ColumnID].(string)
				if seen[id] {
					t.Errorf("row %s returned on two pages", id)
				}
				seen[id] = true
			}
		}
		if len(seen) != 5 {
			t.Errorf("paging visited %d rows, want 5", len(seen))
		}

		rows, _, err := repo.List(ctx, repository.TodoFilter{Limit: 10})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		for i, row := range rows {
			date, err := time.Parse(repository.DateLayout, row[repository.ColumnDate].(string))
			if err != nil {
				t.Fatalf("date: %v", err)
			}
			if i > 0 && date.After(last) {
				t.Errorf("row %d is newer than row %d; want date descending", i, i-1)
			}
			last = date
		}
	})
}

// Done reads the done column, which stores may keep as a bool or a string.
func Done(t *testing.T, row repository.Row) bool {
	t.Helper()
	switch v := row[repository.ColumnDone].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			t.Fatalf("done column %q is not a boolean", v)
		}
		return b
	default:
		t.Fatalf("done column has type %T", v)
		return false
	}
}
