package todo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/memory"
)

// stubRepository lets tests feed arbitrary rows and failures.
type stubRepository struct {
	repository.TodoRepository
	rows    []repository.Row
	total   int
	err     error
	inserts int
}

func (s *stubRepository) List(context.Context, repository.TodoFilter) ([]repository.Row, int, error) {
	return s.rows, s.total, s.err
}

func (s *stubRepository) Insert(_ context.Context, content string) (repository.Row, error) {
	s.inserts++
	return nil, s.err
}

func newSeeded(t *testing.T, n int) (*UseCase, []string) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo := memory.NewTodoRepository(memory.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	uc := New(repo, Config{}, nil)

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		todo, err := uc.CreateByContent(context.Background(), fmt.Sprintf("todo %d", i))
		if err != nil {
			t.Fatalf("CreateByContent: %v", err)
		}
		ids = append(ids, todo.ID)
	}
	return uc, ids
}

func TestListPagination(t *testing.T) {
	uc, ids := newSeeded(t, 25)
	ctx := context.Background()

	tests := []struct {
		params    ListParams
		wantLen   int
		wantPages int
		wantFirst string
	}{
		{params: ListParams{}, wantLen: 10, wantPages: 3, wantFirst: ids[24]},
		{params: ListParams{Page: 3}, wantLen: 5, wantPages: 3, wantFirst: ids[4]},
		{params: ListParams{Page: 4}, wantLen: 0, wantPages: 3},
		{params: ListParams{Page: 2, Limit: 7}, wantLen: 7, wantPages: 4, wantFirst: ids[17]},
		{params: ListParams{Limit: 25}, wantLen: 25, wantPages: 1, wantFirst: ids[24]},
		{params: ListParams{Limit: 1}, wantLen: 1, wantPages: 25, wantFirst: ids[24]},
		{params: ListParams{Page: math.MaxInt, Limit: 10}, wantLen: 0, wantPages: 3},
		{params: ListParams{Page: math.MaxInt / 10, Limit: 100}, wantLen: 0, wantPages: 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%d,limit=%d", tt.params.Page, tt.params.Limit), func(t *testing.T) {
			page, err := uc.List(ctx, tt.params)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(page.Todos) != tt.wantLen {
				t.Errorf("len(Todos) = %d, want %d", len(page.Todos), tt.wantLen)
			}
			if page.Total != 25 {
				t.Errorf("Total = %d, want 25", page.Total)
			}
			if page.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", page.Pages, tt.wantPages)
			}
			if tt.wantFirst != "" && page.Todos[0].ID != tt.wantFirst {
				t.Errorf("first todo = %s, want %s", page.Todos[0].ID, tt.wantFirst)
			}
		})
	}
}

func TestListSequentialPagesCoverEverything(t *testing.T) {
	uc, ids := newSeeded(t, 13)
	ctx := context.Background()

	var got []string
	for p := 1; ; p++ {
		page, err := uc.List(ctx, ListParams{Page: p, Limit: 4})
		if err != nil {
			t.Fatalf("List(page=%d): %v", p, err)
		}
		for _, todo := range page.Todos {
			got = append(got, todo.ID)
		}
		if p >= page.Pages {
			break
		}
	}

	if len(got) != len(ids) {
		t.Fatalf("collected %d todos, want %d", len(got), len(ids))
	}
	for i, id := range got {
		if want := ids[len(ids)-1-i]; id != want {
			t.Errorf("position %d = %s, want %s (newest first)", i, id, want)
		}
	}
}

func TestListRejectsBadParams(t *testing.T) {
	uc := New(memory.NewTodoRepository(), Config{DefaultLimit: 10, MaxLimit: 50}, nil)
	ctx := context.Background()

	if _, err := uc.List(ctx, ListParams{Page: -1}); !errors.Is(err, domain.ErrInvalidPage) {
		t.Errorf("List(page=-1) error = %v, want ErrInvalidPage", err)
	}
	if _, err := uc.List(ctx, ListParams{Limit: -3}); !errors.Is(err, domain.ErrInvalidLimit) {
		t.Errorf("List(limit=-3) error = %v, want ErrInvalidLimit", err)
	}
	if _, err := uc.List(ctx, ListParams{Limit: 51}); !errors.Is(err, domain.ErrInvalidLimit) {
		t.Errorf("List(limit=51) error = %v, want ErrInvalidLimit", err)
	}
}

func TestListEmpty(t *testing.T) {
	uc := New(memory.NewTodoRepository(), Config{}, nil)
	page, err := uc.List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Todos == nil || len(page.Todos) != 0 || page.Total != 0 || page.Pages != 0 {
		t.Errorf("List(empty) = %+v, want zero page with non-nil todos", page)
	}
}

func TestListFailsOnMalformedRow(t *testing.T) {
	stub := &stubRepository{
		rows: []repository.Row{
			{"id": uuid.NewString(), "content": "ok", "date": "2024-01-01T00:00:00Z", "done": false},
			{"id": uuid.NewString(), "content": "", "date": "2024-01-01T00:00:00Z", "done": false},
		},
		total: 2,
	}
	_, err := New(stub, Config{}, nil).List(context.Background(), ListParams{})
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Fatalf("List error = %v, want ErrInvalidRecord", err)
	}
}

func TestListStorageFailure(t *testing.T) {
	stub := &stubRepository{err: errors.New("connection reset")}
	_, err := New(stub, Config{}, nil).List(context.Background(), ListParams{})
	if !domain.IsDomainError(err, domain.ErrCodeInternal) {
		t.Fatalf("List error = %v, want internal domain error", err)
	}
}

func TestCreateByContent(t *testing.T) {
	uc := New(memory.NewTodoRepository(), Config{}, nil)
	todo, err := uc.CreateByContent(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("CreateByContent: %v", err)
	}
	if _, err := uuid.Parse(todo.ID); err != nil {
		t.Errorf("ID %q is not a uuid", todo.ID)
	}
	if todo.Content != "Buy milk" || todo.Done || todo.Date.IsZero() {
		t.Errorf("CreateByContent = %+v", todo)
	}
}

func TestCreateByContentRejectsBlankBeforeStorage(t *testing.T) {
	stub := &stubRepository{}
	uc := New(stub, Config{}, nil)
	for _, content := range []string{"", "   ", "\n\t"} {
		if _, err := uc.CreateByContent(context.Background(), content); !errors.Is(err, domain.ErrEmptyContent) {
			t.Errorf("CreateByContent(%q) error = %v, want ErrEmptyContent", content, err)
		}
	}
	if stub.inserts != 0 {
		t.Errorf("store received %d inserts, want 0", stub.inserts)
	}
}

func TestToggleDone(t *testing.T) {
	uc, ids := newSeeded(t, 1)
	ctx := context.Background()

	before, err := uc.GetByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	toggled, err := uc.ToggleDone(ctx, ids[0])
	if err != nil {
		t.Fatalf("ToggleDone: %v", err)
	}
	if !toggled.Done {
		t.Errorf("Done = false after first toggle")
	}
	if toggled.ID != before.ID || toggled.Content != before.Content || !toggled.Date.Equal(before.Date) {
		t.Errorf("toggle changed other fields: before %+v after %+v", before, toggled)
	}

	again, err := uc.ToggleDone(ctx, ids[0])
	if err != nil {
		t.Fatalf("ToggleDone: %v", err)
	}
	if again.Done {
		t.Errorf("Done = true after second toggle")
	}
}

func TestToggleDoneUnknown(t *testing.T) {
	uc := New(memory.NewTodoRepository(), Config{}, nil)
	_, err := uc.ToggleDone(context.Background(), uuid.NewString())
	if !domain.IsNotFound(err) {
		t.Fatalf("ToggleDone(unknown) error = %v, want not found", err)
	}
	if domain.StatusOf(err) != 404 {
		t.Errorf("StatusOf = %d, want 404", domain.StatusOf(err))
	}
}

func TestDeleteByID(t *testing.T) {
	uc, ids := newSeeded(t, 3)
	ctx := context.Background()

	if err := uc.DeleteByID(ctx, ids[1]); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := uc.GetByID(ctx, ids[1]); !domain.IsNotFound(err) {
		t.Errorf("GetByID after delete error = %v, want not found", err)
	}
	page, err := uc.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, todo := range page.Todos {
		if todo.ID == ids[1] {
			t.Errorf("deleted todo still listed")
		}
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
	if err := uc.DeleteByID(ctx, ids[1]); !domain.IsNotFound(err) {
		t.Errorf("second DeleteByID error = %v, want not found", err)
	}
}
