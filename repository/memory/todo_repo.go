// Package memory keeps todos in process memory. It backs tests and the
// "memory" storage driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type todoRepository struct {
	mu    sync.RWMutex
	todos map[string]domain.Todo
	now   func() time.Time
}

// Option customises the in-memory store.
type Option func(*todoRepository)

// WithClock overrides the time source used to stamp new todos.
func WithClock(now func() time.Time) Option {
	return func(r *todoRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewTodoRepository returns an empty in-memory TodoRepository.
func NewTodoRepository(opts ...Option) repository.TodoRepository {
	r := &todoRepository{
		todos: make(map[string]domain.Todo),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *todoRepository) Insert(_ context.Context, content string) (repository.Row, error) {
	todo := domain.Todo{
		ID:      uuid.NewString(),
		Content: content,
		Date:    r.now().UTC(),
	}

	r.mu.Lock()
	r.todos[todo.ID] = todo
	r.mu.Unlock()

	return toRow(todo), nil
}

func (r *todoRepository) GetByID(_ context.Context, id string) (repository.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	return toRow(todo), nil
}

func (r *todoRepository) Update(_ context.Context, id string, patch repository.Patch) (repository.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.todos[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	if patch.Done != nil {
		todo.Done = *patch.Done
	}
	r.todos[id] = todo
	return toRow(todo), nil
}

func (r *todoRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *todoRepository) List(_ context.Context, filter repository.TodoFilter) ([]repository.Row, int, error) {
	r.mu.RLock()
	ordered := make([]domain.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		ordered = append(ordered, todo)
	}
	r.mu.RUnlock()

	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.After(ordered[j].Date)
		}
		return ordered[i].ID > ordered[j].ID
	})

	total := len(ordered)
	start := min(max(filter.Offset, 0), total)
	end := min(start+max(filter.Limit, 0), total)

	rows := make([]repository.Row, 0, end-start)
	for _, todo := range ordered[start:end] {
		rows = append(rows, toRow(todo))
	}
	return rows, total, nil
}


func toRow(todo domain.Todo) repository.Row {
	return repository.Row{
		repository.ColumnID:      todo.ID,
		repository.ColumnContent: todo.Content,
		repository.ColumnDate:    repository.FormatDate(todo.Date),
		repository.ColumnDone:    todo.Done,
	}
}
