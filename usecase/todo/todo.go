// Package todo implements the todo operations on top of a row store:
// defaults, pagination arithmetic and shape checks of every row read back.
package todo

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/validation"
	"github.com/fastygo/todo/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Config bounds list requests.
type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// ListParams selects a page. Zero values mean "use the default".
type ListParams struct {
	Page  int
	Limit int
}

// Page is one window of the date-descending todo list.
type Page struct {
	Todos []domain.Todo `json:"todos"`
	Total int           `json:"total"`
	Pages int           `json:"pages"`
}

type UseCase struct {
	todos  repository.TodoRepository
	cfg    Config
	logger *zap.Logger
}

func New(todos repository.TodoRepository, cfg Config, logger *zap.Logger) *UseCase {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = max(MaxLimit, cfg.DefaultLimit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		todos:  todos,
		cfg:    cfg,
		logger: logger,
	}
}

// List returns the requested page, the total number of todos and the page count.
func (uc *UseCase) List(ctx context.Context, params ListParams) (*Page, error) {
	page, limit := params.Page, params.Limit
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = uc.cfg.DefaultLimit
	}
	if page < 0 {
		return nil, domain.ErrInvalidPage
	}
	if limit < 0 || limit > uc.cfg.MaxLimit {
		return nil, domain.ErrInvalidLimit
	}

	if page-1 > math.MaxInt/limit {
		return uc.pastEnd(ctx, limit)
	}

	rows, total, err := uc.todos.List(ctx, repository.TodoFilter{
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, storageError("failed to list todos", err)
	}

	todos := make([]domain.Todo, 0, len(rows))
	for _, row := range rows {
		todo, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if total == 0 {
		total = len(todos)
	}

	return &Page{
		Todos: todos,
		Total: total,
		Pages: pageCount(total, limit),
	}, nil
}

// pastEnd answers a page whose offset cannot be represented: no todos, but
// the real total and page count.
func (uc *UseCase) pastEnd(ctx context.Context, limit int) (*Page, error) {
	_, total, err := uc.todos.List(ctx, repository.TodoFilter{Offset: 0, Limit: 1})
	if err != nil {
		return nil, storageError("failed to list todos", err)
	}
	return &Page{
		Todos: []domain.Todo{},
		Total: total,
		Pages: pageCount(total, limit),
	}, nil
}

func (uc *UseCase) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	row, err := uc.todos.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("failed to get todo", err)
	}
	todo, err := parseRow(row)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// CreateByContent stores a new todo. Blank content never reaches the store.
func (uc *UseCase) CreateByContent(ctx context.Context, content string) (*domain.Todo, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	row, err := uc.todos.Insert(ctx, content)
	if err != nil {
		return nil, storageError("failed to create todo", err)
	}
	todo, err := parseRow(row)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("todo stored", zap.String("id", todo.ID))
	return &todo, nil
}

// ToggleDone flips the done flag. The read and the write are separate store
// calls, so concurrent toggles of one id may lose an update.
func (uc *UseCase) ToggleDone(ctx context.Context, id string) (*domain.Todo, error) {
	current, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	done := current.Toggled().Done
	row, err := uc.todos.Update(ctx, id, repository.Patch{Done: &done})
	if err != nil {
		return nil, storageError("failed to update todo", err)
	}
	todo, err := parseRow(row)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (uc *UseCase) DeleteByID(ctx context.Context, id string) error {
	if err := uc.todos.Delete(ctx, id); err != nil {
		return storageError("failed to delete todo", err)
	}
	return nil
}

func parseRow(row repository.Row) (domain.Todo, error) {
	todo, err := validation.ParseTodo(row)
	if err != nil {
		return domain.Todo{}, domain.WrapError(domain.ErrCodeInternal, domain.ErrInvalidRecord.Message, err)
	}
	return todo, nil
}

// storageError keeps domain errors as they are and classifies the rest as internal.
func storageError(op string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeInternal, op, err)
}

func pageCount(total, limit int) int {
	return (total + limit - 1) / limit
}
