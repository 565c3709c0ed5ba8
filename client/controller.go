package client

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/validation"
)

// PageSize is the number of todos requested per page.
const PageSize = 10

// Controller adapts Repository calls to callback style for a user interface.
// Calls block until the request completes; run them in a goroutine to keep a
// UI responsive.
type Controller struct {
	repo     Repository
	pageSize int
	logger   *zap.Logger
}

// NewController builds a controller. A pageSize of zero selects PageSize.
func NewController(repo Repository, pageSize int, logger *zap.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{repo: repo, pageSize: pageSize, logger: logger}
}

type GetParams struct {
	Page int
}

// Get loads one page. Page zero means the first page.
func (c *Controller) Get(ctx context.Context, params GetParams) (*ListResult, error) {
	page := params.Page
	if page == 0 {
		page = 1
	}
	return c.repo.List(ctx, page, c.pageSize)
}

// FilterTodosByContent keeps the todos whose content contains search,
// ignoring case. Order is preserved.
func FilterTodosByContent(todos []domain.Todo, search string) []domain.Todo {
	needle := strings.ToLower(search)
	filtered := make([]domain.Todo, 0, len(todos))
	for _, todo := range todos {
		if strings.Contains(strings.ToLower(todo.Content), needle) {
			filtered = append(filtered, todo)
		}
	}
	return filtered
}

type CreateParams struct {
	Content   string
	OnSuccess func(domain.Todo)
	OnError   func(error)
}

// Create validates content locally and only then calls the server.
func (c *Controller) Create(ctx context.Context, params CreateParams) {
	if err := validation.ValidateContent(params.Content); err != nil {
		call(params.OnError, err)
		return
	}

	created, err := c.repo.CreateByContent(ctx, params.Content)
	if err != nil {
		c.logger.Debug("create failed", zap.Error(err))
		call(params.OnError, err)
		return
	}
	call(params.OnSuccess, *created)
}

type ToggleDoneParams struct {
	ID string
	// UpdateTodoOnScreen flips the todo locally. It runs before the request
	// and once more if the request fails.
	UpdateTodoOnScreen func()
	OnSuccess          func(domain.Todo)
	OnError            func(error)
}

// ToggleDone updates the screen optimistically, then asks the server.
func (c *Controller) ToggleDone(ctx context.Context, params ToggleDoneParams) {
	callNoArg(params.UpdateTodoOnScreen)

	updated, err := c.repo.ToggleDone(ctx, params.ID)
	if err != nil {
		c.logger.Debug("toggle failed, reverting", zap.String("id", params.ID), zap.Error(err))
		callNoArg(params.UpdateTodoOnScreen)
		call(params.OnError, err)
		return
	}
	call(params.OnSuccess, *updated)
}

type DeleteParams struct {
	ID string
	// OnSuccess removes the todo from the screen before the request is sent.
	OnSuccess func()
	// RestoreTodoOnScreen, when set, undoes OnSuccess after a failed request.
	RestoreTodoOnScreen func()
	OnError             func(error)
}

// DeleteByID removes the todo from the screen optimistically, then asks the server.
func (c *Controller) DeleteByID(ctx context.Context, params DeleteParams) {
	callNoArg(params.OnSuccess)

	if err := c.repo.DeleteByID(ctx, params.ID); err != nil {
		c.logger.Debug("delete failed", zap.String("id", params.ID), zap.Error(err))
		callNoArg(params.RestoreTodoOnScreen)
		call(params.OnError, err)
	}
}

// ErrorMessage renders err for a user, mapping empty content to a friendly
// sentence.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, domain.ErrEmptyContent) {
		return "You need some content to add a new item!"
	}
	return err.Error()
}

func call[T any](fn func(T), v T) {
	if fn != nil {
		fn(v)
	}
}

func callNoArg(fn func()) {
	if fn != nil {
		fn()
	}
}
