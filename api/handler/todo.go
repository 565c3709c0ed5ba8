package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/validation"
	"github.com/fastygo/todo/pkg/httpcontext"
	todoUC "github.com/fastygo/todo/usecase/todo"
)

type TodoHandler struct {
	baseHandler
	uc *todoUC.UseCase
}

func NewTodoHandler(uc *todoUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List todos, newest first
// @Tags todos
// @Router /api/todos [get]
func (h *TodoHandler) GetTodos(ctx *fasthttp.RequestCtx) {
	page, ok := queryInt(ctx, "page")
	if !ok {
		h.respondText(ctx, http.StatusBadRequest, "Invalid page number")
		return
	}
	limit, ok := queryInt(ctx, "limit")
	if !ok {
		h.respondText(ctx, http.StatusBadRequest, "Invalid limit number")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.List(stdCtx, todoUC.ListParams{Page: page, Limit: limit})
	switch {
	case errors.Is(err, domain.ErrInvalidPage):
		h.respondText(ctx, http.StatusBadRequest, "Invalid page number")
		return
	case errors.Is(err, domain.ErrInvalidLimit):
		h.respondText(ctx, http.StatusBadRequest, "Invalid limit number")
		return
	case err != nil:
		h.respondError(ctx, stdCtx, err)
		return
	}

	h.respondJSON(ctx, http.StatusOK, transport.ListResponse{
		Total: result.Total,
		Pages: result.Pages,
		Todos: result.Todos,
	})
}

// @Summary Get a todo
// @Tags todos
// @Router /api/todos/{id} [get]
func (h *TodoHandler) GetTodo(ctx *fasthttp.RequestCtx) {
	id, ok := h.uuidParam(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	todo, err := h.uc.GetByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.TodoResponse{Todo: *todo})
}

// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Router /api/todos [post]
func (h *TodoHandler) CreateTodo(ctx *fasthttp.RequestCtx) {
	input, err := validation.ParseCreateBody(ctx.PostBody())
	if errors.Is(err, validation.ErrMalformedJSON) {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("Missing request body"))
		return
	}
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewValidationError("Invalid request body", err))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateByContent(stdCtx, input.Content)
	if err != nil {
		h.log(stdCtx).Warn("todo creation failed", zap.Error(err))
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(publicMessage(err)))
		return
	}

	h.log(stdCtx).Info("todo created", zap.String("id", created.ID))
	h.respondJSON(ctx, http.StatusCreated, transport.TodoResponse{Todo: *created})
}

// @Summary Flip the done flag of a todo
// @Tags todos
// @Router /api/todos/{id}/toggle-done [put]
func (h *TodoHandler) ToggleDone(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("ID must be a string"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.ToggleDone(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	h.log(stdCtx).Info("todo toggled", zap.String("id", id), zap.Bool("done", updated.Done))
	h.respondJSON(ctx, http.StatusOK, transport.TodoResponse{Todo: *updated})
}

// @Summary Delete a todo
// @Tags todos
// @Router /api/todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(ctx *fasthttp.RequestCtx) {
	id, ok := h.uuidParam(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteByID(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	h.log(stdCtx).Info("todo deleted", zap.String("id", id))
	h.respondNoContent(ctx)
}

// uuidParam reads the id path parameter and answers 400 when it is not a UUID.
func (h *TodoHandler) uuidParam(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if err := validation.ValidateID(id); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewValidationError("Invalid id", err))
		return "", false
	}
	return id, true
}

// queryInt returns 0 for an absent parameter and false for one that is not a positive integer.
func queryInt(ctx *fasthttp.RequestCtx, name string) (int, bool) {
	args := ctx.QueryArgs()
	if !args.Has(name) {
		return 0, true
	}
	v, err := strconv.Atoi(string(args.Peek(name)))
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// publicMessage hides wrapped storage causes from clients.
func publicMessage(err error) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return internalErrorMessage
}
