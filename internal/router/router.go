package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/todo/api/handler"
)

type Handlers struct {
	Todo *apiHandler.TodoHandler
}

// Middleware wraps every route.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, middlewares ...Middleware) *router.Router {
	r := router.New()

	wrap := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			h = middlewares[i](h)
		}
		return h
	}

	r.GET("/api/todos", wrap(handlers.Todo.GetTodos))
	r.POST("/api/todos", wrap(handlers.Todo.CreateTodo))
	r.GET("/api/todos/{id}", wrap(handlers.Todo.GetTodo))
	r.PUT("/api/todos/{id}/toggle-done", wrap(handlers.Todo.ToggleDone))
	r.DELETE("/api/todos/{id}", wrap(handlers.Todo.DeleteTodo))

	return r
}
