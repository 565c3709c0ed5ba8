// Package apitest runs the todo API in-process for tests.
package apitest

import (
	"net"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap/zaptest"

	apiHandler "github.com/fastygo/todo/api/handler"
	"github.com/fastygo/todo/internal/middleware"
	"github.com/fastygo/todo/internal/router"
	"github.com/fastygo/todo/pkg/httpcontext"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/memory"
	todoUC "github.com/fastygo/todo/usecase/todo"
)

// BaseURL is the address the in-memory server answers on.
const BaseURL = "http://todo.test"

// Server is a running in-memory API.
type Server struct {
	Repo     repository.TodoRepository
	listener *fasthttputil.InmemoryListener
}

// NewServer serves the API over repo, or over a fresh memory store when repo is nil.
func NewServer(t *testing.T, repo repository.TodoRepository) *Server {
	t.Helper()
	if repo == nil {
		repo = memory.NewTodoRepository()
	}

	logger := zaptest.NewLogger(t)
	uc := todoUC.New(repo, todoUC.Config{DefaultLimit: 10, MaxLimit: 100}, logger)
	handlers := router.Handlers{
		Todo: apiHandler.NewTodoHandler(uc, httpcontext.NewAdapter(time.Second), logger),
	}
	r := router.New(handlers, middleware.Recover(logger), middleware.AccessLog(logger))

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: r.Handler}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() {
		_ = server.Shutdown()
		_ = ln.Close()
	})

	return &Server{Repo: repo, listener: ln}
}

// Dial connects to the in-memory listener regardless of addr.
func (s *Server) Dial(string) (net.Conn, error) {
	return s.listener.Dial()
}

// Client returns a fasthttp client wired to the server.
func (s *Server) Client() *fasthttp.Client {
	return &fasthttp.Client{Dial: s.Dial}
}

// Do sends one request and returns status, content type and body.
func (s *Server) Do(t *testing.T, method, uri string, body []byte) (int, string, []byte) {
	t.Helper()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(BaseURL + uri)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := s.Client().DoTimeout(req, resp, 5*time.Second); err != nil {
		t.Fatalf("%s %s: %v", method, uri, err)
	}
	return resp.StatusCode(), string(resp.Header.ContentType()), append([]byte(nil), resp.Body()...)
}
