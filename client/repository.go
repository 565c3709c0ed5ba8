// Package client talks to the todo API on behalf of a user interface.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/validation"
)

// ListResult is one page of todos as reported by the server.
type ListResult struct {
	Todos []domain.Todo
	Total int
	Pages int
}

// Repository is the remote todo collection.
type Repository interface {
	List(ctx context.Context, page, limit int) (*ListResult, error)
	CreateByContent(ctx context.Context, content string) (*domain.Todo, error)
	ToggleDone(ctx context.Context, id string) (*domain.Todo, error)
	DeleteByID(ctx context.Context, id string) error
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPRepository implements Repository over the JSON API.
type HTTPRepository struct {
	baseURL string
	client  *fasthttp.Client
	timeout time.Duration
}

// Option customises an HTTPRepository.
type Option func(*HTTPRepository)

// WithHTTPClient replaces the fasthttp client, e.g. to dial an in-memory listener.
func WithHTTPClient(c *fasthttp.Client) Option {
	return func(r *HTTPRepository) {
		if c != nil {
			r.client = c
		}
	}
}

// WithTimeout bounds requests whose context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *HTTPRepository) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewHTTPRepository(baseURL string, opts ...Option) *HTTPRepository {
	r := &HTTPRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &fasthttp.Client{Name: "todo-client"},
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *HTTPRepository) List(ctx context.Context, page, limit int) (*ListResult, error) {
	uri := fmt.Sprintf("%s/api/todos?page=%s&limit=%s", r.baseURL, strconv.Itoa(page), strconv.Itoa(limit))
	status, body, err := r.do(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}
	return parseList(body)
}

func (r *HTTPRepository) CreateByContent(ctx context.Context, content string) (*domain.Todo, error) {
	payload, err := json.Marshal(transport.CreateTodoRequest{Content: content})
	if err != nil {
		return nil, err
	}
	status, body, err := r.do(ctx, http.MethodPost, r.baseURL+"/api/todos", payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, apiError(status, body)
	}
	todo, err := parseTodoEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

func (r *HTTPRepository) ToggleDone(ctx context.Context, id string) (*domain.Todo, error) {
	status, body, err := r.do(ctx, http.MethodPut, fmt.Sprintf("%s/api/todos/%s/toggle-done", r.baseURL, url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, apiError(status, body)
	}
	todo, err := parseTodoEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle done: %w", err)
	}
	return todo, nil
}

func (r *HTTPRepository) DeleteByID(ctx context.Context, id string) error {
	status, body, err := r.do(ctx, http.MethodDelete, fmt.Sprintf("%s/api/todos/%s", r.baseURL, url.PathEscape(id)), nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return apiError(status, body)
	}
	return nil
}

func (r *HTTPRepository) do(ctx context.Context, method, uri string, payload []byte) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if payload != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(r.timeout)
	}
	if err := r.client.DoDeadline(req, resp, deadline); err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, uri, err)
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}

// apiError extracts the server message, falling back to the status text.
func apiError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

// parseList accepts {total, pages, todos}; any other shape reads as an empty page.
func parseList(body []byte) (*ListResult, error) {
	var payload struct {
		Total *json.Number       `json:"total"`
		Pages *json.Number       `json:"pages"`
		Todos *[]json.RawMessage `json:"todos"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Total == nil || payload.Pages == nil || payload.Todos == nil {
		return &ListResult{Todos: []domain.Todo{}}, nil
	}

	total, err := payload.Total.Int64()
	if err != nil {
		return nil, fmt.Errorf("invalid total %q", payload.Total.String())
	}
	pages, err := payload.Pages.Int64()
	if err != nil {
		return nil, fmt.Errorf("invalid pages %q", payload.Pages.String())
	}

	todos := make([]domain.Todo, 0, len(*payload.Todos))
	for _, raw := range *payload.Todos {
		todo, err := validation.DecodeTodo(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid todo object from API: %w", err)
		}
		todos = append(todos, todo)
	}
	return &ListResult{Todos: todos, Total: int(total), Pages: int(pages)}, nil
}

func parseTodoEnvelope(body []byte) (*domain.Todo, error) {
	var payload struct {
		Todo json.RawMessage `json:"todo"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if len(payload.Todo) == 0 {
		return nil, fmt.Errorf("response has no todo")
	}
	todo, err := validation.DecodeTodo(payload.Todo)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
