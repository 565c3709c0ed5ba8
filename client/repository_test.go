package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/todo/internal/apitest"
)

func newRemote(t *testing.T) (*HTTPRepository, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t, nil)
	return NewHTTPRepository(apitest.BaseURL+"/", WithHTTPClient(srv.Client()), WithTimeout(2*time.Second)), srv
}

func TestHTTPRepositoryRoundTrip(t *testing.T) {
	repo, _ := newRemote(t)
	ctx := context.Background()

	created, err := repo.CreateByContent(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("CreateByContent: %v", err)
	}
	if created.Content != "Buy milk" || created.Done {
		t.Errorf("created = %+v", created)
	}

	toggled, err := repo.ToggleDone(ctx, created.ID)
	if err != nil {
		t.Fatalf("ToggleDone: %v", err)
	}
	if !toggled.Done || toggled.ID != created.ID {
		t.Errorf("toggled = %+v", toggled)
	}

	list, err := repo.List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Total != 1 || list.Pages != 1 || len(list.Todos) != 1 || !list.Todos[0].Done {
		t.Errorf("list = %+v", list)
	}

	if err := repo.DeleteByID(ctx, created.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	list, err = repo.List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.Total != 0 || len(list.Todos) != 0 {
		t.Errorf("list after delete = %+v", list)
	}
}

func TestHTTPRepositoryErrors(t *testing.T) {
	repo, _ := newRemote(t)
	ctx := context.Background()

	_, err := repo.ToggleDone(ctx, uuid.NewString())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "todo not found" {
		t.Errorf("ToggleDone(unknown) error = %#v", err)
	}

	err = repo.DeleteByID(ctx, "nope")
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "Invalid id" {
		t.Errorf("DeleteByID(nope) error = %#v", err)
	}

	_, err = repo.CreateByContent(ctx, "")
	if !errors.As(err, &apiErr) || apiErr.Message != "content cannot be empty" {
		t.Errorf("CreateByContent(\"\") error = %#v", err)
	}

	_, err = repo.List(ctx, 0, 10)
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid page number" {
		t.Errorf("List(page=0) error = %#v", err)
	}
}

func TestHTTPRepositoryCanceledContext(t *testing.T) {
	repo, _ := newRemote(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.List(ctx, 1, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("List with canceled context error = %v", err)
	}
}

func TestParseList(t *testing.T) {
	id := uuid.NewString()
	body := []byte(`{"total":1,"pages":1,"todos":[{"id":"` + id + `","content":"x","date":"2024-10-09T20:59:33.803Z","done":"TRUE"}]}`)
	list, err := parseList(body)
	if err != nil {
		t.Fatalf("parseList: %v", err)
	}
	if len(list.Todos) != 1 || !list.Todos[0].Done {
		t.Errorf("list = %+v, want one done todo", list)
	}

	list, err = parseList([]byte(`{"items":[]}`))
	if err != nil || list.Total != 0 || list.Pages != 0 || len(list.Todos) != 0 {
		t.Errorf("parseList(unexpected shape) = %+v, %v; want empty page", list, err)
	}

	if _, err := parseList([]byte(`{"total":1,"pages":1,"todos":[42]}`)); err == nil {
		t.Errorf("parseList accepted a non-object todo")
	}
}

func TestControllerAgainstServer(t *testing.T) {
	repo, _ := newRemote(t)
	c := NewController(repo, 2, nil)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		c.Create(ctx, CreateParams{
			Content: content,
			OnError: func(err error) { t.Fatalf("create %s: %v", content, err) },
		})
	}

	first, err := c.Get(ctx, GetParams{})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(first.Todos) != 2 || first.Pages != 2 || first.Total != 3 {
		t.Errorf("first page = %+v", first)
	}
	second, err := c.Get(ctx, GetParams{Page: 2})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(second.Todos) != 1 {
		t.Errorf("second page has %d todos, want 1", len(second.Todos))
	}
}

func TestHTTPRepositoryEscapesID(t *testing.T) {
	repo, _ := newRemote(t)

	// Unescaped, "?" would end the path and hit PUT /api/todos/abc.
	_, err := repo.ToggleDone(context.Background(), "abc?x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "todo not found" {
		t.Errorf("ToggleDone(abc?x) error = %#v, want 404 todo not found", err)
	}
}
