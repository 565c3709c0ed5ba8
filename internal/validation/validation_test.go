package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/fastygo/todo/domain"
)

const sampleID = "75403ff5-1623-41f1-b917-1887f0b8cdcb"

func validRaw() map[string]any {
	return map[string]any{
		"id":      sampleID,
		"content": "Test todo",
		"date":    "2024-10-09T20:59:33.803Z",
		"done":    false,
	}
}

func TestParseTodo(t *testing.T) {
	todo, err := ParseTodo(validRaw())
	if err != nil {
		t.Fatalf("ParseTodo: %v", err)
	}
	want := time.Date(2024, 10, 9, 20, 59, 33, 803_000_000, time.UTC)
	if todo.ID != sampleID || todo.Content != "Test todo" || todo.Done || !todo.Date.Equal(want) {
		t.Errorf("ParseTodo = %+v", todo)
	}
}

func TestParseTodoCoercesDone(t *testing.T) {
	tests := []struct {
		done any
		want bool
	}{
		{done: true, want: true},
		{done: false, want: false},
		{done: "true", want: true},
		{done: "TRUE", want: true},
		{done: "False", want: false},
	}
	for _, tt := range tests {
		raw := validRaw()
		raw["done"] = tt.done
		todo, err := ParseTodo(raw)
		if err != nil {
			t.Fatalf("ParseTodo(done=%v): %v", tt.done, err)
		}
		if todo.Done != tt.want {
			t.Errorf("ParseTodo(done=%v).Done = %v, want %v", tt.done, todo.Done, tt.want)
		}
	}
}

func TestParseTodoRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		path   string
	}{
		{name: "bad id", mutate: func(r map[string]any) { r["id"] = "42" }, path: "id"},
		{name: "empty content", mutate: func(r map[string]any) { r["content"] = "" }, path: "content"},
		{name: "blank content", mutate: func(r map[string]any) { r["content"] = "   " }, path: "content"},
		{name: "bad date", mutate: func(r map[string]any) { r["date"] = "yesterday" }, path: "date"},
		{name: "done yes", mutate: func(r map[string]any) { r["done"] = "yes" }, path: "done"},
		{name: "missing done", mutate: func(r map[string]any) { delete(r, "done") }, path: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(raw)
			_, err := ParseTodo(raw)
			issues := Issues(err)
			if len(issues) == 0 {
				t.Fatalf("ParseTodo error = %v, want validation issues", err)
			}
			if issues[0].Path != tt.path {
				t.Errorf("first issue path = %q, want %q (%+v)", issues[0].Path, tt.path, issues)
			}
		})
	}
}

func TestDecodeTodo(t *testing.T) {
	todo, err := DecodeTodo([]byte(`{"id":"` + sampleID + `","content":"x","date":"2024-10-09T20:59:33Z","done":"true"}`))
	if err != nil {
		t.Fatalf("DecodeTodo: %v", err)
	}
	if !todo.Done {
		t.Errorf("Done = false, want true")
	}
	if _, err := DecodeTodo([]byte(`[1,2]`)); Issues(err) == nil {
		t.Errorf("DecodeTodo(array) error = %v, want validation error", err)
	}
}

func TestParseCreateBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      string
		malformed bool
		invalid   bool
	}{
		{name: "valid", body: `{"content":"Buy milk"}`, want: "Buy milk"},
		{name: "empty string passes schema", body: `{"content":""}`, want: ""},
		{name: "empty body", body: ``, malformed: true},
		{name: "not json", body: `content=x`, malformed: true},
		{name: "trailing data", body: `{"content":"Buy milk"} not json`, malformed: true},
		{name: "two objects", body: `{"content":"a"}{"content":"b"}`, malformed: true},
		{name: "trailing whitespace", body: "{\"content\":\"Buy milk\"}\n  ", want: "Buy milk"},
		{name: "missing content", body: `{}`, invalid: true},
		{name: "numeric content", body: `{"content":42}`, invalid: true},
		{name: "array", body: `["x"]`, invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := ParseCreateBody([]byte(tt.body))
			switch {
			case tt.malformed:
				if !errors.Is(err, ErrMalformedJSON) {
					t.Fatalf("error = %v, want ErrMalformedJSON", err)
				}
			case tt.invalid:
				if len(Issues(err)) == 0 {
					t.Fatalf("error = %v, want validation issues", err)
				}
			default:
				if err != nil {
					t.Fatalf("ParseCreateBody: %v", err)
				}
				if input.Content != tt.want {
					t.Errorf("Content = %q, want %q", input.Content, tt.want)
				}
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID(sampleID); err != nil {
		t.Errorf("ValidateID(uuid) = %v", err)
	}
	for _, id := range []string{"", "abc", "75403ff5-1623-41f1-b917"} {
		if err := ValidateID(id); len(Issues(err)) == 0 {
			t.Errorf("ValidateID(%q) = %v, want issues", id, err)
		}
	}
}

func TestValidateContent(t *testing.T) {
	if err := ValidateContent("Buy milk"); err != nil {
		t.Errorf("ValidateContent = %v", err)
	}
	for _, content := range []string{"", " ", "\t\n"} {
		if err := ValidateContent(content); !errors.Is(err, domain.ErrEmptyContent) {
			t.Errorf("ValidateContent(%q) = %v, want ErrEmptyContent", content, err)
		}
	}
}
