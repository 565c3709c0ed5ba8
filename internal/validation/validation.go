// Package validation checks external todo data against JSON schemas and
// converts it into domain values.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fastygo/todo/domain"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var (
	todoSchema   = mustCompile("todo.json")
	createSchema = mustCompile("create.json")
	idSchema     = mustCompile("id.json")
)

// ErrMalformedJSON is returned when a body is not JSON at all.
var ErrMalformedJSON = errors.New("malformed json")

// Issue describes one schema violation.
type Issue struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is a failed validation with the individual issues.
type Error struct {
	Message string
	Issues  []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return e.Message
	}
	first := e.Issues[0]
	if first.Path == "" {
		return fmt.Sprintf("%s: %s", e.Message, first.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Message, first.Path, first.Message)
}

// Issues returns the issues carried by err, or nil when err is not a validation error.
func Issues(err error) []Issue {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr.Issues
	}
	return nil
}

// CreateInput is a validated creation body.
type CreateInput struct {
	Content string `json:"content"`
}

// ParseTodo validates a raw record and converts it to a Todo. The done flag
// may be a boolean or the strings "true"/"false" in any case.
func ParseTodo(raw map[string]any) (domain.Todo, error) {
	if err := validate(todoSchema, "invalid todo", raw); err != nil {
		return domain.Todo{}, err
	}

	date, err := time.Parse(time.RFC3339Nano, raw["date"].(string))
	if err != nil {
		return domain.Todo{}, &Error{
			Message: "invalid todo",
			Issues:  []Issue{{Code: "format", Path: "date", Message: err.Error()}},
		}
	}

	return domain.Todo{
		ID:      raw["id"].(string),
		Content: raw["content"].(string),
		Date:    date,
		Done:    coerceBool(raw["done"]),
	}, nil
}

// DecodeTodo parses a JSON object into a Todo.
func DecodeTodo(data []byte) (domain.Todo, error) {
	raw, err := decode(data)
	if err != nil {
		return domain.Todo{}, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return domain.Todo{}, &Error{
			Message: "invalid todo",
			Issues:  []Issue{{Code: "type", Message: "expected object"}},
		}
	}
	return ParseTodo(obj)
}

// ParseCreateBody decodes and validates a todo creation body.
func ParseCreateBody(body []byte) (CreateInput, error) {
	raw, err := decode(body)
	if err != nil {
		return CreateInput{}, err
	}
	if err := validate(createSchema, "Invalid request body", raw); err != nil {
		return CreateInput{}, err
	}
	return CreateInput{Content: raw.(map[string]any)["content"].(string)}, nil
}

// ValidateID checks that id is a UUID string.
func ValidateID(id string) error {
	return validate(idSchema, "Invalid id", id)
}

// ValidateContent rejects empty and whitespace-only content.
func ValidateContent(content string) error {
	if domain.BlankContent(content) {
		return domain.ErrEmptyContent
	}
	return nil
}

func decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrMalformedJSON
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrMalformedJSON)
	}
	return raw, nil
}

func validate(schema *jsonschema.Schema, message string, v any) error {
	err := schema.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Error{Message: message, Issues: []Issue{{Message: err.Error()}}}
	}
	var issues []Issue
	collectIssues(ve, &issues)
	return &Error{Message: message, Issues: issues}
}

// collectIssues flattens the leaves of the validation error tree.
func collectIssues(err *jsonschema.ValidationError, issues *[]Issue) {
	if len(err.Causes) == 0 {
		*issues = append(*issues, Issue{
			Code:    path.Base(err.KeywordLocation),
			Path:    strings.TrimPrefix(strings.ReplaceAll(err.InstanceLocation, "/", "."), "."),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectIssues(cause, issues)
	}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFiles.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("add schema %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}
