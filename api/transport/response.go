package transport

import (
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/validation"
)

// ListResponse is the body of GET /api/todos.
type ListResponse struct {
	Total int           `json:"total"`
	Pages int           `json:"pages"`
	Todos []domain.Todo `json:"todos"`
}

// TodoResponse wraps a single todo.
type TodoResponse struct {
	Todo domain.Todo `json:"todo"`
}

// ErrorResponse is the JSON error body. Descriptions lists validation issues.
type ErrorResponse struct {
	Message      string             `json:"message"`
	Descriptions []validation.Issue `json:"descriptions,omitempty"`
}

// NewError returns an error body without issues.
func NewError(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

// NewValidationError returns an error body listing the issues in err.
func NewValidationError(message string, err error) ErrorResponse {
	return ErrorResponse{Message: message, Descriptions: validation.Issues(err)}
}

