package transport

// CreateTodoRequest is the POST /api/todos body.
type CreateTodoRequest struct {
	Content string `json:"content"`
}
