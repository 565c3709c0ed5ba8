package domain

import (
	"strings"
	"time"
)

// Todo is a single task record. Only Done changes after creation.
type Todo struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Done    bool      `json:"done"`
}

// Toggled returns a copy of the todo with Done flipped.
func (t Todo) Toggled() Todo {
	t.Done = !t.Done
	return t
}

// BlankContent reports whether content is empty or whitespace only.
func BlankContent(content string) bool {
	return strings.TrimSpace(content) == ""
}
