package api

import "time"

// Todo mirrors the server's wire representation of a todo item.
type Todo struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Priority     *int       `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	CategoryID   *int64     `json:"todo_category_id"`
	CategoryName *string    `json:"category_name"`
	IsCompleted  bool       `json:"is_completed"`
	Position     *int       `json:"position"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TodoInput carries the writable fields of a todo.
type TodoInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    *int       `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *int64     `json:"todo_category_id"`
	IsCompleted bool       `json:"is_completed"`
}
