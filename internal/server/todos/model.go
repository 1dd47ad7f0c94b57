// Package todos owns the user-scoped ordered todo collection and its
// categories. Among items that carry a position, positions form a dense,
// zero-based sequence matching the user's intended display order; items
// without a position sort last by creation recency. Positions change only
// through Reorder, which applies its whole batch atomically.
package todos

import "time"

// Todo is one ordered item. Position is nil until the user first reorders.
type Todo struct {
	ID           int64
	UserID       int64
	Title        string
	Description  string
	Priority     *int
	DueDate      *time.Time
	CategoryID   *int64
	CategoryName *string
	IsCompleted  bool
	Position     *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Category is a user-scoped todo category; names are unique per owner.
type Category struct {
	ID     int64
	UserID int64
	Name   string
}
