package api

import (
	"context"
	"fmt"
	"net/http"
)

type reorderItem struct {
	ID int64 `json:"id"`
}

type reorderRequest struct {
	Todos []reorderItem `json:"todos"`
}

func (c *Client) ListTodos(ctx context.Context) ([]*Todo, error) {
	var out []*Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPriorityTodos(ctx context.Context) ([]*Todo, error) {
	var out []*Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos/priority", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTodo(ctx context.Context, in *TodoInput) (*Todo, error) {
	var out Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int64, in *TodoInput) (*Todo, error) {
	var out Todo
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil)
}

// ReorderTodos sends the full desired ordering; the server assigns positions
// from the slice order.
func (c *Client) ReorderTodos(ctx context.Context, ids []int64) error {
	req := reorderRequest{Todos: make([]reorderItem, 0, len(ids))}
	for _, id := range ids {
		req.Todos = append(req.Todos, reorderItem{ID: id})
	}
	return c.do(ctx, http.MethodPut, "/api/todos/reorder", req, nil)
}
