// Package services contains application services for the CLI client.
package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hkondo/secretbase/internal/client/api"
)

// TodoAPI is the slice of the backend client the todo service needs.
type TodoAPI interface {
	ListTodos(ctx context.Context) ([]*api.Todo, error)
	ListPriorityTodos(ctx context.Context) ([]*api.Todo, error)
	CreateTodo(ctx context.Context, in *api.TodoInput) (*api.Todo, error)
	UpdateTodo(ctx context.Context, id int64, in *api.TodoInput) (*api.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	ReorderTodos(ctx context.Context, ids []int64) error
}

// TodoService keeps a cached copy of the user's list so that reordering can
// be applied optimistically: the cache is rearranged first, the server is
// told second, and a failed call is compensated by refetching the
// authoritative list.
type TodoService struct {
	api TodoAPI

	mu    sync.Mutex
	cache []*api.Todo
}

func NewTodoService(client TodoAPI) *TodoService {
	return &TodoService{api: client}
}

// Refresh replaces the cache with the server's current list and returns it.
func (s *TodoService) Refresh(ctx context.Context) ([]*api.Todo, error) {
	items, err := s.api.ListTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot load todos: %w", err)
	}

	s.mu.Lock()
	s.cache = items
	s.mu.Unlock()
	return items, nil
}

// Cached returns the last known list without touching the network.
func (s *TodoService) Cached() []*api.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*api.Todo, len(s.cache))
	copy(out, s.cache)
	return out
}

func (s *TodoService) Priority(ctx context.Context) ([]*api.Todo, error) {
	return s.api.ListPriorityTodos(ctx)
}

func (s *TodoService) Add(ctx context.Context, in *api.TodoInput) (*api.Todo, error) {
	created, err := s.api.CreateTodo(ctx, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache = append(s.cache, created)
	s.mu.Unlock()
	return created, nil
}

func (s *TodoService) Update(ctx context.Context, id int64, in *api.TodoInput) (*api.Todo, error) {
	updated, err := s.api.UpdateTodo(ctx, id, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i, item := range s.cache {
		if item.ID == id {
			s.cache[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteTodo(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i, item := range s.cache {
		if item.ID == id {
			s.cache = append(s.cache[:i], s.cache[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Reorder moves the item with the given id to the target index (0-based) in
// the cached list, applies the change locally, then pushes the complete order
// to the server. If the push fails the cache is refetched so the view never
// drifts from what the server holds.
func (s *TodoService) Reorder(ctx context.Context, id int64, targetIndex int) error {
	s.mu.Lock()
	from := -1
	for i, item := range s.cache {
		if item.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		s.mu.Unlock()
		return fmt.Errorf("todo %d: %w", id, api.ErrNotFound)
	}
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex >= len(s.cache) {
		targetIndex = len(s.cache) - 1
	}

	moved := s.cache[from]
	s.cache = append(s.cache[:from], s.cache[from+1:]...)
	s.cache = append(s.cache[:targetIndex], append([]*api.Todo{moved}, s.cache[targetIndex:]...)...)

	ids := make([]int64, 0, len(s.cache))
	for i, item := range s.cache {
		pos := i
		item.Position = &pos
		ids = append(ids, item.ID)
	}
	s.mu.Unlock()

	if err := s.api.ReorderTodos(ctx, ids); err != nil {
		// roll the cache back to the server's truth
		if _, refreshErr := s.Refresh(ctx); refreshErr != nil {
			s.mu.Lock()
			s.cache = nil
			s.mu.Unlock()
		}
		return fmt.Errorf("cannot reorder: %w", err)
	}
	return nil
}

// SortedByPosition returns the cached items ordered the way the server lists
// them: explicit positions first, then unpositioned items.
func (s *TodoService) SortedByPosition() []*api.Todo {
	items := s.Cached()
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].Position, items[j].Position
		switch {
		case pi != nil && pj != nil:
			return *pi < *pj
		case pi != nil:
			return true
		default:
			return false
		}
	})
	return items
}
