package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/hkondo/secretbase/internal/common"
	"github.com/hkondo/secretbase/internal/server/todos"
)

type todoJSON struct {
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

func todoToJSON(t *todos.Todo) todoJSON {
	return todoJSON{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		CategoryID:   t.CategoryID,
		CategoryName: t.CategoryName,
		IsCompleted:  t.IsCompleted,
		Position:     t.Position,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func todosToJSON(items []*todos.Todo) []todoJSON {
	out := make([]todoJSON, 0, len(items))
	for _, t := range items {
		out = append(out, todoToJSON(t))
	}
	return out
}

type todoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    *int       `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  *int64     `json:"todo_category_id"`
	IsCompleted bool       `json:"is_completed"`
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, common.ErrorValidation
	}
	return id, nil
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req todoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	todo, err := s.todos.Create(r.Context(), &todos.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, todoToJSON(todo))
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	items, err := s.todos.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todosToJSON(items))
}

func (s *Server) handlePriorityTodos(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	items, err := s.todos.ListPriority(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todosToJSON(items))
}

// reorderRequest carries the complete desired ordering; only the ids matter,
// array order is the order.
type reorderRequest struct {
	Todos json.RawMessage `json:"todos"`
}

type reorderItem struct {
	ID int64 `json:"id"`
}

func (s *Server) handleReorderTodos(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	// A missing or null todos value is not an array; json.Unmarshal would
	// happily leave the slice nil.
	if len(req.Todos) == 0 || string(req.Todos) == "null" {
		s.writeError(w, r, common.ErrorValidation)
		return
	}

	var items []reorderItem
	if err := json.Unmarshal(req.Todos, &items); err != nil {
		// Body present but todos is not an array.
		s.writeError(w, r, common.ErrorValidation)
		return
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	if err := s.todos.Reorder(r.Context(), userID, ids); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "todo order updated"})
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req todoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	todo, err := s.todos.Update(r.Context(), &todos.Todo{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todoToJSON(todo))
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.todos.Delete(r.Context(), id, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "todo deleted"})
}

type todoCategoryJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListTodoCategories(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	cats, err := s.todos.ListCategories(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]todoCategoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, todoCategoryJSON{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTodoCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cat, err := s.todos.CreateCategory(r.Context(), userID, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, todoCategoryJSON{ID: cat.ID, Name: cat.Name})
}

func (s *Server) handleDeleteTodoCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.todos.DeleteCategory(r.Context(), id, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
