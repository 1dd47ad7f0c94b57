package httpapi

import (
	"net/http"
	"time"

	"github.com/hkondo/secretbase/internal/server/transactions"
)

type transactionJSON struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	Amount          int64     `json:"amount"`
	Description     string    `json:"description,omitempty"`
	CategoryID      *int64    `json:"category_id"`
	CategoryName    *string   `json:"category_name"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}

func transactionToJSON(tr *transactions.Transaction) transactionJSON {
	return transactionJSON{
		ID:              tr.ID,
		Type:            tr.Type,
		Amount:          tr.Amount,
		Description:     tr.Description,
		CategoryID:      tr.CategoryID,
		CategoryName:    tr.CategoryName,
		TransactionDate: tr.TransactionDate,
		CreatedAt:       tr.CreatedAt,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req struct {
		Type            string    `json:"type"`
		Amount          int64     `json:"amount"`
		Description     string    `json:"description"`
		CategoryID      *int64    `json:"category_id"`
		TransactionDate time.Time `json:"transaction_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tr, err := s.transactions.Create(r.Context(), &transactions.Transaction{
		UserID:          userID,
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		TransactionDate: req.TransactionDate,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, transactionToJSON(tr))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	items, err := s.transactions.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]transactionJSON, 0, len(items))
	for _, tr := range items {
		out = append(out, transactionToJSON(tr))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.transactions.Delete(r.Context(), id, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

type categoryJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	cats, err := s.categories.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryJSON{ID: c.ID, Name: c.Name, Type: c.Type})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cat, err := s.categories.Create(r.Context(), userID, req.Name, req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, categoryJSON{ID: cat.ID, Name: cat.Name, Type: cat.Type})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.categories.Delete(r.Context(), id, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
