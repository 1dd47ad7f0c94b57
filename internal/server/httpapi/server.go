// Package httpapi exposes the REST surface: auth endpoints, the protected
// CRUD routes, and the auth middleware that guards them.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hkondo/secretbase/internal/logging"
	"github.com/hkondo/secretbase/internal/server/categories"
	"github.com/hkondo/secretbase/internal/server/events"
	"github.com/hkondo/secretbase/internal/server/todos"
	"github.com/hkondo/secretbase/internal/server/transactions"
	"github.com/hkondo/secretbase/internal/server/users"
)

type Server struct {
	address      string
	logger       logging.Logger
	users        *users.Service
	todos        *todos.Service
	events       *events.Service
	transactions *transactions.Service
	categories   *categories.Service
	jwtSecret    []byte
}

func NewServer(address string, l logging.Logger,
	us *users.Service, ts *todos.Service, es *events.Service,
	trs *transactions.Service, cs *categories.Service, secretKey string) *Server {
	return &Server{
		address:      address,
		logger:       l.With("module", "http_server"),
		users:        us,
		todos:        ts,
		events:       es,
		transactions: trs,
		categories:   cs,
		jwtSecret:    []byte(secretKey),
	}
}

// Handler builds the full route table. Protected routes are wrapped by the
// auth middleware; identity resolution always precedes the handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/guest-login", s.handleGuestLogin)

	protected := func(h http.HandlerFunc) http.Handler {
		return s.requireAuth(h)
	}

	mux.Handle("GET /api/todos", protected(s.handleListTodos))
	mux.Handle("POST /api/todos", protected(s.handleCreateTodo))
	mux.Handle("GET /api/todos/priority", protected(s.handlePriorityTodos))
	mux.Handle("PUT /api/todos/reorder", protected(s.handleReorderTodos))
	mux.Handle("PUT /api/todos/{id}", protected(s.handleUpdateTodo))
	mux.Handle("DELETE /api/todos/{id}", protected(s.handleDeleteTodo))

	mux.Handle("GET /api/todo-categories", protected(s.handleListTodoCategories))
	mux.Handle("POST /api/todo-categories", protected(s.handleCreateTodoCategory))
	mux.Handle("DELETE /api/todo-categories/{id}", protected(s.handleDeleteTodoCategory))

	mux.Handle("GET /api/events", protected(s.handleListEvents))
	mux.Handle("POST /api/events", protected(s.handleCreateEvent))
	mux.Handle("PUT /api/events/{id}", protected(s.handleUpdateEvent))
	mux.Handle("DELETE /api/events/{id}", protected(s.handleDeleteEvent))

	mux.Handle("GET /api/transactions", protected(s.handleListTransactions))
	mux.Handle("POST /api/transactions", protected(s.handleCreateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", protected(s.handleDeleteTransaction))

	mux.Handle("GET /api/categories", protected(s.handleListCategories))
	mux.Handle("POST /api/categories", protected(s.handleCreateCategory))
	mux.Handle("DELETE /api/categories/{id}", protected(s.handleDeleteCategory))

	return s.withRequestID(mux)
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
