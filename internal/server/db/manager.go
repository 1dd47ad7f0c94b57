package db

import (
	"context"
	"database/sql"

	"github.com/hkondo/secretbase/internal/server/categories"
	"github.com/hkondo/secretbase/internal/server/events"
	"github.com/hkondo/secretbase/internal/server/todos"
	"github.com/hkondo/secretbase/internal/server/transactions"
	"github.com/hkondo/secretbase/internal/server/users"
)

// RepositoryManager owns the shared connection pool and hands out one
// repository per aggregate.
type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
	Todos() todos.Repository
	Events() events.Repository
	Transactions() transactions.Repository
	Categories() categories.Repository
}
