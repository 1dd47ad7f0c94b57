package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hkondo/secretbase/internal/server/categories"
	"github.com/hkondo/secretbase/internal/server/events"
	"github.com/hkondo/secretbase/internal/server/migrations"
	"github.com/hkondo/secretbase/internal/server/todos"
	"github.com/hkondo/secretbase/internal/server/transactions"
	"github.com/hkondo/secretbase/internal/server/users"
)

type PostgresRepositoryManager struct {
	db           *sql.DB
	users        users.Repository
	todos        todos.Repository
	events       events.Repository
	transactions transactions.Repository
	categories   categories.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Todos() todos.Repository {
	return m.todos
}

func (m *PostgresRepositoryManager) Events() events.Repository {
	return m.events
}

func (m *PostgresRepositoryManager) Transactions() transactions.Repository {
	return m.transactions
}

func (m *PostgresRepositoryManager) Categories() categories.Repository {
	return m.categories
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:           db,
		users:        users.NewPostgresRepository(db),
		todos:        todos.NewPostgresRepository(db),
		events:       events.NewPostgresRepository(db),
		transactions: transactions.NewPostgresRepository(db),
		categories:   categories.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
