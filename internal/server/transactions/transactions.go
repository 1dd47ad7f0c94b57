// Package transactions stores per-user budget transactions.
package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hkondo/secretbase/internal/common"
	"github.com/hkondo/secretbase/internal/dbx"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Transaction struct {
	ID              int64
	UserID          int64
	Type            string
	Amount          int64
	Description     string
	CategoryID      *int64
	CategoryName    *string
	TransactionDate time.Time
	CreatedAt       time.Time
}

type Repository interface {
	Create(ctx context.Context, tr *Transaction) (*Transaction, error)
	ListForOwner(ctx context.Context, userID int64) ([]*Transaction, error)
	Delete(ctx context.Context, id, userID int64) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tr *Transaction) (*Transaction, error) {

	query :=
		`INSERT INTO transactions (user_id, type, amount, description, category_id, transaction_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		tr.UserID, tr.Type, tr.Amount, tr.Description, tr.CategoryID, tr.TransactionDate).
		Scan(&tr.ID, &tr.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("unknown category: %w", common.ErrorValidation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tr, nil
}

func (r *PostgresRepository) ListForOwner(ctx context.Context, userID int64) ([]*Transaction, error) {

	query :=
		`SELECT t.id, t.user_id, t.type, t.amount, t.description, t.category_id, c.name,
		        t.transaction_date, t.created_at
		 FROM transactions t
		 LEFT JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = $1
		 ORDER BY t.transaction_date DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	trs := []*Transaction{}
	for rows.Next() {
		tr := &Transaction{}
		var categoryID sql.NullInt64
		var categoryName sql.NullString
		if err := rows.Scan(&tr.ID, &tr.UserID, &tr.Type, &tr.Amount, &tr.Description,
			&categoryID, &categoryName, &tr.TransactionDate, &tr.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if categoryID.Valid {
			id := categoryID.Int64
			tr.CategoryID = &id
		}
		if categoryName.Valid {
			n := categoryName.String
			tr.CategoryName = &n
		}
		trs = append(trs, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return trs, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) error {

	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, tr *Transaction) (*Transaction, error) {
	if tr.Type != TypeIncome && tr.Type != TypeExpense {
		return nil, fmt.Errorf("type must be income or expense: %w", common.ErrorValidation)
	}
	if tr.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", common.ErrorValidation)
	}
	if tr.TransactionDate.IsZero() {
		tr.TransactionDate = time.Now()
	}
	return s.repo.Create(ctx, tr)
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Transaction, error) {
	return s.repo.ListForOwner(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
