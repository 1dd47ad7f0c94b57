// Package categories stores per-user budget categories. Names are unique per
// owner and type; duplicates surface as common.ErrorConflict.
package categories

import (
	"context"
	"fmt"

	"github.com/hkondo/secretbase/internal/common"
	"github.com/hkondo/secretbase/internal/dbx"
)

type Category struct {
	ID     int64
	UserID int64
	Name   string
	Type   string
}

type Repository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	ListForOwner(ctx context.Context, userID int64) ([]*Category, error)
	Delete(ctx context.Context, id, userID int64) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, category *Category) (*Category, error) {

	query :=
		`INSERT INTO categories (user_id, name, type)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, category.UserID, category.Name, category.Type).Scan(&category.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

func (r *PostgresRepository) ListForOwner(ctx context.Context, userID int64) ([]*Category, error) {

	query := `SELECT id, user_id, name, type FROM categories WHERE user_id = $1 ORDER BY type, name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) error {

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
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

func (s *Service) Create(ctx context.Context, userID int64, name, typ string) (*Category, error) {
	if name == "" || typ == "" {
		return nil, fmt.Errorf("name and type are required: %w", common.ErrorValidation)
	}
	return s.repo.Create(ctx, &Category{UserID: userID, Name: name, Type: typ})
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Category, error) {
	return s.repo.ListForOwner(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
