// Package events stores per-user calendar events. Plain ownership-scoped
// CRUD behind the auth gate; no ordering invariants of its own.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hkondo/secretbase/internal/common"
	"github.com/hkondo/secretbase/internal/dbx"
)

type Event struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       *time.Time
	CreatedAt   time.Time
}

type Repository interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	ListForOwner(ctx context.Context, userID int64) ([]*Event, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id, userID int64) error
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, event *Event) (*Event, error) {

	query :=
		`INSERT INTO events (user_id, title, description, location, start_at, end_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		event.UserID, event.Title, event.Description, event.Location, event.StartAt, event.EndAt).
		Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) ListForOwner(ctx context.Context, userID int64) ([]*Event, error) {

	query :=
		`SELECT id, user_id, title, description, location, start_at, end_at, created_at
		 FROM events
		 WHERE user_id = $1
		 ORDER BY start_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		e := &Event{}
		var endAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Location, &e.StartAt, &endAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if endAt.Valid {
			t := endAt.Time
			e.EndAt = &t
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return events, nil
}

func (r *PostgresRepository) Update(ctx context.Context, event *Event) (*Event, error) {

	query :=
		`UPDATE events
		 SET title = $1, description = $2, location = $3, start_at = $4, end_at = $5
		 WHERE id = $6 AND user_id = $7
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.Location, event.StartAt, event.EndAt,
		event.ID, event.UserID).Scan(&event.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) error {

	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
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

func (s *Service) Create(ctx context.Context, event *Event) (*Event, error) {
	if event.Title == "" || event.StartAt.IsZero() {
		return nil, fmt.Errorf("title and start time are required: %w", common.ErrorValidation)
	}
	return s.repo.Create(ctx, event)
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Event, error) {
	return s.repo.ListForOwner(ctx, userID)
}

func (s *Service) Update(ctx context.Context, event *Event) (*Event, error) {
	if event.Title == "" || event.StartAt.IsZero() {
		return nil, fmt.Errorf("title and start time are required: %w", common.ErrorValidation)
	}
	return s.repo.Update(ctx, event)
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}
