package todos

import (
	"context"
	"fmt"

	"github.com/hkondo/secretbase/internal/common"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, todo *Todo) (*Todo, error) {
	if todo.Title == "" {
		return nil, fmt.Errorf("title is required: %w", common.ErrorValidation)
	}
	return s.repo.Create(ctx, todo)
}

func (s *Service) List(ctx context.Context, userID int64) ([]*Todo, error) {
	return s.repo.ListForOwner(ctx, userID)
}

func (s *Service) ListPriority(ctx context.Context, userID int64) ([]*Todo, error) {
	return s.repo.ListPriority(ctx, userID)
}

func (s *Service) Update(ctx context.Context, todo *Todo) (*Todo, error) {
	if todo.Title == "" {
		return nil, fmt.Errorf("title is required: %w", common.ErrorValidation)
	}
	if _, err := s.repo.GetByIDAndOwner(ctx, todo.ID, todo.UserID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, todo)
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

// Reorder applies the caller-supplied complete ordering: the item at ids[i]
// gets position i. The batch is atomic; an empty list is a no-op and never
// opens a transaction.
func (s *Service) Reorder(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.Reorder(ctx, userID, ids)
}

func (s *Service) ListCategories(ctx context.Context, userID int64) ([]*Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

func (s *Service) CreateCategory(ctx context.Context, userID int64, name string) (*Category, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", common.ErrorValidation)
	}
	return s.repo.CreateCategory(ctx, &Category{UserID: userID, Name: name})
}

func (s *Service) DeleteCategory(ctx context.Context, id, userID int64) error {
	return s.repo.DeleteCategory(ctx, id, userID)
}
