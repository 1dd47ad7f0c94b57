package todos

import "context"

type Repository interface {
	Create(ctx context.Context, todo *Todo) (*Todo, error)
	ListForOwner(ctx context.Context, userID int64) ([]*Todo, error)
	ListPriority(ctx context.Context, userID int64) ([]*Todo, error)
	GetByIDAndOwner(ctx context.Context, id, userID int64) (*Todo, error)
	Update(ctx context.Context, todo *Todo) (*Todo, error)
	Delete(ctx context.Context, id, userID int64) error
	Reorder(ctx context.Context, userID int64, ids []int64) error

	ListCategories(ctx context.Context, userID int64) ([]*Category, error)
	CreateCategory(ctx context.Context, category *Category) (*Category, error)
	DeleteCategory(ctx context.Context, id, userID int64) error
}
