package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hkondo/secretbase/internal/common"
	"github.com/hkondo/secretbase/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const todoColumns = `t.id, t.user_id, t.title, t.description, t.priority, t.due_date,
	        t.todo_category_id, tc.name, t.is_completed, t.position, t.created_at, t.updated_at`

func scanTodo(row interface{ Scan(dest ...any) error }) (*Todo, error) {
	t := &Todo{}
	var (
		description  sql.NullString
		priority     sql.NullInt64
		dueDate      sql.NullTime
		categoryID   sql.NullInt64
		categoryName sql.NullString
		position     sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &priority, &dueDate,
		&categoryID, &categoryName, &t.IsCompleted, &position, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	if priority.Valid {
		p := int(priority.Int64)
		t.Priority = &p
	}
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	if categoryID.Valid {
		id := categoryID.Int64
		t.CategoryID = &id
	}
	if categoryName.Valid {
		n := categoryName.String
		t.CategoryName = &n
	}
	if position.Valid {
		p := int(position.Int64)
		t.Position = &p
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, todo *Todo) (*Todo, error) {

	query :=
		`INSERT INTO todos (user_id, title, description, priority, due_date, todo_category_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.UserID, todo.Title, todo.Description, todo.Priority, todo.DueDate, todo.CategoryID).
		Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("unknown category: %w", common.ErrorValidation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) ListForOwner(ctx context.Context, userID int64) ([]*Todo, error) {

	query := `SELECT ` + todoColumns + `
	     FROM todos t
	     LEFT JOIN todo_categories tc ON t.todo_category_id = tc.id
	     WHERE t.user_id = $1
	     ORDER BY t.position ASC NULLS LAST, t.created_at DESC`

	return r.queryTodos(ctx, query, userID)
}

// ListPriority returns the five most pressing incomplete items.
func (r *PostgresRepository) ListPriority(ctx context.Context, userID int64) ([]*Todo, error) {

	query := `SELECT ` + todoColumns + `
	     FROM todos t
	     LEFT JOIN todo_categories tc ON t.todo_category_id = tc.id
	     WHERE t.user_id = $1 AND t.is_completed = false
	     ORDER BY t.due_date ASC NULLS LAST, t.priority DESC NULLS LAST, t.created_at DESC
	     LIMIT 5`

	return r.queryTodos(ctx, query, userID)
}

func (r *PostgresRepository) queryTodos(ctx context.Context, query string, args ...any) ([]*Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	todos := []*Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todos, nil
}

func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, userID int64) (*Todo, error) {

	query := `SELECT ` + todoColumns + `
	     FROM todos t
	     LEFT JOIN todo_categories tc ON t.todo_category_id = tc.id
	     WHERE t.id = $1 AND t.user_id = $2`

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, todo *Todo) (*Todo, error) {

	query :=
		`UPDATE todos
		 SET title = $1, description = $2, priority = $3, due_date = $4,
		     todo_category_id = $5, is_completed = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7 AND user_id = $8
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Priority, todo.DueDate,
		todo.CategoryID, todo.IsCompleted, todo.ID, todo.UserID).
		Scan(&todo.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("unknown category: %w", common.ErrorValidation)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) error {

	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
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

// Reorder assigns position i to the item at ids[i], scoped to userID, inside
// a single transaction. Any failure rolls back every assignment of the call.
// An id not owned by userID simply matches no row; that is not an error.
func (r *PostgresRepository) Reorder(ctx context.Context, userID int64, ids []int64) error {

	query := `UPDATE todos SET position = $1 WHERE id = $2 AND user_id = $3`

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i, id := range ids {
			if _, err := tx.ExecContext(ctx, query, i, id, userID); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) ListCategories(ctx context.Context, userID int64) ([]*Category, error) {

	query := `SELECT id, user_id, name FROM todo_categories WHERE user_id = $1 ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *Category) (*Category, error) {

	query :=
		`INSERT INTO todo_categories (user_id, name)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, category.UserID, category.Name).Scan(&category.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id, userID int64) error {

	query := `DELETE FROM todo_categories WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
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
