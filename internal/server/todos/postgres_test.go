package todos

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hkondo/secretbase/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const reorderQ = `(?s)^UPDATE\s+todos\s+SET\s+position\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+AND\s+user_id\s*=\s*\$3\s*$`

func TestReorder_AssignsDensePositionsInInputOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	owner := int64(1)

	mock.ExpectBegin()
	mock.ExpectExec(reorderQ).WithArgs(0, int64(9), owner).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(reorderQ).WithArgs(1, int64(7), owner).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(reorderQ).WithArgs(2, int64(3), owner).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Reorder(context.Background(), owner, []int64{9, 7, 3}); err != nil {
		t.Fatalf("Reorder error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReorder_RollsBackWholeBatchOnFailure(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	owner := int64(1)

	// The K-th assignment fails: nothing before it may survive.
	mock.ExpectBegin()
	mock.ExpectExec(reorderQ).WithArgs(0, int64(9), owner).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(reorderQ).WithArgs(1, int64(7), owner).WillReturnError(errors.New("storage fault"))
	mock.ExpectRollback()

	err := repo.Reorder(context.Background(), owner, []int64{9, 7, 3})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("rollback not observed: %v", err)
	}
}

func TestReorder_ForeignIDMatchesNothingAndStillCommits(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	owner := int64(1)

	// id 55 belongs to another owner: zero rows affected, not an error.
	mock.ExpectBegin()
	mock.ExpectExec(reorderQ).WithArgs(0, int64(55), owner).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(reorderQ).WithArgs(1, int64(7), owner).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Reorder(context.Background(), owner, []int64{55, 7}); err != nil {
		t.Fatalf("Reorder error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReorder_DuplicateIDLastOccurrenceWins(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	owner := int64(1)

	// Assignments are absolute sets applied in order, so the second
	// occurrence of id 7 overwrites the first.
	mock.ExpectBegin()
	mock.ExpectExec(reorderQ).WithArgs(0, int64(7), owner).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(reorderQ).WithArgs(1, int64(3), owner).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(reorderQ).WithArgs(2, int64(7), owner).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Reorder(context.Background(), owner, []int64{7, 3, 7}); err != nil {
		t.Fatalf("Reorder error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListForOwner_OrdersByPositionThenRecency(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)ORDER\s+BY\s+t\.position\s+ASC\s+NULLS\s+LAST,\s*t\.created_at\s+DESC`

	cols := []string{"id", "user_id", "title", "description", "priority", "due_date",
		"todo_category_id", "name", "is_completed", "position", "created_at", "updated_at"}
	now := sqlmockTime()
	rows := sqlmock.NewRows(cols).
		AddRow(int64(9), int64(1), "first", nil, nil, nil, nil, nil, false, 0, now, now).
		AddRow(int64(7), int64(1), "second", nil, nil, nil, nil, nil, false, 1, now, now).
		AddRow(int64(3), int64(1), "third", nil, nil, nil, nil, nil, false, 2, now, now)

	mock.ExpectQuery(q).WithArgs(int64(1)).WillReturnRows(rows)

	got, err := repo.ListForOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForOwner error: %v", err)
	}
	wantIDs := []int64{9, 7, 3}
	for i, todo := range got {
		if todo.ID != wantIDs[i] {
			t.Fatalf("order mismatch at %d: got %d want %d", i, todo.ID, wantIDs[i])
		}
		if todo.Position == nil || *todo.Position != i {
			t.Fatalf("position mismatch at %d: %+v", i, todo.Position)
		}
	}
}

func TestDelete_NotOwnedIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+todos`).
		WithArgs(int64(3), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 3, 2)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestCreateCategory_DuplicateIsConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+todo_categories`).
		WithArgs(int64(1), "work").
		WillReturnError(uniqueViolation())

	_, err := repo.CreateCategory(context.Background(), &Category{UserID: 1, Name: "work"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("expected common.ErrorConflict, got %v", err)
	}
}
