package todos

import (
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func sqlmockTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}
