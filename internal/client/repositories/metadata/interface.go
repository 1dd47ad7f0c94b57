// Package metadata provides a small durable key/value store backed by the
// client's local sqlite database. The session layer keeps its token and
// identity snapshot here so that state survives restarts.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
