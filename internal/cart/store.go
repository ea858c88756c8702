package cart

import (
	"context"

	"TrailStore/internal/shop"
)

// Store persists one cart snapshot per user. Each request loads the caller's
// snapshot, runs an engine operation, and saves the result back; nothing is
// shared across users.
type Store interface {
	Load(ctx context.Context, userID string) ([]shop.Line, error)
	Save(ctx context.Context, userID string, lines []shop.Line) error
	Ping(ctx context.Context) error
}
