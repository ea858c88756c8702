package plans

import "context"

// Store persists plans per user. List preserves creation order; an empty
// difficulty returns everything.
type Store interface {
	List(ctx context.Context, userID, difficulty string) ([]Plan, error)
	Create(ctx context.Context, p Plan) error
	Update(ctx context.Context, p Plan) (bool, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	Clear(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
}
