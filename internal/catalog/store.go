package catalog

import (
	"context"

	"TrailStore/internal/shop"
)

// Store is the catalog persistence contract. ApplyCheckout is the one
// operation with a hard atomicity requirement: validate every line against
// current stock and decrement, as a single unit, so two concurrent checkouts
// cannot both pass validation against the same stock.
type Store interface {
	List(ctx context.Context) ([]shop.Product, error)
	Get(ctx context.Context, id string) (shop.Product, bool, error)
	Upsert(ctx context.Context, in shop.UpsertInput) (shop.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	Replace(ctx context.Context, products []shop.Product) error
	ApplyCheckout(ctx context.Context, lines []shop.Line) error
	Ping(ctx context.Context) error
}
