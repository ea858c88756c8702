package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"TrailStore/internal/shop"
)

// MemStore keeps the catalog as an ordered slice behind a mutex. All engine
// operations run under the lock, so validate-and-decrement is atomic within
// the process.
type MemStore struct {
	mu       sync.RWMutex
	products []shop.Product
}

func NewMemStore() *MemStore {
	return &MemStore{products: shop.DefaultCatalog()}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]shop.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]shop.Product(nil), s.products...), nil
}

func (s *MemStore) Get(ctx context.Context, id string) (shop.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := shop.FindByID(s.products, id)
	return p, ok, nil
}

func (s *MemStore) Upsert(ctx context.Context, in shop.UpsertInput) (shop.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, p, err := shop.Upsert(s.products, in, newProductID)
	if err != nil {
		return shop.Product{}, err
	}
	s.products = updated
	return p, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, found := shop.Delete(s.products, id)
	s.products = updated
	return found, nil
}

func (s *MemStore) Replace(ctx context.Context, products []shop.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append([]shop.Product(nil), products...)
	return nil
}

func (s *MemStore) ApplyCheckout(ctx context.Context, lines []shop.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, _, err := shop.Checkout(lines, s.products)
	if err != nil {
		return err
	}
	s.products = updated
	return nil
}

func newProductID() string {
	return "p_" + uuid.NewString()
}
