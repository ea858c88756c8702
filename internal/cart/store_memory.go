package cart

import (
	"context"
	"sync"

	"TrailStore/internal/shop"
)

type MemStore struct {
	mu     sync.RWMutex
	byUser map[string][]shop.Line
}

func NewMemStore() *MemStore {
	return &MemStore{byUser: make(map[string][]shop.Line)}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Load(ctx context.Context, userID string) ([]shop.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]shop.Line(nil), s.byUser[userID]...), nil
}

func (s *MemStore) Save(ctx context.Context, userID string, lines []shop.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		delete(s.byUser, userID)
		return nil
	}
	s.byUser[userID] = append([]shop.Line(nil), lines...)
	return nil
}
