package plans

import (
	"context"
	"sync"
)

type MemStore struct {
	mu     sync.RWMutex
	byUser map[string][]Plan
}

func NewMemStore() *MemStore {
	return &MemStore{byUser: make(map[string][]Plan)}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context, userID, difficulty string) ([]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.byUser[userID]
	out := make([]Plan, 0, len(all))
	for _, p := range all {
		if difficulty != "" && p.Difficulty != difficulty {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *MemStore) Create(ctx context.Context, p Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser[p.UserID] = append(s.byUser[p.UserID], p)
	return nil
}

func (s *MemStore) Update(ctx context.Context, p Plan) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byUser[p.UserID]
	for i := range list {
		if list[i].ID == p.ID {
			p.CreatedAt = list[i].CreatedAt
			list[i] = p
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.byUser[userID]
	for i := range list {
		if list[i].ID == id {
			s.byUser[userID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byUser, userID)
	return nil
}
