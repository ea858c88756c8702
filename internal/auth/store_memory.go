package auth

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type MemStore struct {
	mu     sync.RWMutex
	byName map[string]User
}

func NewMemStore() *MemStore {
	return &MemStore{byName: make(map[string]User)}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Create(ctx context.Context, username, password, role, id string) error {
	username = normalizeUsername(username)
	password = strings.TrimSpace(password)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[username]; ok {
		return ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.byName[username] = User{ID: id, Username: username, Hash: hash, Role: role}
	return nil
}

func (s *MemStore) Verify(ctx context.Context, username, password string) (User, error) {
	username = normalizeUsername(username)

	s.mu.RLock()
	u, ok := s.byName[username]
	s.mu.RUnlock()

	if !ok {
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(strings.TrimSpace(password))); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
