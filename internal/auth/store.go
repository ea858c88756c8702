package auth

import (
	"context"
	"errors"
)

var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       string
	Username string
	Hash     []byte
	Role     string
}

type UserStore interface {
	Create(ctx context.Context, username, password, role, id string) error
	Verify(ctx context.Context, username, password string) (User, error)
	Ping(ctx context.Context) error
}
