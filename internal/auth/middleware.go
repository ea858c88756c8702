package auth

import (
	"context"
	"net/http"
	"strings"

	"TrailStore/pkg/kit"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the authenticated caller as established by RequireUser.
type Identity struct {
	ID       string
	Username string
	Role     string
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// RequireUser rejects requests without a valid bearer token and stores the
// caller's identity on the request context.
func RequireUser(jwt *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseBearer(jwt, r)
			if !ok {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin additionally demands the admin role. The engine itself never
// checks credentials; this is the caller-side gate in front of it.
func RequireAdmin(jwt *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := parseBearer(jwt, r)
			if !ok {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}
			if id.Role != RoleAdmin {
				kit.WriteError(w, r, http.StatusForbidden, "admin only", nil)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseBearer(jwt *TokenMaker, r *http.Request) (Identity, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return Identity{}, false
	}

	claims, err := jwt.Parse(strings.TrimPrefix(authz, "Bearer "))
	if err != nil || claims.UserID == "" {
		return Identity{}, false
	}

	return Identity{ID: claims.UserID, Username: claims.Username, Role: claims.Role}, true
}
