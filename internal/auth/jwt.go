// Package auth verifies admin bearer tokens for the back-office routes.
// Token issuance lives in the admin backend; this service only checks
// signatures and extracts the acting admin's ID.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const actorKey contextKey = "auth.actor"

// Middleware rejects requests without a valid HS256 bearer token and
// puts the admin's ID from the "sub" claim into the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID, err := verify(secret, r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithActor returns a context carrying the given admin ID, the same way
// Middleware does after verifying a token.
func WithActor(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, id)
}

// ActorID returns the authenticated admin's ID, if any.
func ActorID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey).(uuid.UUID)
	return id, ok
}

func verify(secret, header string) (uuid.UUID, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return uuid.Nil, fmt.Errorf("auth: missing bearer token")
	}
	tokenStr := strings.TrimPrefix(header, prefix)

	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("auth: unexpected claims type")
	}
	sub, _ := claims["sub"].(string)
	actorID, err := uuid.FromString(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth: sub claim is not a valid id: %w", err)
	}

	return actorID, nil
}
