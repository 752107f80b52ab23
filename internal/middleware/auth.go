// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/token"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier validates session tokens and returns their claims.
type TokenVerifier interface {
	Verify(raw string) (token.Claims, error)
}

// UserResolver re-resolves a session's user id against the user directory.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID string) (*models.User, error)
}

// Rejecter writes an unauthorized response with the given message. The
// handler package supplies the JSON envelope writer.
type Rejecter func(w http.ResponseWriter, message string)

// Auth enforces bearer-token authentication on every request it wraps.
//
// The Authorization header must be exactly "Bearer <token>"; any other
// scheme is rejected. The session token is verified, and the user is
// re-resolved from the directory on every call so deleted users cannot act
// on stale tokens. On success the user is stored in the request context.
func Auth(verifier TokenVerifier, users UserResolver, reject Rejecter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, msg := authenticate(r, verifier, users)
			if user == nil {
				reject(w, msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth attempts authentication but proceeds without a resolved user
// on any failure. Used only for non-sensitive reads.
func OptionalAuth(verifier TokenVerifier, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, _ := authenticate(r, verifier, users); user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authenticate parses the bearer header, verifies the token, and resolves
// the user. A nil user means rejection with the returned message.
func authenticate(r *http.Request, verifier TokenVerifier, users UserResolver) (*models.User, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, "Access denied. No token provided."
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, "Invalid token format. Use: Bearer <token>"
	}
	if raw == "" {
		return nil, "Access denied. No token provided."
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, "Token has expired. Please login again."
		}
		return nil, "Invalid token. Please login again."
	}

	user, err := users.ResolveUser(r.Context(), claims.UserID)
	if err != nil {
		return nil, "User not found. Invalid token."
	}

	return user, ""
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if the request was not authenticated.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
