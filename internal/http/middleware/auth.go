package middleware

import (
	"context"
	"net/http"

	"github.com/rogerio-castellano/catalog-service/internal/auth"
	"github.com/sirupsen/logrus"
)

type contextKey string

const claimsKey = contextKey("claims")

// Authenticate requires a valid bearer token and stores its claims in the
// request context.
func Authenticate(secret []byte, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(secret, header)
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Debug("rejected bearer token")
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the authenticated claims
// carry role. It must run after Authenticate.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RoleFromContext(ctx context.Context) string {
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims.Role
	}
	return ""
}

func SubjectFromContext(ctx context.Context) string {
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims.Subject
	}
	return ""
}
