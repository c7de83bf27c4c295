package middleware

import (
	"context"
	"net/http"
	"strings"

	"ration-shop-go/internal/security"
	"ration-shop-go/pkg/logger"
)

type adminContextKey struct{}

type AdminAuth struct {
	secret string
	log    logger.Logger
}

func NewAdminAuth(secret string, log logger.Logger) *AdminAuth {
	return &AdminAuth{secret: secret, log: log}
}

// Middleware requires a valid admin bearer token and stores the username in
// the request context.
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeAuthError(w, "missing bearer token")
			return
		}

		claims, err := security.ParseAdminToken(a.secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			a.log.Warn("adminauth: token rejected", "error", err.Error())
			writeAuthError(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), adminContextKey{}, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminFromContext returns the authenticated admin username.
func AdminFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(adminContextKey{}).(string)
	return username, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"` + message + `"}}`))
}
