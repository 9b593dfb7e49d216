package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/forkline-pos/forkline/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// EmployeeContextKey carries the session claims of the signed-in employee
const EmployeeContextKey contextKey = "employee"

// Auth verifies workstation session tokens on protected routes
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), EmployeeContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmployeeID extracts the signed-in employee's id from the request context;
// zero when the route is unauthenticated.
func EmployeeID(r *http.Request) uint {
	claims, ok := r.Context().Value(EmployeeContextKey).(jwt.MapClaims)
	if !ok {
		return 0
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0
	}
	return uint(id)
}
