package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey struct{}

var customerIDKey contextKey

// CustomerID returns the authenticated customer id stored by Middleware, or
// "" when the request was not authenticated.
func CustomerID(ctx context.Context) string {
	id, _ := ctx.Value(customerIDKey).(string)
	return id
}

// WithCustomerID is for tests that need an authenticated context without
// going through the middleware.
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, customerIDKey, customerID)
}

// Middleware resolves the Authorization bearer credential to a customer id
// and rejects requests that do not carry a valid one.
func Middleware(tokens *Tokens) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, "AUT_01", "Authorization code is empty.")
				return
			}

			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			customerID, err := tokens.Verify(raw)
			if err != nil {
				writeAuthError(w, "AUT_02", "Access Unauthorized.")
				return
			}

			next(w, r.WithContext(WithCustomerID(r.Context(), customerID)))
		}
	}
}

func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"status":  http.StatusUnauthorized,
			"code":    code,
			"message": message,
		},
	})
}
