package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware(t *testing.T) {
	tokens := NewTokens("test-secret")
	authed := Middleware(tokens)

	var gotCustomerID string
	protected := authed(func(w http.ResponseWriter, r *http.Request) {
		gotCustomerID = CustomerID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	authCode := func(t *testing.T, body []byte) string {
		t.Helper()
		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return resp.Error.Code
	}

	t.Run("valid bearer token", func(t *testing.T) {
		raw, err := tokens.Issue("cust-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/customer", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()

		protected(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if gotCustomerID != "cust-1" {
			t.Errorf("expected cust-1 in context, got %s", gotCustomerID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customer", nil)
		rec := httptest.NewRecorder()

		protected(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		if code := authCode(t, rec.Body.Bytes()); code != "AUT_01" {
			t.Errorf("expected code AUT_01, got %s", code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customer", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		protected(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		if code := authCode(t, rec.Body.Bytes()); code != "AUT_02" {
			t.Errorf("expected code AUT_02, got %s", code)
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		raw, err := NewTokens("different-secret").Issue("cust-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/customer", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()

		protected(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})
}
