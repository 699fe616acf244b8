package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Charge(t *testing.T) {
	t.Run("successful charge", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/charges" {
				t.Errorf("expected /charges, got %s", r.URL.Path)
			}
			if r.Header.Get(IdempotencyKeyHeader) != "order-123" {
				t.Errorf("expected idempotency key order-123, got %s", r.Header.Get(IdempotencyKeyHeader))
			}

			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if _, ok := req["IdempotencyKey"]; ok {
				t.Error("idempotency key must travel in the header, not the body")
			}
			if req["amount"] != float64(2650) {
				t.Errorf("expected amount 2650, got %v", req["amount"])
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"charge_id":"ch_1","amount":2650,"currency":"usd","paid":true}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		charge, err := client.Charge(context.Background(), ChargeRequest{
			Amount:         2650,
			Currency:       "usd",
			Token:          "tok_visa",
			IdempotencyKey: "order-123",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if charge.ChargeID != "ch_1" {
			t.Errorf("expected charge id ch_1, got %s", charge.ChargeID)
		}
		if !charge.Paid {
			t.Error("expected charge to be paid")
		}
	})

	t.Run("decline decodes into GatewayError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"code":"card_declined","message":"Your card was declined.","param":"token"}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		_, err := client.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "usd", Token: "tok_declined"})

		var gwErr *GatewayError
		if !errors.As(err, &gwErr) {
			t.Fatalf("expected GatewayError, got %v", err)
		}
		if gwErr.StatusCode != http.StatusPaymentRequired {
			t.Errorf("expected status 402, got %d", gwErr.StatusCode)
		}
		if gwErr.Code != "card_declined" {
			t.Errorf("expected code card_declined, got %s", gwErr.Code)
		}
		if gwErr.Message != "Your card was declined." {
			t.Errorf("unexpected message: %s", gwErr.Message)
		}
	})

	t.Run("server error maps to ErrGatewayUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		_, err := client.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "usd", Token: "tok_visa"})

		if !errors.Is(err, ErrGatewayUnavailable) {
			t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
		}
	})

	t.Run("network failure maps to ErrGatewayUnavailable", func(t *testing.T) {
		client := NewClient("http://localhost:1", &http.Client{})
		_, err := client.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "usd", Token: "tok_visa"})

		if !errors.Is(err, ErrGatewayUnavailable) {
			t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
		}
	})
}
