package paygate

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func postCharge(handler *Handler, body, idempotencyKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/charges", strings.NewReader(body))
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	rec := httptest.NewRecorder()
	handler.HandleCharge(rec, req)
	return rec
}

func TestHandler_HandleCharge(t *testing.T) {
	t.Run("creates a charge", func(t *testing.T) {
		handler := newTestHandler()

		rec := postCharge(handler, `{"amount":2650,"currency":"usd","token":"tok_visa"}`, "")

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var charge Charge
		if err := json.Unmarshal(rec.Body.Bytes(), &charge); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if charge.ID == "" {
			t.Error("expected a charge id")
		}
		if charge.Amount != 2650 {
			t.Errorf("expected amount 2650, got %d", charge.Amount)
		}
		if !charge.Paid {
			t.Error("expected charge to be paid")
		}
		if handler.ChargeCount() != 1 {
			t.Errorf("expected 1 charge, got %d", handler.ChargeCount())
		}
	})

	t.Run("replays an idempotency key without charging again", func(t *testing.T) {
		handler := newTestHandler()
		body := `{"amount":2650,"currency":"usd","token":"tok_visa"}`

		first := postCharge(handler, body, "order-1")
		if first.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", first.Code)
		}
		second := postCharge(handler, body, "order-1")
		if second.Code != http.StatusOK {
			t.Fatalf("expected replay status 200, got %d", second.Code)
		}

		var a, b Charge
		if err := json.Unmarshal(first.Body.Bytes(), &a); err != nil {
			t.Fatalf("failed to decode first response: %v", err)
		}
		if err := json.Unmarshal(second.Body.Bytes(), &b); err != nil {
			t.Fatalf("failed to decode second response: %v", err)
		}
		if a.ID != b.ID {
			t.Errorf("expected the same charge id, got %s and %s", a.ID, b.ID)
		}
		if handler.ChargeCount() != 1 {
			t.Errorf("expected exactly 1 charge, got %d", handler.ChargeCount())
		}
	})

	t.Run("different keys charge separately", func(t *testing.T) {
		handler := newTestHandler()
		body := `{"amount":100,"currency":"usd","token":"tok_visa"}`

		postCharge(handler, body, "order-1")
		postCharge(handler, body, "order-2")

		if handler.ChargeCount() != 2 {
			t.Errorf("expected 2 charges, got %d", handler.ChargeCount())
		}
	})

	t.Run("tok_declined", func(t *testing.T) {
		handler := newTestHandler()

		rec := postCharge(handler, `{"amount":100,"currency":"usd","token":"tok_declined"}`, "order-1")

		if rec.Code != http.StatusPaymentRequired {
			t.Fatalf("expected status 402, got %d", rec.Code)
		}

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Error.Code != "card_declined" {
			t.Errorf("expected code card_declined, got %s", resp.Error.Code)
		}
		if handler.ChargeCount() != 0 {
			t.Errorf("expected no charges, got %d", handler.ChargeCount())
		}
	})

	t.Run("tok_error", func(t *testing.T) {
		handler := newTestHandler()

		rec := postCharge(handler, `{"amount":100,"currency":"usd","token":"tok_error"}`, "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d", rec.Code)
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		handler := newTestHandler()

		rec := postCharge(handler, `{"amount":0,"currency":"usd","token":"tok_visa"}`, "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}
