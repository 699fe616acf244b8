// Package paygate is a stand-in payment gateway for local development and
// tests. It honors idempotency keys the way a real provider does: replaying
// a key returns the original charge without billing again. Magic tokens
// drive failure paths:
//
//	tok_declined  card_declined (402)
//	tok_expired   expired_card (402)
//	tok_error     internal provider error (503)
//
// Any other token charges successfully.
package paygate

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Charge struct {
	ID        string            `json:"charge_id"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Paid      bool              `json:"paid"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type Handler struct {
	logger *slog.Logger

	mu      sync.Mutex
	charges []Charge
	byKey   map[string]Charge
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		byKey:  make(map[string]Charge),
	}
}

type chargeRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Token    string            `json:"token"`
	Metadata map[string]string `json:"metadata"`
}

func (h *Handler) HandleCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDecline(w, http.StatusBadRequest, "invalid_request", "request body could not be parsed", "")
		return
	}

	if req.Amount <= 0 {
		h.writeDecline(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive integer in minor units", "amount")
		return
	}
	if req.Token == "" {
		h.writeDecline(w, http.StatusBadRequest, "missing_token", "a payment token is required", "token")
		return
	}

	switch req.Token {
	case "tok_declined":
		h.writeDecline(w, http.StatusPaymentRequired, "card_declined", "Your card was declined.", "token")
		return
	case "tok_expired":
		h.writeDecline(w, http.StatusPaymentRequired, "expired_card", "Your card has expired.", "token")
		return
	case "tok_error":
		h.writeError(w, http.StatusServiceUnavailable, "provider temporarily unavailable")
		return
	}

	key := r.Header.Get("Idempotency-Key")

	h.mu.Lock()
	defer h.mu.Unlock()

	if key != "" {
		if prior, ok := h.byKey[key]; ok {
			h.logger.Info("idempotency key replayed", "key", key, "charge_id", prior.ID)
			h.writeJSON(w, http.StatusOK, prior)
			return
		}
	}

	charge := Charge{
		ID:        "ch_" + uuid.New().String(),
		Amount:    req.Amount,
		Currency:  req.Currency,
		Paid:      true,
		Metadata:  req.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	h.charges = append(h.charges, charge)
	if key != "" {
		h.byKey[key] = charge
	}

	h.logger.Info("charge created", "charge_id", charge.ID, "amount", charge.Amount)
	h.writeJSON(w, http.StatusCreated, charge)
}

func (h *Handler) HandleListCharges(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	charges := append([]Charge{}, h.charges...)
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, charges)
}

// ChargeCount reports how many real (non-replayed) charges were made.
func (h *Handler) ChargeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.charges)
}

func (h *Handler) writeDecline(w http.ResponseWriter, status int, code, message, param string) {
	h.writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
			"param":   param,
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
