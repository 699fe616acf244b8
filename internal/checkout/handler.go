package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/shopflow/internal/auth"
	"github.com/joao-fontenele/shopflow/internal/domain"
	"github.com/joao-fontenele/shopflow/internal/payment"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type createOrderRequest struct {
	CartID           string `json:"cart_id"`
	ShippingOptionID string `json:"shipping_option_id"`
	TaxOptionID      string `json:"tax_option_id"`
}

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CartID == "" {
		h.writeFieldError(w, http.StatusBadRequest, "ORD_02", "cart_id is required", "cart_id")
		return
	}
	if req.ShippingOptionID == "" {
		h.writeFieldError(w, http.StatusBadRequest, "ORD_02", "shipping_option_id is required", "shipping_option_id")
		return
	}
	if req.TaxOptionID == "" {
		h.writeFieldError(w, http.StatusBadRequest, "ORD_02", "tax_option_id is required", "tax_option_id")
		return
	}

	customerID := auth.CustomerID(r.Context())

	order, err := h.service.CreateOrder(r.Context(), customerID, req.CartID, req.ShippingOptionID, req.TaxOptionID)
	if err != nil {
		var refErr *InvalidReferenceError
		switch {
		case errors.Is(err, ErrCartEmpty):
			h.writeFieldError(w, http.StatusBadRequest, "ORD_03", "cart is empty", "cart_id")
		case errors.As(err, &refErr):
			h.writeFieldError(w, http.StatusBadRequest, "ORD_04", refErr.Error(), refErr.Field)
		default:
			h.logger.Error("failed to create order", "error", err, "cart_id", req.CartID)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

type chargeRequest struct {
	OrderID      string `json:"order_id"`
	PaymentToken string `json:"payment_token"`
	Description  string `json:"description"`
}

type chargeResponse struct {
	Message  string        `json:"message"`
	ChargeID string        `json:"charge_id"`
	Order    *domain.Order `json:"order"`
}

func (h *Handler) HandleCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.OrderID == "" {
		h.writeFieldError(w, http.StatusBadRequest, "ORD_02", "order_id is required", "order_id")
		return
	}
	if req.PaymentToken == "" {
		h.writeFieldError(w, http.StatusBadRequest, "ORD_02", "payment_token is required", "payment_token")
		return
	}

	customerID := auth.CustomerID(r.Context())

	result, err := h.service.Charge(r.Context(), customerID, req.OrderID, req.PaymentToken, req.Description)
	if err != nil {
		h.writeChargeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, chargeResponse{
		Message:  "Payment successful!",
		ChargeID: result.ChargeID,
		Order:    result.Order,
	})
}

func (h *Handler) writeChargeError(w http.ResponseWriter, err error) {
	var gwErr *payment.GatewayError
	switch {
	case errors.Is(err, ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, ErrAlreadyPaid):
		// Final state, not retriable.
		h.writeFieldError(w, http.StatusConflict, "ORD_01", "Payment has been made for this order", "order_id")
	case errors.As(err, &gwErr):
		// The provider's code/message/param are user-actionable; pass them
		// through untouched.
		h.writeJSON(w, http.StatusPaymentRequired, map[string]any{"error": gwErr})
	case errors.Is(err, payment.ErrGatewayUnavailable):
		h.writeError(w, http.StatusBadGateway, "payment gateway unavailable, please retry")
	default:
		h.logger.Error("charge failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
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

func (h *Handler) writeFieldError(w http.ResponseWriter, status int, code, message, field string) {
	h.writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"status":  status,
			"code":    code,
			"message": message,
			"field":   field,
		},
	})
}
