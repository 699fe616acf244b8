package checkout

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/shopflow/internal/auth"
	"github.com/joao-fontenele/shopflow/internal/payment"
)

func newTestHandler(t *testing.T) (*Handler, *fixture) {
	t.Helper()
	f := newFixture(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(f.service, logger), f
}

func authedRequest(method, target, body, customerID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(auth.WithCustomerID(context.Background(), customerID))
}

func decodeFieldError(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var resp struct {
		Error map[string]any `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

func TestHandler_HandleCreateOrder(t *testing.T) {
	t.Run("creates an unpaid order", func(t *testing.T) {
		handler, f := newTestHandler(t)
		f.fillCart(t, "cart-1")

		req := authedRequest(http.MethodPost, "/orders",
			`{"cart_id":"cart-1","shipping_option_id":"ship-1","tax_option_id":"tax-1"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var order struct {
			ID     string `json:"id"`
			Total  int64  `json:"total"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.ID == "" {
			t.Error("expected an order id")
		}
		if order.Total != 2650 {
			t.Errorf("expected total 2650, got %d", order.Total)
		}
		if order.Status != "unpaid" {
			t.Errorf("expected status unpaid, got %s", order.Status)
		}
	})

	t.Run("missing cart_id", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		req := authedRequest(http.MethodPost, "/orders",
			`{"shipping_option_id":"ship-1","tax_option_id":"tax-1"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errBody := decodeFieldError(t, rec.Body.Bytes())
		if errBody["code"] != "ORD_02" {
			t.Errorf("expected code ORD_02, got %v", errBody["code"])
		}
		if errBody["field"] != "cart_id" {
			t.Errorf("expected field cart_id, got %v", errBody["field"])
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		req := authedRequest(http.MethodPost, "/orders",
			`{"cart_id":"no-such-cart","shipping_option_id":"ship-1","tax_option_id":"tax-1"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errBody := decodeFieldError(t, rec.Body.Bytes())
		if errBody["code"] != "ORD_03" {
			t.Errorf("expected code ORD_03, got %v", errBody["code"])
		}
	})

	t.Run("unknown shipping option", func(t *testing.T) {
		handler, f := newTestHandler(t)
		f.fillCart(t, "cart-1")

		req := authedRequest(http.MethodPost, "/orders",
			`{"cart_id":"cart-1","shipping_option_id":"ship-bogus","tax_option_id":"tax-1"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errBody := decodeFieldError(t, rec.Body.Bytes())
		if errBody["code"] != "ORD_04" {
			t.Errorf("expected code ORD_04, got %v", errBody["code"])
		}
		if errBody["field"] != "shipping_option_id" {
			t.Errorf("expected field shipping_option_id, got %v", errBody["field"])
		}
	})
}

func TestHandler_HandleCharge(t *testing.T) {
	t.Run("successful payment", func(t *testing.T) {
		handler, f := newTestHandler(t)
		order := f.createOrder(t)

		req := authedRequest(http.MethodPost, "/orders/charge",
			`{"order_id":"`+order.ID+`","payment_token":"tok_visa"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCharge(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Message  string `json:"message"`
			ChargeID string `json:"charge_id"`
			Order    struct {
				Status string `json:"status"`
			} `json:"order"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Message != "Payment successful!" {
			t.Errorf("unexpected message: %s", resp.Message)
		}
		if resp.ChargeID == "" {
			t.Error("expected a charge id")
		}
		if resp.Order.Status != "paid" {
			t.Errorf("expected order status paid, got %s", resp.Order.Status)
		}
	})

	t.Run("already paid order returns 409 ORD_01", func(t *testing.T) {
		handler, f := newTestHandler(t)
		order := f.createOrder(t)

		body := `{"order_id":"` + order.ID + `","payment_token":"tok_visa"}`

		first := httptest.NewRecorder()
		handler.HandleCharge(first, authedRequest(http.MethodPost, "/orders/charge", body, "cust-1"))
		if first.Code != http.StatusOK {
			t.Fatalf("expected first charge to succeed, got %d", first.Code)
		}

		second := httptest.NewRecorder()
		handler.HandleCharge(second, authedRequest(http.MethodPost, "/orders/charge", body, "cust-1"))

		if second.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", second.Code)
		}
		errBody := decodeFieldError(t, second.Body.Bytes())
		if errBody["code"] != "ORD_01" {
			t.Errorf("expected code ORD_01, got %v", errBody["code"])
		}
		if errBody["message"] != "Payment has been made for this order" {
			t.Errorf("unexpected message: %v", errBody["message"])
		}
	})

	t.Run("declined card passes the gateway error through", func(t *testing.T) {
		handler, f := newTestHandler(t)
		order := f.createOrder(t)
		f.gateway.err = &payment.GatewayError{StatusCode: 402, Code: "card_declined", Message: "Your card was declined.", Param: "token"}

		req := authedRequest(http.MethodPost, "/orders/charge",
			`{"order_id":"`+order.ID+`","payment_token":"tok_declined"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCharge(rec, req)

		if rec.Code != http.StatusPaymentRequired {
			t.Fatalf("expected status 402, got %d", rec.Code)
		}
		errBody := decodeFieldError(t, rec.Body.Bytes())
		if errBody["code"] != "card_declined" {
			t.Errorf("expected code card_declined, got %v", errBody["code"])
		}
		if errBody["message"] != "Your card was declined." {
			t.Errorf("unexpected message: %v", errBody["message"])
		}
	})

	t.Run("gateway outage returns 502", func(t *testing.T) {
		handler, f := newTestHandler(t)
		order := f.createOrder(t)
		f.gateway.err = payment.ErrGatewayUnavailable

		req := authedRequest(http.MethodPost, "/orders/charge",
			`{"order_id":"`+order.ID+`","payment_token":"tok_visa"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCharge(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected status 502, got %d", rec.Code)
		}
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		req := authedRequest(http.MethodPost, "/orders/charge",
			`{"order_id":"no-such-order","payment_token":"tok_visa"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCharge(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("missing payment_token", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		req := authedRequest(http.MethodPost, "/orders/charge", `{"order_id":"some-order"}`, "cust-1")
		rec := httptest.NewRecorder()

		handler.HandleCharge(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errBody := decodeFieldError(t, rec.Body.Bytes())
		if errBody["field"] != "payment_token" {
			t.Errorf("expected field payment_token, got %v", errBody["field"])
		}
	})
}
