package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

type stubCatalog struct {
	products []domain.Product
	shipping []domain.ShippingOption
	tax      []domain.TaxOption
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, nil
}

func (s *stubCatalog) ListProducts(_ context.Context, page, limit int, search string) ([]domain.Product, int, error) {
	var matched []domain.Product
	for _, p := range s.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			matched = append(matched, p)
		}
	}
	return matched, len(matched), nil
}

func (s *stubCatalog) GetShippingOption(_ context.Context, id string) (*domain.ShippingOption, error) {
	for i := range s.shipping {
		if s.shipping[i].ID == id {
			return &s.shipping[i], nil
		}
	}
	return nil, nil
}

func (s *stubCatalog) ListShippingOptions(_ context.Context) ([]domain.ShippingOption, error) {
	return s.shipping, nil
}

func (s *stubCatalog) GetTaxOption(_ context.Context, id string) (*domain.TaxOption, error) {
	for i := range s.tax {
		if s.tax[i].ID == id {
			return &s.tax[i], nil
		}
	}
	return nil, nil
}

func (s *stubCatalog) ListTaxOptions(_ context.Context) ([]domain.TaxOption, error) {
	return s.tax, nil
}

func newTestHandler() *Handler {
	catalog := &stubCatalog{
		products: []domain.Product{
			{ID: "prod-1", Name: "Arc d'Triomphe", Price: 1499},
			{ID: "prod-2", Name: "Chartres Cathedral", Price: 1699, DiscountedPrice: 1595},
		},
		shipping: []domain.ShippingOption{
			{ID: "ship-1", Description: "Next Day Delivery", Cost: 2000},
		},
		tax: []domain.TaxOption{
			{ID: "tax-1", Name: "Sales Tax at 8.5%"},
		},
	}
	return NewHandler(catalog, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandler_HandleListProducts(t *testing.T) {
	t.Run("lists all products with a count", func(t *testing.T) {
		handler := newTestHandler()

		rec := httptest.NewRecorder()
		handler.HandleListProducts(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var page struct {
			Count int              `json:"count"`
			Rows  []domain.Product `json:"rows"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if page.Count != 2 || len(page.Rows) != 2 {
			t.Errorf("expected 2 products, got count=%d rows=%d", page.Count, len(page.Rows))
		}
	})

	t.Run("filters by search", func(t *testing.T) {
		handler := newTestHandler()

		rec := httptest.NewRecorder()
		handler.HandleListProducts(rec, httptest.NewRequest(http.MethodGet, "/products?search=chartres", nil))

		var page struct {
			Count int              `json:"count"`
			Rows  []domain.Product `json:"rows"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if page.Count != 1 || page.Rows[0].ID != "prod-2" {
			t.Errorf("unexpected result: %+v", page)
		}
	})
}

func TestHandler_HandleGetProduct(t *testing.T) {
	handler := newTestHandler()

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/prod-1", nil)
		req.SetPathValue("id", "prod-1")
		rec := httptest.NewRecorder()

		handler.HandleGetProduct(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/no-such-product", nil)
		req.SetPathValue("id", "no-such-product")
		rec := httptest.NewRecorder()

		handler.HandleGetProduct(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleShippingAndTaxOptions(t *testing.T) {
	handler := newTestHandler()

	t.Run("list shipping options", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleListShippingOptions(rec, httptest.NewRequest(http.MethodGet, "/shipping_options", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var options []domain.ShippingOption
		if err := json.Unmarshal(rec.Body.Bytes(), &options); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(options) != 1 {
			t.Errorf("expected 1 option, got %d", len(options))
		}
	})

	t.Run("unknown tax option", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tax_options/no-such-option", nil)
		req.SetPathValue("id", "no-such-option")
		rec := httptest.NewRecorder()

		handler.HandleGetTaxOption(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})
}
