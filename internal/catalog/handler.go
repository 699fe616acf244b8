package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

// Catalog is what the handlers need from the read side; satisfied by
// *Repository and by stubs in tests.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]domain.Product, int, error)
	GetShippingOption(ctx context.Context, id string) (*domain.ShippingOption, error)
	ListShippingOptions(ctx context.Context) ([]domain.ShippingOption, error)
	GetTaxOption(ctx context.Context, id string) (*domain.TaxOption, error)
	ListTaxOptions(ctx context.Context) ([]domain.TaxOption, error)
}

type Handler struct {
	catalog Catalog
	logger  *slog.Logger
}

func NewHandler(catalog Catalog, logger *slog.Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

type productPage struct {
	Count int              `json:"count"`
	Rows  []domain.Product `json:"rows"`
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	products, total, err := h.catalog.ListProducts(r.Context(), page, limit, search)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, productPage{Count: total, Rows: products})
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleListShippingOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalog.ListShippingOptions(r.Context())
	if err != nil {
		h.logger.Error("failed to list shipping options", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, options)
}

func (h *Handler) HandleGetShippingOption(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	option, err := h.catalog.GetShippingOption(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get shipping option", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if option == nil {
		h.writeError(w, http.StatusNotFound, "shipping option not found")
		return
	}

	h.writeJSON(w, http.StatusOK, option)
}

func (h *Handler) HandleListTaxOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalog.ListTaxOptions(r.Context())
	if err != nil {
		h.logger.Error("failed to list tax options", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, options)
}

func (h *Handler) HandleGetTaxOption(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	option, err := h.catalog.GetTaxOption(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get tax option", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if option == nil {
		h.writeError(w, http.StatusNotFound, "tax option not found")
		return
	}

	h.writeJSON(w, http.StatusOK, option)
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
