package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

type productCatalog interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type Handler struct {
	store    Store
	cache    Cache
	products productCatalog
	logger   *slog.Logger
}

// NewHandler wires the cart endpoints. cache may be nil, in which case every
// read goes to the store.
func NewHandler(store Store, cache Cache, products productCatalog, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		cache:    cache,
		products: products,
		logger:   logger,
	}
}

// HandleGenerateID hands out a fresh cart identifier. The cart itself is
// created implicitly by the first item write.
func (h *Handler) HandleGenerateID(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"cart_id": uuid.New().String()})
}

type addItemRequest struct {
	CartID     string `json:"cart_id"`
	ProductID  string `json:"product_id"`
	Attributes string `json:"attributes"`
	Quantity   int    `json:"quantity"`
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CartID == "" {
		h.writeFieldError(w, "CRT_01", "cart_id is required", "cart_id")
		return
	}
	if req.ProductID == "" {
		h.writeFieldError(w, "CRT_01", "product_id is required", "product_id")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		h.writeFieldError(w, "CRT_02", "quantity must be a positive integer", "quantity")
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		h.logger.Error("failed to look up product", "error", err, "product_id", req.ProductID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	if _, err := h.store.AddItem(r.Context(), req.CartID, req.ProductID, req.Attributes, req.Quantity, product.EffectivePrice()); err != nil {
		h.logger.Error("failed to add cart item", "error", err, "cart_id", req.CartID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.invalidateCache(r.Context(), req.CartID)

	items, err := h.store.ListItems(r.Context(), req.CartID)
	if err != nil {
		h.logger.Error("failed to list cart items", "error", err, "cart_id", req.CartID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("cart item added", "cart_id", req.CartID, "product_id", req.ProductID, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusCreated, items)
}

func (h *Handler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("cartId")
	if cartID == "" {
		h.writeError(w, http.StatusBadRequest, "missing cart id")
		return
	}

	if h.cache != nil {
		items, err := h.cache.Get(r.Context(), cartID)
		if err == nil {
			h.writeJSON(w, http.StatusOK, items)
			return
		}
		if !errors.Is(err, ErrCacheMiss) {
			h.logger.Error("cart cache read failed", "error", err, "cart_id", cartID)
		}
	}

	items, err := h.store.ListItems(r.Context(), cartID)
	if err != nil {
		h.logger.Error("failed to list cart items", "error", err, "cart_id", cartID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), cartID, items); err != nil {
			h.logger.Error("cart cache write failed", "error", err, "cart_id", cartID)
		}
	}

	h.writeJSON(w, http.StatusOK, items)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")
	if itemID == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.store.UpdateItem(r.Context(), itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidQuantity):
			h.writeFieldError(w, "CRT_02", "quantity must be a positive integer", "quantity")
		case errors.Is(err, ErrItemNotFound):
			h.writeError(w, http.StatusNotFound, "cart item not found")
		default:
			h.logger.Error("failed to update cart item", "error", err, "item_id", itemID)
			h.writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.invalidateCache(r.Context(), item.CartID)

	items, err := h.store.ListItems(r.Context(), item.CartID)
	if err != nil {
		h.logger.Error("failed to list cart items", "error", err, "cart_id", item.CartID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("cart item updated", "item_id", itemID, "quantity", req.Quantity)
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")
	if itemID == "" {
		h.writeError(w, http.StatusBadRequest, "missing item id")
		return
	}

	item, err := h.store.GetItem(r.Context(), itemID)
	if err != nil {
		h.logger.Error("failed to look up cart item", "error", err, "item_id", itemID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.store.RemoveItem(r.Context(), itemID); err != nil {
		h.logger.Error("failed to remove cart item", "error", err, "item_id", itemID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if item != nil {
		h.invalidateCache(r.Context(), item.CartID)
	}

	h.logger.Info("cart item removed", "item_id", itemID)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

func (h *Handler) HandleEmptyCart(w http.ResponseWriter, r *http.Request) {
	cartID := r.PathValue("cartId")
	if cartID == "" {
		h.writeError(w, http.StatusBadRequest, "missing cart id")
		return
	}

	if err := h.store.Empty(r.Context(), cartID); err != nil {
		h.logger.Error("failed to empty cart", "error", err, "cart_id", cartID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.invalidateCache(r.Context(), cartID)

	h.logger.Info("cart emptied", "cart_id", cartID)
	h.writeJSON(w, http.StatusOK, []domain.CartItem{})
}

func (h *Handler) invalidateCache(ctx context.Context, cartID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, cartID); err != nil {
		h.logger.Error("cart cache invalidation failed", "error", err, "cart_id", cartID)
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

func (h *Handler) writeFieldError(w http.ResponseWriter, code, message, field string) {
	h.writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"status":  http.StatusBadRequest,
			"code":    code,
			"message": message,
			"field":   field,
		},
	})
}
