package customers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/joao-fontenele/shopflow/internal/auth"
	"github.com/joao-fontenele/shopflow/internal/domain"
)

// Directory is the handler's view of customer storage; satisfied by
// *Repository and by stubs in tests.
type Directory interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

type Handler struct {
	directory Directory
	tokens    *auth.Tokens
	logger    *slog.Logger
}

func NewHandler(directory Directory, tokens *auth.Tokens, logger *slog.Logger) *Handler {
	return &Handler{directory: directory, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Customer    *domain.Customer `json:"customer"`
	AccessToken string           `json:"accessToken"`
	ExpiresIn   string           `json:"expiresIn"`
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		h.writeFieldError(w, http.StatusBadRequest, "USR_02", "The field name is required.", "name")
		return
	}
	if req.Email == "" {
		h.writeFieldError(w, http.StatusBadRequest, "USR_02", "The field email is required.", "email")
		return
	}
	if req.Password == "" {
		h.writeFieldError(w, http.StatusBadRequest, "USR_02", "The field password is required.", "password")
		return
	}

	existing, err := h.directory.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to check email", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing != nil {
		h.writeFieldError(w, http.StatusBadRequest, "USR_04", "The email already exists.", "email")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	customer := &domain.Customer{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.directory.Create(r.Context(), customer); err != nil {
		h.logger.Error("failed to create customer", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.tokens.Issue(customer.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("customer registered", "customer_id", customer.ID)
	h.writeJSON(w, http.StatusCreated, authResponse{
		Customer:    customer,
		AccessToken: "Bearer " + token,
		ExpiresIn:   "24h",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.directory.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to look up customer", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if customer == nil {
		h.writeFieldError(w, http.StatusBadRequest, "USR_05", "The email doesn't exist.", "email")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)) != nil {
		h.writeFieldError(w, http.StatusBadRequest, "USR_01", "Email or Password is invalid.", "password")
		return
	}

	token, err := h.tokens.Issue(customer.ID)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("customer logged in", "customer_id", customer.ID)
	h.writeJSON(w, http.StatusOK, authResponse{
		Customer:    customer,
		AccessToken: "Bearer " + token,
		ExpiresIn:   "24h",
	})
}

func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	customerID := auth.CustomerID(r.Context())

	customer, err := h.directory.GetByID(r.Context(), customerID)
	if err != nil {
		h.logger.Error("failed to get customer", "error", err, "customer_id", customerID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if customer == nil {
		h.writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	h.writeJSON(w, http.StatusOK, customer)
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
