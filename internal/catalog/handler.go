package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/orderdesk/orderdesk/internal/domain"
)

// ProductStore is the persistence contract the handler needs.
type ProductStore interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	DeleteAll(ctx context.Context) error
}

type Handler struct {
	store  ProductStore
	cache  *ProductCache
	logger *slog.Logger
}

// NewHandler builds the catalog HTTP handler. cache may be nil, in
// which case every read goes to the store.
func NewHandler(store ProductStore, cache *ProductCache, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

type createProductRequest struct {
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Weight int64  `json:"weight"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		h.writeValidationError(w, domain.NewValidationError("name", "name is required"))
		return
	}
	if req.Price < 0 {
		h.writeValidationError(w, domain.NewValidationError("price", "price must not be negative"))
		return
	}
	if req.Weight < 0 {
		h.writeValidationError(w, domain.NewValidationError("weight", "weight must not be negative"))
		return
	}

	product := &domain.Product{
		Name:   req.Name,
		Price:  req.Price,
		Weight: req.Weight,
	}

	if err := h.store.Create(r.Context(), product); err != nil {
		h.writeStoreError(w, err, "failed to create product")
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeValidationError(w, domain.NewValidationError("id", "id must be an integer"))
		return
	}

	if h.cache != nil {
		product, err := h.cache.Get(r.Context(), id)
		if err != nil {
			h.logger.Warn("product cache read failed", "error", err, "product_id", id)
		} else if product != nil {
			h.writeJSON(w, http.StatusOK, product)
			return
		}
	}

	product, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "failed to get product", "product_id", id)
		return
	}

	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), product); err != nil {
			h.logger.Warn("product cache write failed", "error", err, "product_id", id)
		}
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "failed to list products")
		return
	}

	if products == nil {
		products = []domain.Product{}
	}

	h.logger.Info("products listed", "count", len(products))
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAll(r.Context()); err != nil {
		h.writeStoreError(w, err, "failed to delete products")
		return
	}

	h.logger.Info("products deleted")
	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps a failed store call onto a response: an expired
// context deadline becomes 504, everything else is logged as 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, logMsg string, attrs ...any) {
	if errors.Is(err, context.DeadlineExceeded) {
		h.writeError(w, http.StatusGatewayTimeout, "request timed out")
		return
	}
	h.logger.Error(logMsg, append([]any{"error", err}, attrs...)...)
	h.writeError(w, http.StatusInternalServerError, "internal server error")
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

func (h *Handler) writeValidationError(w http.ResponseWriter, ve *domain.ValidationError) {
	h.writeJSON(w, http.StatusBadRequest, map[string]any{
		"errors": []*domain.ValidationError{ve},
	})
}
