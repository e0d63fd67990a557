package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/orderdesk/orderdesk/internal/domain"
)

type Handler struct {
	assembler    *Assembler
	transitioner *Transitioner
	store        OrderStore
	logger       *slog.Logger
}

func NewHandler(assembler *Assembler, transitioner *Transitioner, store OrderStore, logger *slog.Logger) *Handler {
	return &Handler{
		assembler:    assembler,
		transitioner: transitioner,
		store:        store,
		logger:       logger,
	}
}

type createOrderRequest struct {
	ProductList json.RawMessage `json:"product_list"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.assembler.Create(r.Context(), req.ProductList)
	if err != nil {
		h.writeDomainError(w, err, "failed to create order")
		return
	}

	h.logger.Info("order created", "order_id", order.ID, "total_amount", order.TotalAmount)
	w.Header().Set("Location", "/orders/"+order.ID)
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err, "failed to get order")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "failed to list orders")
		return
	}

	if orders == nil {
		orders = []domain.Order{}
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAll(r.Context()); err != nil {
		h.writeDomainError(w, err, "failed to delete orders")
		return
	}

	h.logger.Info("orders deleted")
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.transitioner.Transition(r.Context(), id, req.Status); err != nil {
		h.writeDomainError(w, err, "failed to update order status")
		return
	}

	h.logger.Info("order status updated", "order_id", id, "status", req.Status)
	w.WriteHeader(http.StatusNoContent)
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Errors
// outside the taxonomy are logged and reported as 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, logMsg string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []*domain.ValidationError{ve},
		})
	case errors.Is(err, domain.ErrOrderNotFound):
		h.writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrInvalidStatus):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		h.logger.Error(logMsg, "error", err)
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
