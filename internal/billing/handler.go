package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/orderdesk/orderdesk/internal/domain"
)

// BillReader is the read-only contract the handler needs. Bills are
// only ever written by the order status machine.
type BillReader interface {
	GetByID(ctx context.Context, id string) (*domain.Bill, error)
	List(ctx context.Context) ([]domain.Bill, error)
}

type Handler struct {
	bills  BillReader
	logger *slog.Logger
}

func NewHandler(bills BillReader, logger *slog.Logger) *Handler {
	return &Handler{
		bills:  bills,
		logger: logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing bill id")
		return
	}

	bill, err := h.bills.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "failed to get bill", "bill_id", id)
		return
	}

	if bill == nil {
		h.writeError(w, http.StatusNotFound, "bill not found")
		return
	}

	h.writeJSON(w, http.StatusOK, bill)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	bills, err := h.bills.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "failed to list bills")
		return
	}

	if bills == nil {
		bills = []domain.Bill{}
	}

	h.logger.Info("bills listed", "count", len(bills))
	h.writeJSON(w, http.StatusOK, bills)
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
