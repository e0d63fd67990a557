// Package worker consumes order.paid events and keeps an audit trail
// of issued bills outside the request path.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/orderdesk/orderdesk/internal/domain"
)

type AuditHandler struct {
	logger      *slog.Logger
	billsIssued metric.Int64Counter
}

func NewAuditHandler(logger *slog.Logger) (*AuditHandler, error) {
	meter := otel.Meter("worker/audit")
	billsIssued, err := meter.Int64Counter("orderdesk.bills.issued",
		metric.WithDescription("Number of bills issued for paid orders"),
	)
	if err != nil {
		return nil, fmt.Errorf("create bills issued counter: %w", err)
	}

	return &AuditHandler{
		logger:      logger,
		billsIssued: billsIssued,
	}, nil
}

func (h *AuditHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPaidEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order paid event: %w", err)
	}

	h.billsIssued.Add(ctx, 1)
	h.logger.InfoContext(ctx, "order paid",
		"order_id", event.OrderID,
		"bill_id", event.BillID,
		"total_amount", event.TotalAmount,
		"paid_at", event.Timestamp,
	)

	return nil
}
