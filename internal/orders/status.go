package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orderdesk/orderdesk/internal/domain"
)

// TransitionPolicy selects how strictly status transitions are checked.
type TransitionPolicy string

const (
	// PolicyPermissive accepts any recognized status as a target
	// regardless of the current state, and emits a bill on every
	// request for "paid". There is no idempotence guard.
	PolicyPermissive TransitionPolicy = "permissive"

	// PolicyStrict only allows pending -> paid and pending ->
	// cancelled, treats a same-state request as a no-op, and makes the
	// paid transition an atomic check-and-set so exactly one bill is
	// emitted per order.
	PolicyStrict TransitionPolicy = "strict"
)

func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch TransitionPolicy(s) {
	case PolicyPermissive, PolicyStrict:
		return TransitionPolicy(s), nil
	case "":
		return PolicyPermissive, nil
	}
	return "", fmt.Errorf("unknown transition policy %q", s)
}

// Transitioner applies status changes to existing orders and emits a
// bill when an order becomes paid.
type Transitioner struct {
	orders    OrderStore
	bills     BillStore
	publisher Publisher
	policy    TransitionPolicy
	logger    *slog.Logger
}

// NewTransitioner builds a Transitioner. publisher may be nil if event
// publishing is disabled.
func NewTransitioner(orders OrderStore, bills BillStore, publisher Publisher, policy TransitionPolicy, logger *slog.Logger) *Transitioner {
	return &Transitioner{
		orders:    orders,
		bills:     bills,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
	}
}

// Transition moves the order identified by id to the requested status.
// It returns domain.ErrOrderNotFound if the order does not exist and
// domain.ErrInvalidStatus if the requested value is unrecognized or,
// under the strict policy, the transition is not allowed.
func (t *Transitioner) Transition(ctx context.Context, id string, requested domain.OrderStatus) error {
	if !requested.Known() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, requested)
	}

	order, err := t.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}

	if t.policy == PolicyStrict {
		return t.transitionStrict(ctx, order, requested)
	}
	return t.transitionPermissive(ctx, order, requested)
}

func (t *Transitioner) transitionPermissive(ctx context.Context, order *domain.Order, requested domain.OrderStatus) error {
	// Bill emission happens before the status write, unconditionally on
	// every "paid" request. Double emission on repeated requests is a
	// documented consequence of this policy.
	if requested == domain.OrderStatusPaid {
		bill, err := t.bills.Create(ctx, order.TotalAmount)
		if err != nil {
			return err
		}
		t.publishPaid(ctx, order, bill)
	}

	updated, err := t.orders.UpdateStatus(ctx, order.ID, requested)
	if err != nil {
		return err
	}
	if updated == nil {
		return domain.ErrOrderNotFound
	}

	return nil
}

// strictTransitions is the allowed-transition table under PolicyStrict.
// paid and cancelled are terminal.
var strictTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPending:   {domain.OrderStatusPaid, domain.OrderStatusCancelled},
	domain.OrderStatusPaid:      {},
	domain.OrderStatusCancelled: {},
}

func allowed(from, to domain.OrderStatus) bool {
	for _, s := range strictTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (t *Transitioner) transitionStrict(ctx context.Context, order *domain.Order, requested domain.OrderStatus) error {
	if requested == order.Status {
		return nil
	}
	if !allowed(order.Status, requested) {
		return fmt.Errorf("%w: cannot transition from %q to %q", domain.ErrInvalidStatus, order.Status, requested)
	}

	// Check-and-set keyed on the current status; a concurrent
	// transition makes the update match zero rows.
	updated, err := t.orders.UpdateStatusFrom(ctx, order.ID, order.Status, requested)
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("%w: order %s changed concurrently", domain.ErrInvalidStatus, order.ID)
	}

	if requested == domain.OrderStatusPaid {
		bill, err := t.bills.Create(ctx, updated.TotalAmount)
		if err != nil {
			return err
		}
		t.publishPaid(ctx, updated, bill)
	}

	return nil
}

func (t *Transitioner) publishPaid(ctx context.Context, order *domain.Order, bill *domain.Bill) {
	if t.publisher == nil {
		return
	}

	event := domain.OrderPaidEvent{
		OrderID:     order.ID,
		BillID:      bill.ID,
		TotalAmount: bill.TotalAmount,
		Timestamp:   time.Now().UTC(),
	}
	if err := t.publisher.Publish(ctx, order.ID, event); err != nil {
		t.logger.Error("failed to publish order paid event", "error", err, "order_id", order.ID)
	}
}
