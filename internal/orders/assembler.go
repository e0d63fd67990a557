// Package orders holds the order assembly and status transition logic.
// Persistence and messaging are reached through small interfaces so the
// business rules stay testable without a database.
package orders

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain"
	"github.com/orderdesk/orderdesk/internal/pricing"
)

// ProductFinder resolves product identifiers against the catalog.
// Unknown identifiers are omitted from the result, not reported.
type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
}

// OrderStore is the persistence contract for orders.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	UpdateStatusFrom(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	DeleteAll(ctx context.Context) error
}

// BillStore persists bill snapshots.
type BillStore interface {
	Create(ctx context.Context, totalAmount decimal.Decimal) (*domain.Bill, error)
}

// Publisher emits domain events. Implementations must be safe to call
// from request handlers.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Assembler turns a raw product-reference list into a priced, persisted
// order.
type Assembler struct {
	products ProductFinder
	orders   OrderStore
}

func NewAssembler(products ProductFinder, orders OrderStore) *Assembler {
	return &Assembler{
		products: products,
		orders:   orders,
	}
}

// Create validates and prices rawList and persists the resulting order.
//
// Entries may be JSON numbers or numeric strings; entries that cannot
// be coerced to an integer are silently dropped (best-effort parse).
// The order stores rawList verbatim as its line-item snapshot, not the
// resolved products.
func (a *Assembler) Create(ctx context.Context, rawList json.RawMessage) (*domain.Order, error) {
	ids, err := coerceProductIDs(rawList)
	if err != nil {
		return nil, err
	}

	products, err := a.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.NewUnknownReferenceError("product_list", "none of the referenced products exist")
	}

	items := make([]pricing.Item, 0, len(products))
	for _, product := range products {
		items = append(items, pricing.Item{Price: product.Price, Weight: product.Weight})
	}
	quote := pricing.Compute(items)

	order := &domain.Order{
		Status:         domain.OrderStatusPending,
		ShipmentAmount: quote.ShipmentAmount,
		TotalAmount:    quote.TotalAmount,
		TotalWeight:    quote.TotalWeight,
		ProductList:    rawList,
	}

	if err := a.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// coerceProductIDs parses the raw product_list payload into a unique
// set of integer identifiers.
func coerceProductIDs(rawList json.RawMessage) ([]int64, error) {
	if len(rawList) == 0 {
		return nil, domain.NewValidationError("product_list", "product_list is required")
	}

	var entries []any
	if err := json.Unmarshal(rawList, &entries); err != nil {
		return nil, domain.NewValidationError("product_list", "product_list must be an array")
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, entry := range entries {
		id, ok := coerceID(entry)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, domain.NewValidationError("product_list", "product_list must contain at least one numeric product id")
	}

	return ids, nil
}

func coerceID(entry any) (int64, bool) {
	switch v := entry.(type) {
	case float64:
		// A fractional number is not a usable reference; truncating it
		// would silently point at a different product.
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}
