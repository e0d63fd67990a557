package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Known reports whether s is one of the recognized order statuses.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a priced set of product references. ProductList keeps the
// raw request payload as a snapshot; it is not a live relation to the
// products table.
type Order struct {
	ID             string          `json:"id"`
	Status         OrderStatus     `json:"status"`
	ShipmentAmount int64           `json:"shipment_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalWeight    int64           `json:"total_weight"`
	ProductList    json.RawMessage `json:"product_list"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
