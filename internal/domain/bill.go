package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill snapshots an order total at the moment the order was marked
// paid. It carries no reference back to the order and is never mutated.
type Bill struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}
