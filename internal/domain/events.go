package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderPaidEvent struct {
	OrderID     string          `json:"order_id"`
	BillID      string          `json:"bill_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Timestamp   time.Time       `json:"timestamp"`
}
