package domain

import "time"

// Product is a catalog entry. Products are immutable once created; the
// store assigns the identifier.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Weight    int64     `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}
