package orders

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/orderdesk/orderdesk/internal/domain"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	order.ID = uuid.New().String()

	return r.db.QueryRowContext(ctx, `
		INSERT INTO orders (id, status, shipment_amount, total_amount, total_weight, product_list)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, order.ID, order.Status, order.ShipmentAmount, order.TotalAmount, order.TotalWeight,
		[]byte(order.ProductList)).Scan(&order.CreatedAt, &order.UpdatedAt)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}
	var productList []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT id, status, shipment_amount, total_amount, total_weight, product_list, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.Status, &order.ShipmentAmount, &order.TotalAmount,
		&order.TotalWeight, &productList, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	order.ProductList = productList
	return order, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// UpdateStatusFrom updates the status only when the current status
// still matches from. It returns nil when no row matched.
func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, status, shipment_amount, total_amount, total_weight, product_list, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var productList []byte
		if err := rows.Scan(&order.ID, &order.Status, &order.ShipmentAmount, &order.TotalAmount,
			&order.TotalWeight, &productList, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		order.ProductList = productList
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders`)
	return err
}
