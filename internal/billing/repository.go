package billing

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain"
)

type BillRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, totalAmount decimal.Decimal) (*domain.Bill, error) {
	bill := &domain.Bill{
		ID:          uuid.New().String(),
		TotalAmount: totalAmount,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bills (id, total_amount)
		VALUES ($1, $2)
		RETURNING created_at
	`, bill.ID, bill.TotalAmount).Scan(&bill.CreatedAt)
	if err != nil {
		return nil, err
	}

	return bill, nil
}

func (r *BillRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	bill := &domain.Bill{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, total_amount, created_at
		FROM bills
		WHERE id = $1
	`, id).Scan(&bill.ID, &bill.TotalAmount, &bill.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return bill, nil
}

func (r *BillRepository) List(ctx context.Context) ([]domain.Bill, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, total_amount, created_at
		FROM bills
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var bills []domain.Bill
	for rows.Next() {
		var bill domain.Bill
		if err := rows.Scan(&bill.ID, &bill.TotalAmount, &bill.CreatedAt); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bills, nil
}
