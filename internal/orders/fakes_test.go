package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain"
)

type fakeProductFinder struct {
	products map[int64]domain.Product
	lastIDs  []int64
}

func (f *fakeProductFinder) FindByIDs(_ context.Context, ids []int64) ([]domain.Product, error) {
	f.lastIDs = ids

	var found []domain.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			found = append(found, product)
		}
	}
	return found, nil
}

type fakeOrderStore struct {
	orders  map[string]*domain.Order
	seq     int
	updates []domain.OrderStatus
	err     error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrderStore) Create(_ context.Context, order *domain.Order) error {
	if f.err != nil {
		return f.err
	}
	f.seq++
	order.ID = fmt.Sprintf("order-%d", f.seq)
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderStore) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	order.Status = status
	f.updates = append(f.updates, status)
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) UpdateStatusFrom(_ context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.Status != from {
		return nil, nil
	}
	order.Status = to
	f.updates = append(f.updates, to)
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) List(_ context.Context) ([]domain.Order, error) {
	var all []domain.Order
	for _, order := range f.orders {
		all = append(all, *order)
	}
	return all, nil
}

func (f *fakeOrderStore) DeleteAll(_ context.Context) error {
	f.orders = make(map[string]*domain.Order)
	return nil
}

type fakeBillStore struct {
	bills []domain.Bill
}

func (f *fakeBillStore) Create(_ context.Context, totalAmount decimal.Decimal) (*domain.Bill, error) {
	bill := domain.Bill{
		ID:          fmt.Sprintf("bill-%d", len(f.bills)+1),
		TotalAmount: totalAmount,
	}
	f.bills = append(f.bills, bill)
	return &bill, nil
}

type fakePublisher struct {
	events []domain.OrderPaidEvent
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event any) error {
	paid, ok := event.(domain.OrderPaidEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	f.events = append(f.events, paid)
	return nil
}
