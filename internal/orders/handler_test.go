package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain"
)

func newTestHandler(finder *fakeProductFinder, store *fakeOrderStore, bills *fakeBillStore, policy TransitionPolicy) *Handler {
	assembler := NewAssembler(finder, store)
	transitioner := NewTransitioner(store, bills, nil, policy, testLogger())
	return NewHandler(assembler, transitioner, store, testLogger())
}

func newTestMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", h.HandleCreate)
	mux.HandleFunc("GET /orders", h.HandleList)
	mux.HandleFunc("GET /orders/{id}", h.HandleGet)
	mux.HandleFunc("DELETE /orders", h.HandleDeleteAll)
	mux.HandleFunc("PATCH /orders/{id}/status", h.HandleUpdateStatus)
	return mux
}

func TestHandler_HandleCreate(t *testing.T) {
	t.Run("creates an order and returns its location", func(t *testing.T) {
		store := newFakeOrderStore()
		handler := newTestHandler(testCatalog(), store, &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"product_list": [1, 2]}`))
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var order domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.ID == "" {
			t.Fatal("expected order ID to be set")
		}
		if got := rec.Header().Get("Location"); got != "/orders/"+order.ID {
			t.Errorf("expected Location /orders/%s, got %s", order.ID, got)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status pending, got %s", order.Status)
		}
		// Subtotal 1000, weight 45 => shipment 125, discounted once.
		if want := decimal.RequireFromString("1068.75"); !order.TotalAmount.Equal(want) {
			t.Errorf("expected total %s, got %s", want, order.TotalAmount)
		}
	})

	t.Run("returns 400 with field errors for an empty product list", func(t *testing.T) {
		handler := newTestHandler(testCatalog(), newFakeOrderStore(), &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"product_list": []}`))
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}

		var resp struct {
			Errors []domain.ValidationError `json:"errors"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Errors) != 1 || resp.Errors[0].Field != "product_list" {
			t.Errorf("expected one error on product_list, got %+v", resp.Errors)
		}
	})

	t.Run("returns 400 when no referenced product exists", func(t *testing.T) {
		handler := newTestHandler(testCatalog(), newFakeOrderStore(), &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"product_list": [404]}`))
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "product_list") {
			t.Errorf("expected error referencing product_list, got %s", rec.Body.String())
		}
	})

	t.Run("returns 400 for a malformed body", func(t *testing.T) {
		handler := newTestHandler(testCatalog(), newFakeOrderStore(), &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleUpdateStatus(t *testing.T) {
	t.Run("returns 204 and persists the transition", func(t *testing.T) {
		store, _ := storeWithOrder(domain.OrderStatusPending, "125")
		bills := &fakeBillStore{}
		handler := newTestHandler(testCatalog(), store, bills, PolicyPermissive)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status", strings.NewReader(`{"status": "paid"}`))
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec.Body.Len() != 0 {
			t.Errorf("expected empty body, got %s", rec.Body.String())
		}
		if len(bills.bills) != 1 {
			t.Errorf("expected one bill, got %d", len(bills.bills))
		}
	})

	t.Run("returns 404 for an unknown order", func(t *testing.T) {
		handler := newTestHandler(testCatalog(), newFakeOrderStore(), &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodPatch, "/orders/nope/status", strings.NewReader(`{"status": "paid"}`))
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for an unrecognized status", func(t *testing.T) {
		store, _ := storeWithOrder(domain.OrderStatusPending, "125")
		handler := newTestHandler(testCatalog(), store, &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status", strings.NewReader(`{"status": "shipped"}`))
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for a forbidden strict transition", func(t *testing.T) {
		store, _ := storeWithOrder(domain.OrderStatusCancelled, "125")
		handler := newTestHandler(testCatalog(), store, &fakeBillStore{}, PolicyStrict)

		req := httptest.NewRequest(http.MethodPatch, "/orders/order-1/status", strings.NewReader(`{"status": "paid"}`))
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleGet(t *testing.T) {
	t.Run("returns the order", func(t *testing.T) {
		store, order := storeWithOrder(domain.OrderStatusPending, "125")
		handler := newTestHandler(testCatalog(), store, &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID, nil)
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var got domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if got.ID != order.ID {
			t.Errorf("expected order %s, got %s", order.ID, got.ID)
		}
	})

	t.Run("returns 404 for an unknown order", func(t *testing.T) {
		handler := newTestHandler(testCatalog(), newFakeOrderStore(), &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("returns 504 when the store call exceeds its deadline", func(t *testing.T) {
		store := newFakeOrderStore()
		store.err = context.DeadlineExceeded
		handler := newTestHandler(testCatalog(), store, &fakeBillStore{}, PolicyPermissive)

		req := httptest.NewRequest(http.MethodGet, "/orders/order-1", nil)
		rec := httptest.NewRecorder()
		newTestMux(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected status 504, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleDeleteAll(t *testing.T) {
	store, _ := storeWithOrder(domain.OrderStatusPending, "125")
	handler := newTestHandler(testCatalog(), store, &fakeBillStore{}, PolicyPermissive)

	req := httptest.NewRequest(http.MethodDelete, "/orders", nil)
	rec := httptest.NewRecorder()
	newTestMux(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if len(store.orders) != 0 {
		t.Errorf("expected no orders left, got %d", len(store.orders))
	}
}
