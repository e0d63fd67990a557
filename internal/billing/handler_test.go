package billing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderdesk/orderdesk/internal/domain"
)

type fakeBillReader struct {
	bills []domain.Bill
	err   error
}

func (f *fakeBillReader) GetByID(_ context.Context, id string) (*domain.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, bill := range f.bills {
		if bill.ID == id {
			return &bill, nil
		}
	}
	return nil, nil
}

func (f *fakeBillReader) List(_ context.Context) ([]domain.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bills, nil
}

func newTestMux(reader BillReader) *http.ServeMux {
	handler := NewHandler(reader, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /bills", handler.HandleList)
	mux.HandleFunc("GET /bills/{id}", handler.HandleGet)
	return mux
}

func TestHandler_HandleGet(t *testing.T) {
	reader := &fakeBillReader{bills: []domain.Bill{
		{ID: "bill-1", TotalAmount: decimal.RequireFromString("950.95"), CreatedAt: time.Now().UTC()},
	}}

	t.Run("returns the bill", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills/bill-1", nil)
		rec := httptest.NewRecorder()
		newTestMux(reader).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var bill domain.Bill
		if err := json.NewDecoder(rec.Body).Decode(&bill); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !bill.TotalAmount.Equal(decimal.RequireFromString("950.95")) {
			t.Errorf("expected total 950.95, got %s", bill.TotalAmount)
		}
	})

	t.Run("returns 404 for an unknown bill", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills/missing", nil)
		rec := httptest.NewRecorder()
		newTestMux(reader).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("returns 504 when the store call exceeds its deadline", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills/bill-1", nil)
		rec := httptest.NewRecorder()
		newTestMux(&fakeBillReader{err: context.DeadlineExceeded}).ServeHTTP(rec, req)

		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected status 504, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleList(t *testing.T) {
	t.Run("returns all bills", func(t *testing.T) {
		reader := &fakeBillReader{bills: []domain.Bill{
			{ID: "bill-1", TotalAmount: decimal.NewFromInt(125)},
			{ID: "bill-2", TotalAmount: decimal.NewFromInt(250)},
		}}

		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		rec := httptest.NewRecorder()
		newTestMux(reader).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var bills []domain.Bill
		if err := json.NewDecoder(rec.Body).Decode(&bills); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(bills) != 2 {
			t.Errorf("expected 2 bills, got %d", len(bills))
		}
	})

	t.Run("returns an empty array when there are no bills", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		rec := httptest.NewRecorder()
		newTestMux(&fakeBillReader{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if body := rec.Body.String(); body != "[]\n" {
			t.Errorf("expected empty array, got %q", body)
		}
	})
}
