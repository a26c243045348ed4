package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/investledger/internal/adapter/http/dto"
	"github.com/iho/investledger/internal/domain"
	"github.com/iho/investledger/internal/usecase"
)

type reportServiceStub struct {
	fn func(ctx context.Context, input usecase.UserTransactionsInput) (*usecase.UserTransactionsReport, error)
}

func (s *reportServiceStub) UserTransactions(ctx context.Context, input usecase.UserTransactionsInput) (*usecase.UserTransactionsReport, error) {
	return s.fn(ctx, input)
}

func TestReportHandlerUserTransactions(t *testing.T) {
	var captured usecase.UserTransactionsInput
	h := NewReportHandler(&reportServiceStub{
		fn: func(ctx context.Context, input usecase.UserTransactionsInput) (*usecase.UserTransactionsReport, error) {
			captured = input
			return &usecase.UserTransactionsReport{
				Transactions: []*domain.Transaction{
					{ID: "txn-1", Amount: decimal.NewFromInt(100), Kind: domain.KindCredit},
					{ID: "txn-2", Amount: decimal.NewFromInt(50), Kind: domain.KindDebit},
				},
				TotalBalance: decimal.NewFromInt(50),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/users/user-1/transactions?from=2024-09-01&to=2024-09-30", nil)
	req = withURLParam(req, "id", "user-1")
	rec := httptest.NewRecorder()

	h.UserTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.UserID != "user-1" {
		t.Fatalf("expected user-1, got %+v", captured)
	}

	// A bare "to" date covers the whole day.
	endOfDay := time.Date(2024, 9, 30, 23, 59, 59, 999999999, time.UTC)
	if !captured.To.Equal(endOfDay) {
		t.Fatalf("expected to=%v, got %v", endOfDay, captured.To)
	}

	var resp dto.UserTransactionsReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.TotalBalance.Equal(decimal.NewFromInt(50)) || len(resp.Transactions) != 2 {
		t.Fatalf("unexpected report: %+v", resp)
	}
}

func TestReportHandlerMissingRange(t *testing.T) {
	h := NewReportHandler(&reportServiceStub{
		fn: func(ctx context.Context, input usecase.UserTransactionsInput) (*usecase.UserTransactionsReport, error) {
			t.Fatal("UserTransactions should not be called without a range")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/users/user-1/transactions", nil)
	req = withURLParam(req, "id", "user-1")
	rec := httptest.NewRecorder()

	h.UserTransactions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReportHandlerInvertedRange(t *testing.T) {
	h := NewReportHandler(&reportServiceStub{
		fn: func(ctx context.Context, input usecase.UserTransactionsInput) (*usecase.UserTransactionsReport, error) {
			return nil, domain.ErrInvalidDateRange
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/users/user-1/transactions?from=2024-09-30&to=2024-09-01", nil)
	req = withURLParam(req, "id", "user-1")
	rec := httptest.NewRecorder()

	h.UserTransactions(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
