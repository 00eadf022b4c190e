package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/adapter/http/dto"
	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

type capitalServiceStub struct {
	balancesFn    func(ctx context.Context) (map[string]decimal.Decimal, error)
	setBalancesFn func(ctx context.Context, input usecase.SetBalancesInput) error
	historyFn     func(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error)
}

func (s *capitalServiceStub) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.balancesFn(ctx)
}

func (s *capitalServiceStub) SetBalances(ctx context.Context, input usecase.SetBalancesInput) error {
	return s.setBalancesFn(ctx, input)
}

func (s *capitalServiceStub) History(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error) {
	return s.historyFn(ctx, from, to)
}

func TestCapitalHandler_Get_ReturnsPerSourceMap(t *testing.T) {
	handler := NewCapitalHandler(&capitalServiceStub{
		balancesFn: func(ctx context.Context) (map[string]decimal.Decimal, error) {
			return map[string]decimal.Decimal{
				"nequi":    decimal.NewFromInt(500000),
				"efectivo": decimal.NewFromInt(200000),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/capital", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]decimal.Decimal
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp["nequi"].Equal(decimal.NewFromInt(500000)) || !resp["efectivo"].Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("unexpected balances: %v", resp)
	}
}

func TestCapitalHandler_Update_Success(t *testing.T) {
	var captured usecase.SetBalancesInput

	handler := NewCapitalHandler(&capitalServiceStub{
		setBalancesFn: func(ctx context.Context, input usecase.SetBalancesInput) error {
			captured = input
			return nil
		},
	})

	body, _ := json.Marshal(dto.UpdateCapitalRequest{
		Nequi:    decimal.NewFromInt(300000),
		Efectivo: decimal.NewFromInt(100000),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/capital", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.Nequi.Equal(decimal.NewFromInt(300000)) || !captured.Efectivo.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
}

func TestCapitalHandler_Update_InvalidBody(t *testing.T) {
	handler := NewCapitalHandler(&capitalServiceStub{
		setBalancesFn: func(ctx context.Context, input usecase.SetBalancesInput) error {
			t.Fatal("SetBalances should not be called")
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/capital", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCapitalHandler_History_PassesBounds(t *testing.T) {
	var gotFrom, gotTo domain.Date

	handler := NewCapitalHandler(&capitalServiceStub{
		historyFn: func(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error) {
			gotFrom, gotTo = from, to
			return []*domain.CapitalHistoryEntry{
				{ID: "H1", Source: "nequi", Amount: decimal.NewFromInt(1000), RecordedOn: domain.NewDate(2024, time.January, 15)},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/capital/historial?startDate=2024-01-01&endDate=2024-02-01", nil)
	rec := httptest.NewRecorder()

	handler.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !gotFrom.Equal(domain.NewDate(2024, time.January, 1)) || !gotTo.Equal(domain.NewDate(2024, time.February, 1)) {
		t.Fatalf("bounds not passed through: %v %v", gotFrom, gotTo)
	}

	var resp []*dto.CapitalHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "H1" {
		t.Fatalf("unexpected history payload: %+v", resp)
	}
}

func TestCapitalHandler_History_BadBound(t *testing.T) {
	handler := NewCapitalHandler(&capitalServiceStub{
		historyFn: func(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error) {
			t.Fatal("History should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/capital/historial?startDate=enero", nil)
	rec := httptest.NewRecorder()

	handler.History(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
