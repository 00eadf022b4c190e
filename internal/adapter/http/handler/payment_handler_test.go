package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/adapter/http/dto"
	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

type paymentServiceStub struct {
	recordFn func(ctx context.Context, input usecase.RecordPaymentInput) (decimal.Decimal, error)
}

func (s *paymentServiceStub) RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (decimal.Decimal, error) {
	return s.recordFn(ctx, input)
}

func requestWithLoanID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPaymentHandler_Create_Success(t *testing.T) {
	var captured usecase.RecordPaymentInput

	handler := NewPaymentHandler(&paymentServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordPaymentInput) (decimal.Decimal, error) {
			captured = input
			return decimal.NewFromInt(50000), nil
		},
	})

	body, _ := json.Marshal(dto.RecordPaymentRequest{
		Monto:  decimal.NewFromInt(50000),
		Fecha:  "2024-01-15",
		Source: "nequi",
	})

	req := requestWithLoanID(httptest.NewRequest(http.MethodPost, "/api/prestamos/L1/pagos", bytes.NewReader(body)), "L1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.LoanID != "L1" || captured.Source != "nequi" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.PaymentCreatedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.NuevoSaldo.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected nuevoSaldo 50000, got %s", resp.NuevoSaldo)
	}
}

func TestPaymentHandler_Create_InvalidBody(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordPaymentInput) (decimal.Decimal, error) {
			t.Fatal("RecordPayment should not be called")
			return decimal.Zero, nil
		},
	})

	req := requestWithLoanID(httptest.NewRequest(http.MethodPost, "/api/prestamos/L1/pagos", bytes.NewBufferString("{not json")), "L1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPaymentHandler_Create_LoanNotFound(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordPaymentInput) (decimal.Decimal, error) {
			return decimal.Zero, domain.ErrLoanNotFound
		},
	})

	body, _ := json.Marshal(dto.RecordPaymentRequest{Monto: decimal.NewFromInt(100), Source: "nequi"})
	req := requestWithLoanID(httptest.NewRequest(http.MethodPost, "/api/prestamos/missing/pagos", bytes.NewReader(body)), "missing")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPaymentHandler_Create_ValidationError(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordPaymentInput) (decimal.Decimal, error) {
			return decimal.Zero, domain.ErrUnknownSource
		},
	})

	body, _ := json.Marshal(dto.RecordPaymentRequest{Monto: decimal.NewFromInt(100), Source: "paypal"})
	req := requestWithLoanID(httptest.NewRequest(http.MethodPost, "/api/prestamos/L1/pagos", bytes.NewReader(body)), "L1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPaymentHandler_Create_BadDate(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{
		recordFn: func(ctx context.Context, input usecase.RecordPaymentInput) (decimal.Decimal, error) {
			t.Fatal("RecordPayment should not be called")
			return decimal.Zero, nil
		},
	})

	body, _ := json.Marshal(dto.RecordPaymentRequest{Monto: decimal.NewFromInt(100), Fecha: "15-01-2024", Source: "nequi"})
	req := requestWithLoanID(httptest.NewRequest(http.MethodPost, "/api/prestamos/L1/pagos", bytes.NewReader(body)), "L1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
