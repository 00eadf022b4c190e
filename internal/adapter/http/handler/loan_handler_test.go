package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/adapter/http/dto"
	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

type loanServiceStub struct {
	createFn      func(ctx context.Context, input domain.LoanInput) (*domain.Loan, error)
	listFn        func(ctx context.Context) ([]*domain.LoanWithClient, error)
	outstandingFn func(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error)
	paidFn        func(ctx context.Context) ([]string, error)
	getFn         func(ctx context.Context, id string) (*domain.LoanWithClient, error)
	deleteFn      func(ctx context.Context, id string) error
	dailyFn       func(ctx context.Context, date domain.Date) (*usecase.DailyReport, error)
	earningsFn    func(ctx context.Context, from, to domain.Date) (*usecase.EarningsReport, error)
}

func (s *loanServiceStub) CreateLoan(ctx context.Context, input domain.LoanInput) (*domain.Loan, error) {
	return s.createFn(ctx, input)
}

func (s *loanServiceStub) ListLoans(ctx context.Context) ([]*domain.LoanWithClient, error) {
	return s.listFn(ctx)
}

func (s *loanServiceStub) ListOutstanding(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error) {
	return s.outstandingFn(ctx, asOf)
}

func (s *loanServiceStub) PaidClients(ctx context.Context) ([]string, error) {
	return s.paidFn(ctx)
}

func (s *loanServiceStub) GetLoan(ctx context.Context, id string) (*domain.LoanWithClient, error) {
	return s.getFn(ctx, id)
}

func (s *loanServiceStub) DeleteLoan(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *loanServiceStub) GetDailyReport(ctx context.Context, date domain.Date) (*usecase.DailyReport, error) {
	return s.dailyFn(ctx, date)
}

func (s *loanServiceStub) GetEarningsReport(ctx context.Context, from, to domain.Date) (*usecase.EarningsReport, error) {
	return s.earningsFn(ctx, from, to)
}

type photoStoreStub struct {
	stored map[string]string
	err    error
}

func (s *photoStoreStub) Store(ctx context.Context, clientName, kind, filename, contentType string, r io.Reader, size int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	url := "s3://fotos/" + clientName + "/" + kind
	if s.stored == nil {
		s.stored = map[string]string{}
	}
	s.stored[kind] = url
	return url, nil
}

func loanForm(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte("fake-image-bytes"))
	}
	mw.Close()

	return &buf, mw.FormDataContentType()
}

func TestLoanHandler_Create_Success(t *testing.T) {
	var captured domain.LoanInput

	handler := NewLoanHandler(&loanServiceStub{
		createFn: func(ctx context.Context, input domain.LoanInput) (*domain.Loan, error) {
			captured = input
			return &domain.Loan{ID: "L1"}, nil
		},
	}, &photoStoreStub{})

	body, contentType := loanForm(t, map[string]string{
		"nombre":         "Maria Lopez",
		"monto_prestado": "100000",
		"monto_total":    "120000",
		"saldo_restante": "120000",
		"fecha":          "2024-01-01",
		"plazo":          "7",
		"interes":        "20",
		"source":         "nequi",
		"tipo_plazo":     "semanal",
	}, map[string]string{
		"foto_cliente": "cara.jpg",
		"foto_cedula":  "cedula.jpg",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/prestamos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ClientName != "Maria Lopez" {
		t.Fatalf("expected client name mapped, got %+v", captured)
	}
	if captured.PhotoURL == "" || captured.IDPhotoURL == "" {
		t.Fatalf("expected photo URLs from the store, got %+v", captured)
	}

	var resp dto.CreateLoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "L1" {
		t.Fatalf("expected loan ID L1, got %s", resp.ID)
	}
}

func TestLoanHandler_Create_WithoutPhotos(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		createFn: func(ctx context.Context, input domain.LoanInput) (*domain.Loan, error) {
			if input.PhotoURL != "" || input.IDPhotoURL != "" {
				t.Fatalf("expected empty photo URLs, got %+v", input)
			}
			return &domain.Loan{ID: "L2"}, nil
		},
	}, nil)

	body, contentType := loanForm(t, map[string]string{
		"nombre":         "Pedro",
		"monto_prestado": "50000",
		"plazo":          "30",
		"interes":        "10",
		"fecha":          "2024-01-01",
		"tipo_plazo":     "diario",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/prestamos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoanHandler_Create_ValidationFailure(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		createFn: func(ctx context.Context, input domain.LoanInput) (*domain.Loan, error) {
			return nil, &domain.ValidationError{Violations: []string{"nombre es obligatorio"}}
		},
	}, nil)

	body, contentType := loanForm(t, map[string]string{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/prestamos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoanHandler_Get_NotFound(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.LoanWithClient, error) {
			return nil, domain.ErrLoanNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/prestamos/missing", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLoanHandler_ListOwing_PassesDate(t *testing.T) {
	var gotAsOf domain.Date

	handler := NewLoanHandler(&loanServiceStub{
		outstandingFn: func(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error) {
			gotAsOf = asOf
			return []*domain.LoanWithClient{}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/prestamos/debe?fecha=2024-01-15", nil)
	rec := httptest.NewRecorder()

	handler.ListOwing(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !gotAsOf.Equal(domain.NewDate(2024, time.January, 15)) {
		t.Fatalf("expected fecha passed through, got %v", gotAsOf)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty array body, got %q", rec.Body.String())
	}
}

func TestLoanHandler_Delete_Success(t *testing.T) {
	var deleted string

	handler := NewLoanHandler(&loanServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/prestamos/L1", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "L1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != "L1" {
		t.Fatalf("expected loan L1 deleted, got %q", deleted)
	}
}

func TestLoanHandler_EarningsReport(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		earningsFn: func(ctx context.Context, from, to domain.Date) (*usecase.EarningsReport, error) {
			return &usecase.EarningsReport{
				TotalLent:   decimal.NewFromInt(150000),
				TotalEarned: decimal.NewFromInt(20000),
			}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/prestamos/reporte/ganancias", nil)
	rec := httptest.NewRecorder()

	handler.EarningsReport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.EarningsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.TotalPrestado.Equal(decimal.NewFromInt(150000)) || !resp.TotalGanado.Equal(decimal.NewFromInt(20000)) {
		t.Fatalf("unexpected totals: %+v", resp)
	}
}

func TestLoanHandler_DailyReport_BadDate(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		dailyFn: func(ctx context.Context, date domain.Date) (*usecase.DailyReport, error) {
			t.Fatal("GetDailyReport should not be called")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/prestamos/reporte/diario?fecha=hoy", nil)
	rec := httptest.NewRecorder()

	handler.DailyReport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
