package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prestapp/prestamos/internal/adapter/http/dto"
	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

const maxLoanFormMemory = 32 << 20

// PhotoStore uploads a client photo and returns its URL.
type PhotoStore interface {
	Store(ctx context.Context, clientName, kind, filename, contentType string, r io.Reader, size int64) (string, error)
}

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input domain.LoanInput) (*domain.Loan, error)
	ListLoans(ctx context.Context) ([]*domain.LoanWithClient, error)
	ListOutstanding(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error)
	PaidClients(ctx context.Context) ([]string, error)
	GetLoan(ctx context.Context, id string) (*domain.LoanWithClient, error)
	DeleteLoan(ctx context.Context, id string) error
	GetDailyReport(ctx context.Context, date domain.Date) (*usecase.DailyReport, error)
	GetEarningsReport(ctx context.Context, from, to domain.Date) (*usecase.EarningsReport, error)
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC LoanService
	photos PhotoStore
}

// NewLoanHandler creates a new LoanHandler. The photo store may be nil when
// the service runs without object storage.
func NewLoanHandler(loanUC LoanService, photos PhotoStore) *LoanHandler {
	return &LoanHandler{loanUC: loanUC, photos: photos}
}

// Create originates a loan from a multipart form with optional photo files.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLoanFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}

	req := dto.CreateLoanRequestFromForm(r.FormValue)

	photoURL, err := h.storePhoto(r, "foto_cliente", req.Nombre)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store client photo", err.Error())
		return
	}
	idPhotoURL, err := h.storePhoto(r, "foto_cedula", req.Nombre)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store id photo", err.Error())
		return
	}

	input, err := req.ToDomainInput(photoURL, idPhotoURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid loan fields", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create loan", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateLoanResponse{
		Message: "Préstamo y archivos registrados correctamente.",
		ID:      loan.ID,
	})
}

// storePhoto uploads one optional form file. A missing file yields an empty
// URL and no error.
func (h *LoanHandler) storePhoto(r *http.Request, field, clientName string) (string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if h.photos == nil {
		return "", nil
	}

	return h.photos.Store(r.Context(), clientName, field, header.Filename,
		contentTypeOf(header), file, header.Size)
}

func contentTypeOf(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// List returns every loan with its client and payment history.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanUC.ListLoans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}

// ListOwing returns the loans with a collection day on the given date.
func (h *LoanHandler) ListOwing(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateQuery(r, "fecha")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	loans, err := h.loanUC.ListOutstanding(r.Context(), asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list outstanding loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}

// PaidClients returns the distinct names of clients with a settled loan.
func (h *LoanHandler) PaidClients(w http.ResponseWriter, r *http.Request) {
	names, err := h.loanUC.PaidClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list paid clients", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaidClientsFromNames(names))
}

// Get retrieves a loan by ID with its payment history.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get loan", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Delete removes a loan. Its payment rows stay for reporting.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	if err := h.loanUC.DeleteLoan(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete loan", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Préstamo eliminado correctamente"})
}

// DailyReport returns the collection snapshot for a date.
func (h *LoanHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "fecha")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	report, err := h.loanUC.GetDailyReport(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build daily report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DailyReportFromUseCase(report))
}

// EarningsReport sums disbursed principal and realized interest, optionally
// bounded by fechaInicio/fechaFin.
func (h *LoanHandler) EarningsReport(w http.ResponseWriter, r *http.Request) {
	bounds := dto.HistoryRangeRequest{
		From: r.URL.Query().Get("fechaInicio"),
		To:   r.URL.Query().Get("fechaFin"),
	}

	from, to, err := bounds.Parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	report, err := h.loanUC.GetEarningsReport(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build earnings report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EarningsFromUseCase(report))
}
