package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/adapter/http/dto"
	"github.com/prestapp/prestamos/internal/usecase"
)

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (decimal.Decimal, error)
}

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	paymentUC PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Create records a payment against a loan and returns the new balance.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(loanID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment date", err.Error())
		return
	}

	newBalance, err := h.paymentUC.RecordPayment(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record payment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentCreatedResponse{
		Message:    "Pago registrado con éxito",
		NuevoSaldo: newBalance,
	})
}
