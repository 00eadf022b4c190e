package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/adapter/http/dto"
	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

// CapitalService defines the behavior needed by CapitalHandler.
type CapitalService interface {
	Balances(ctx context.Context) (map[string]decimal.Decimal, error)
	SetBalances(ctx context.Context, input usecase.SetBalancesInput) error
	History(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error)
}

// CapitalHandler handles capital-related HTTP requests.
type CapitalHandler struct {
	capitalUC CapitalService
}

// NewCapitalHandler creates a new CapitalHandler.
func NewCapitalHandler(capitalUC CapitalService) *CapitalHandler {
	return &CapitalHandler{capitalUC: capitalUC}
}

// Get returns the current balance per funding source.
func (h *CapitalHandler) Get(w http.ResponseWriter, r *http.Request) {
	balances, err := h.capitalUC.Balances(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get capital", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalFromBalances(balances))
}

// Update replaces both source balances and records a history snapshot.
func (h *CapitalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCapitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.capitalUC.SetBalances(r.Context(), req.ToUseCaseInput()); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to update capital", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Capital actualizado correctamente"})
}

// History returns balance snapshots, optionally bounded by startDate/endDate.
func (h *CapitalHandler) History(w http.ResponseWriter, r *http.Request) {
	bounds := dto.HistoryRangeRequest{
		From: r.URL.Query().Get("startDate"),
		To:   r.URL.Query().Get("endDate"),
	}

	from, to, err := bounds.Parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	entries, err := h.capitalUC.History(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get capital history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalHistoryFromDomain(entries))
}
