package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prestapp/prestamos/internal/adapter/http/dto"
	"github.com/prestapp/prestamos/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLoanNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNegativeAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownSource):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseDateQuery parses a date query parameter. A missing parameter returns a
// zero date and no error.
func parseDateQuery(r *http.Request, key string) (domain.Date, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(val)
}
