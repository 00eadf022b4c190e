package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prestapp/prestamos/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"loan not found", domain.ErrLoanNotFound, http.StatusNotFound},
		{"client not found", domain.ErrClientNotFound, http.StatusNotFound},
		{"negative amount", domain.ErrNegativeAmount, http.StatusBadRequest},
		{"unknown source", domain.ErrUnknownSource, http.StatusBadRequest},
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest},
		{"validation", &domain.ValidationError{Violations: []string{"nombre es obligatorio"}}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapDomainError(tc.err); got != tc.want {
				t.Fatalf("mapDomainError(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestParseDateQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/prestamos/debe?fecha=2024-01-15", nil)
	date, err := parseDateQuery(req, "fecha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !date.Equal(domain.NewDate(2024, time.January, 15)) {
		t.Fatalf("unexpected date: %v", date)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/prestamos/debe", nil)
	date, err = parseDateQuery(req, "fecha")
	if err != nil || !date.IsZero() {
		t.Fatalf("expected zero date for missing parameter, got %v %v", date, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/prestamos/debe?fecha=mañana", nil)
	if _, err := parseDateQuery(req, "fecha"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
