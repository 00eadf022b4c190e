package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LoanInput is the raw material for originating a loan, before validation.
type LoanInput struct {
	ClientName    string
	Address       string
	Phone         string
	Principal     decimal.Decimal
	TotalDue      decimal.Decimal
	Remaining     decimal.Decimal
	StartDate     Date
	TermLength    int
	TermUnit      string
	Interest      decimal.Decimal
	FundingSource string
	PhotoURL      string
	IDPhotoURL    string
}

// Validate checks the origination constraints and returns a ValidationError
// listing every violation.
func (in *LoanInput) Validate() error {
	var violations []string

	if strings.TrimSpace(in.ClientName) == "" {
		violations = append(violations, "nombre is required")
	}
	if !in.Principal.IsPositive() {
		violations = append(violations, "monto_prestado must be greater than zero")
	}
	if in.TermLength <= 0 {
		violations = append(violations, "plazo is required")
	}
	if in.Interest.IsZero() {
		violations = append(violations, "interes is required")
	}
	if in.StartDate.IsZero() {
		violations = append(violations, "fecha is required")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// ValidatePaymentAmount checks a payment amount and, when money actually
// moves, its destination source.
func ValidatePaymentAmount(amount decimal.Decimal, source string) error {
	if amount.IsNegative() {
		return &ValidationError{Violations: []string{"monto must not be negative"}}
	}
	if amount.IsPositive() && !ValidSource(source) {
		return &ValidationError{Violations: []string{"source must be one of: " + strings.Join(KnownSources, ", ")}}
	}
	return nil
}
