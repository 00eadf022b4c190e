package dto

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

// UpdateCapitalRequest replaces both funding source balances.
type UpdateCapitalRequest struct {
	Nequi    decimal.Decimal `json:"nequi"`
	Efectivo decimal.Decimal `json:"efectivo"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCapitalRequest) ToUseCaseInput() usecase.SetBalancesInput {
	return usecase.SetBalancesInput{
		Nequi:    r.Nequi,
		Efectivo: r.Efectivo,
	}
}

// RecordPaymentRequest registers a payment against a loan. Fecha is optional
// and defaults to today's date.
type RecordPaymentRequest struct {
	Monto  decimal.Decimal `json:"monto"`
	Fecha  string          `json:"fecha,omitempty"`
	Source string          `json:"source,omitempty"`
}

// ToUseCaseInput converts to use case input for the given loan.
func (r *RecordPaymentRequest) ToUseCaseInput(loanID string) (usecase.RecordPaymentInput, error) {
	input := usecase.RecordPaymentInput{
		LoanID: loanID,
		Amount: r.Monto,
		Source: r.Source,
	}

	if r.Fecha != "" {
		date, err := domain.ParseDate(r.Fecha)
		if err != nil {
			return usecase.RecordPaymentInput{}, err
		}
		input.Date = date
	}

	return input, nil
}

// CreateLoanRequest carries the multipart form fields of a loan origination.
// Amounts arrive as strings because the form is multipart, not JSON.
type CreateLoanRequest struct {
	Nombre        string
	Direccion     string
	Telefono      string
	MontoPrestado string
	MontoTotal    string
	SaldoRestante string
	Fecha         string
	Plazo         string
	Interes       string
	Source        string
	TipoPlazo     string
}

// CreateLoanRequestFromForm reads the loan fields from submitted form values.
func CreateLoanRequestFromForm(get func(string) string) CreateLoanRequest {
	return CreateLoanRequest{
		Nombre:        get("nombre"),
		Direccion:     get("direccion"),
		Telefono:      get("telefono"),
		MontoPrestado: get("monto_prestado"),
		MontoTotal:    get("monto_total"),
		SaldoRestante: get("saldo_restante"),
		Fecha:         get("fecha"),
		Plazo:         get("plazo"),
		Interes:       get("interes"),
		Source:        get("source"),
		TipoPlazo:     get("tipo_plazo"),
	}
}

// ToDomainInput parses the form fields into a loan input. Unparseable numeric
// fields are left at zero so the origination validation reports them together
// with the missing ones.
func (r CreateLoanRequest) ToDomainInput(photoURL, idPhotoURL string) (domain.LoanInput, error) {
	input := domain.LoanInput{
		ClientName:    r.Nombre,
		Address:       r.Direccion,
		Phone:         r.Telefono,
		TermUnit:      r.TipoPlazo,
		FundingSource: r.Source,
		PhotoURL:      photoURL,
		IDPhotoURL:    idPhotoURL,
	}

	input.Principal = parseDecimal(r.MontoPrestado)
	input.TotalDue = parseDecimal(r.MontoTotal)
	input.Remaining = parseDecimal(r.SaldoRestante)
	input.Interest = parseDecimal(r.Interes)

	if n, err := strconv.Atoi(r.Plazo); err == nil {
		input.TermLength = n
	}

	if r.Fecha != "" {
		date, err := domain.ParseDate(r.Fecha)
		if err != nil {
			return domain.LoanInput{}, err
		}
		input.StartDate = date
	}

	return input, nil
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// HistoryRangeRequest carries the optional bounds of a date-ranged query.
type HistoryRangeRequest struct {
	From string
	To   string
}

// Parse returns the bounds as dates. Empty strings stay as zero dates.
func (r HistoryRangeRequest) Parse() (domain.Date, domain.Date, error) {
	var from, to domain.Date

	if r.From != "" {
		d, err := domain.ParseDate(r.From)
		if err != nil {
			return from, to, err
		}
		from = d
	}
	if r.To != "" {
		d, err := domain.ParseDate(r.To)
		if err != nil {
			return from, to, err
		}
		to = d
	}

	return from, to, nil
}
