package dto

import (
	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

// CapitalResponse maps each funding source to its current balance.
type CapitalResponse map[string]decimal.Decimal

// CapitalFromBalances converts the per-source balance map to a response.
func CapitalFromBalances(balances map[string]decimal.Decimal) CapitalResponse {
	return CapitalResponse(balances)
}

// CapitalHistoryResponse represents one balance snapshot in API responses.
type CapitalHistoryResponse struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Amount decimal.Decimal `json:"amount"`
	Fecha  domain.Date     `json:"fecha"`
}

// CapitalHistoryFromDomain converts history entries to responses.
func CapitalHistoryFromDomain(entries []*domain.CapitalHistoryEntry) []*CapitalHistoryResponse {
	result := make([]*CapitalHistoryResponse, len(entries))
	for i, e := range entries {
		result[i] = &CapitalHistoryResponse{
			ID:     e.ID,
			Source: e.Source,
			Amount: e.Amount,
			Fecha:  e.RecordedOn,
		}
	}
	return result
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID          string          `json:"id"`
	PrestamoID  string          `json:"prestamo_id"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       domain.Date     `json:"fecha"`
	Destination string          `json:"destination"`
}

// PaymentFromDomain converts a domain payment to a response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		PrestamoID:  p.LoanID,
		Monto:       p.Amount,
		Fecha:       p.PaidOn,
		Destination: p.Destination,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// LoanResponse represents a loan with client identity in API responses.
type LoanResponse struct {
	ID               string             `json:"id"`
	ClienteID        string             `json:"cliente_id"`
	MontoPrestado    decimal.Decimal    `json:"monto_prestado"`
	MontoTotal       decimal.Decimal    `json:"monto_total"`
	SaldoRestante    decimal.Decimal    `json:"saldo_restante"`
	Fecha            domain.Date        `json:"fecha"`
	Plazo            int                `json:"plazo"`
	Interes          decimal.Decimal    `json:"interes"`
	FechaVencimiento domain.Date        `json:"fecha_vencimiento"`
	Source           string             `json:"source"`
	Estado           string             `json:"estado"`
	Pagado           bool               `json:"pagado"`
	TipoPlazo        string             `json:"tipo_plazo"`
	Cliente          string             `json:"cliente"`
	ClienteDireccion string             `json:"cliente_direccion,omitempty"`
	ClienteTelefono  string             `json:"cliente_telefono,omitempty"`
	Pagos            []*PaymentResponse `json:"pagos,omitempty"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.LoanWithClient) *LoanResponse {
	resp := &LoanResponse{
		ID:               l.ID,
		ClienteID:        l.ClientID,
		MontoPrestado:    l.Principal,
		MontoTotal:       l.TotalDue,
		SaldoRestante:    l.RemainingBalance,
		Fecha:            l.StartDate,
		Plazo:            l.TermLength,
		Interes:          l.Interest,
		FechaVencimiento: l.DueDate,
		Source:           l.FundingSource,
		Estado:           l.Status,
		Pagado:           l.Paid,
		TipoPlazo:        l.TermUnit,
		Cliente:          l.ClientName,
		ClienteDireccion: l.ClientAddress,
		ClienteTelefono:  l.ClientPhone,
	}
	if l.Payments != nil {
		resp.Pagos = PaymentsFromDomain(l.Payments)
	}
	return resp
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.LoanWithClient) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// PaymentReportResponse is one payment row in the daily report.
type PaymentReportResponse struct {
	Monto         decimal.Decimal `json:"monto"`
	Fecha         domain.Date     `json:"fecha"`
	Destination   string          `json:"destination"`
	PrestamoID    string          `json:"prestamo_id"`
	MontoTotal    decimal.Decimal `json:"monto_total"`
	SaldoRestante decimal.Decimal `json:"saldo_restante"`
	FechaPrestamo domain.Date     `json:"fecha_prestamo"`
	Cliente       string          `json:"cliente"`
	TipoPlazo     string          `json:"tipo_plazo"`
}

// PaymentReportFromDomain converts report rows to responses.
func PaymentReportFromDomain(rows []*domain.PaymentReportRow) []*PaymentReportResponse {
	result := make([]*PaymentReportResponse, len(rows))
	for i, r := range rows {
		result[i] = &PaymentReportResponse{
			Monto:         r.Amount,
			Fecha:         r.PaidOn,
			Destination:   r.Destination,
			PrestamoID:    r.LoanID,
			MontoTotal:    r.LoanTotalDue,
			SaldoRestante: r.LoanRemaining,
			FechaPrestamo: r.LoanStartDate,
			Cliente:       r.ClientName,
			TipoPlazo:     r.LoanTermUnit,
		}
	}
	return result
}

// DailyReportResponse is the collector's snapshot for one date.
type DailyReportResponse struct {
	DeudasDiarias []*LoanResponse          `json:"deudasDiarias"`
	PagosHoy      []*PaymentReportResponse `json:"pagosHoy"`
}

// DailyReportFromUseCase converts the daily report to a response.
func DailyReportFromUseCase(report *usecase.DailyReport) *DailyReportResponse {
	return &DailyReportResponse{
		DeudasDiarias: LoansFromDomain(report.NewDailyDebts),
		PagosHoy:      PaymentReportFromDomain(report.Payments),
	}
}

// EarningsResponse summarizes disbursed principal and realized interest.
type EarningsResponse struct {
	TotalPrestado decimal.Decimal `json:"total_prestado"`
	TotalGanado   decimal.Decimal `json:"total_ganado"`
}

// EarningsFromUseCase converts the earnings report to a response.
func EarningsFromUseCase(report *usecase.EarningsReport) *EarningsResponse {
	return &EarningsResponse{
		TotalPrestado: report.TotalLent,
		TotalGanado:   report.TotalEarned,
	}
}

// PaidClientResponse is one client name with a settled loan.
type PaidClientResponse struct {
	Cliente string `json:"cliente"`
}

// PaidClientsFromNames converts client names to responses.
func PaidClientsFromNames(names []string) []*PaidClientResponse {
	result := make([]*PaidClientResponse, len(names))
	for i, n := range names {
		result[i] = &PaidClientResponse{Cliente: n}
	}
	return result
}

// CreateLoanResponse confirms a loan origination.
type CreateLoanResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// PaymentCreatedResponse confirms a recorded payment.
type PaymentCreatedResponse struct {
	Message    string          `json:"message"`
	NuevoSaldo decimal.Decimal `json:"nuevoSaldo"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
