package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one collection event against a loan. Rows are append-only; a
// zero-amount payment is still logged with DestinationNone so the collector's
// visit leaves a trace.
type Payment struct {
	ID          string
	LoanID      string
	Amount      decimal.Decimal
	PaidOn      Date
	Destination string
	CreatedAt   time.Time
}

// PaymentReportRow is a payment joined with its loan and client context for
// the daily report.
type PaymentReportRow struct {
	Payment
	LoanTotalDue  decimal.Decimal
	LoanRemaining decimal.Decimal
	LoanStartDate Date
	LoanTermUnit  string
	ClientName    string
}
