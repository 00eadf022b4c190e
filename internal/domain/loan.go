package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Term units. A loan is collected either every day or every seventh day.
const (
	TermDaily  = "diario"
	TermWeekly = "semanal"
)

// Loan statuses.
const (
	StatusOwing = "debe"
	StatusPaid  = "pagado"
)

// Loan is one disbursement to a client. RemainingBalance, Status and Paid are
// the only fields payments mutate; DueDate is derived once at origination and
// never recomputed.
type Loan struct {
	ID               string
	ClientID         string
	Principal        decimal.Decimal
	TotalDue         decimal.Decimal
	RemainingBalance decimal.Decimal
	StartDate        Date
	TermLength       int
	TermUnit         string
	Interest         decimal.Decimal
	DueDate          Date
	FundingSource    string
	Status           string
	Paid             bool
	CreatedAt        time.Time
}

// CollectibleOn reports whether a collection visit is due for this loan on the
// given date. Daily loans are collectible from their start date onward; weekly
// loans only on exact positive multiples of seven days after the start date.
// Loans with any other term unit are never collectible.
//
// Both the outstanding-loans listing and the reminder sweep use this predicate,
// so the two call sites cannot drift apart.
func (l *Loan) CollectibleOn(on Date) bool {
	switch l.TermUnit {
	case TermDaily:
		return !on.Before(l.StartDate)
	case TermWeekly:
		days := on.DaysSince(l.StartDate)
		return days > 0 && days%7 == 0
	default:
		return false
	}
}

// ApplyPayment returns the loan's remaining balance after a payment of amount,
// clamped at zero.
func (l *Loan) ApplyPayment(amount decimal.Decimal) decimal.Decimal {
	next := l.RemainingBalance.Sub(amount)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}

// LoanWithClient couples a loan with its client's identity for listings.
type LoanWithClient struct {
	Loan
	ClientName    string
	ClientAddress string
	ClientPhone   string
	Payments      []*Payment
}
