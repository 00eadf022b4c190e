package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
)

// LoanUseCase handles loan origination and every read view over the loan book.
type LoanUseCase struct {
	txManager   TransactionManager
	clientRepo  ClientRepository
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
	idGen       IDGenerator
	loc         *time.Location
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(
	txManager TransactionManager,
	clientRepo ClientRepository,
	loanRepo LoanRepository,
	paymentRepo PaymentRepository,
	idGen IDGenerator,
	loc *time.Location,
) *LoanUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &LoanUseCase{
		txManager:   txManager,
		clientRepo:  clientRepo,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		idGen:       idGen,
		loc:         loc,
	}
}

// CreateLoan originates a loan: the client is resolved by exact name (created
// if absent, photo references overwritten if present) and the loan row is
// inserted, all in one transaction. The remaining balance is taken from the
// caller as supplied, not recomputed.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input domain.LoanInput) (*domain.Loan, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	client, err := uc.clientRepo.GetByName(ctx, tx, input.ClientName)
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		client = &domain.Client{
			ID:         uc.idGen.Generate(),
			Name:       input.ClientName,
			Address:    input.Address,
			Phone:      input.Phone,
			PhotoURL:   input.PhotoURL,
			IDPhotoURL: input.IDPhotoURL,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.clientRepo.Create(ctx, tx, client); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		// Last write wins, even when the new references are empty.
		if err := uc.clientRepo.UpdatePhotos(ctx, tx, client.ID, input.PhotoURL, input.IDPhotoURL, now); err != nil {
			return nil, err
		}
	}

	loan := &domain.Loan{
		ID:               uc.idGen.Generate(),
		ClientID:         client.ID,
		Principal:        input.Principal,
		TotalDue:         input.TotalDue,
		RemainingBalance: input.Remaining,
		StartDate:        input.StartDate,
		TermLength:       input.TermLength,
		TermUnit:         input.TermUnit,
		Interest:         input.Interest,
		DueDate:          input.StartDate.AddDays(input.TermLength),
		FundingSource:    input.FundingSource,
		Status:           domain.StatusOwing,
		Paid:             false,
		CreatedAt:        now,
	}

	if err := uc.loanRepo.Create(ctx, tx, loan); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return loan, nil
}

// ListLoans returns every loan with its client identity and its payment
// history ordered by date.
func (uc *LoanUseCase) ListLoans(ctx context.Context) ([]*domain.LoanWithClient, error) {
	loans, err := uc.loanRepo.ListWithClients(ctx)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return []*domain.LoanWithClient{}, nil
	}

	ids := make([]string, len(loans))
	for i, loan := range loans {
		ids[i] = loan.ID
	}

	paymentsByLoan, err := uc.paymentRepo.ListByLoans(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, loan := range loans {
		loan.Payments = paymentsByLoan[loan.ID]
		if loan.Payments == nil {
			loan.Payments = []*domain.Payment{}
		}
	}

	return loans, nil
}

// ListOutstanding returns the loans a collector should visit on asOf: owing,
// not yet past their due date, and collectible per their term cadence. A zero
// asOf means today.
func (uc *LoanUseCase) ListOutstanding(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error) {
	if asOf.IsZero() {
		asOf = domain.Today(uc.loc)
	}

	candidates, err := uc.loanRepo.ListOwingDueAfter(ctx, asOf)
	if err != nil {
		return nil, err
	}

	eligible := make([]*domain.LoanWithClient, 0, len(candidates))
	for _, loan := range candidates {
		if loan.CollectibleOn(asOf) {
			eligible = append(eligible, loan)
		}
	}

	return eligible, nil
}

// PaidClients returns the distinct names of clients with at least one
// fully-paid loan.
func (uc *LoanUseCase) PaidClients(ctx context.Context) ([]string, error) {
	return uc.loanRepo.PaidClientNames(ctx)
}

// GetLoan returns a single loan with its payment history.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.LoanWithClient, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.ListByLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	loan.Payments = payments

	return loan, nil
}

// DeleteLoan hard-deletes a loan. Payment rows are deliberately left behind:
// the payment log stays the book of record even for removed loans.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, id string) error {
	return uc.loanRepo.Delete(ctx, id)
}

// DailyReport is the collector's snapshot for one date.
type DailyReport struct {
	NewDailyDebts []*domain.LoanWithClient
	Payments      []*domain.PaymentReportRow
}

// GetDailyReport returns the payments recorded on date and the daily-term
// loans that started that same day. A zero date means today.
func (uc *LoanUseCase) GetDailyReport(ctx context.Context, date domain.Date) (*DailyReport, error) {
	if date.IsZero() {
		date = domain.Today(uc.loc)
	}

	payments, err := uc.paymentRepo.ListOnDate(ctx, date)
	if err != nil {
		return nil, err
	}

	owing, err := uc.loanRepo.ListOwingDueAfter(ctx, date)
	if err != nil {
		return nil, err
	}

	newDaily := make([]*domain.LoanWithClient, 0)
	for _, loan := range owing {
		if loan.TermUnit == domain.TermDaily && loan.StartDate.Equal(date) {
			newDaily = append(newDaily, loan)
		}
	}

	return &DailyReport{
		NewDailyDebts: newDaily,
		Payments:      payments,
	}, nil
}

// EarningsReport summarizes disbursed principal and realized interest.
type EarningsReport struct {
	TotalLent   decimal.Decimal
	TotalEarned decimal.Decimal
}

// GetEarningsReport sums all principal disbursed and the interest collected on
// paid-off loans, optionally limited to loans started inside [from, to].
func (uc *LoanUseCase) GetEarningsReport(ctx context.Context, from, to domain.Date) (*EarningsReport, error) {
	lent, earned, err := uc.loanRepo.Totals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &EarningsReport{TotalLent: lent, TotalEarned: earned}, nil
}
