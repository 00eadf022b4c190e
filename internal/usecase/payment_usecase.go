package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
)

// PaymentUseCase records collection payments. Each payment touches three
// tables in one transaction: the destination capital source, the payment log
// and the loan's remaining balance.
type PaymentUseCase struct {
	txManager   TransactionManager
	loanRepo    LoanRepository
	paymentRepo PaymentRepository
	capitalRepo CapitalRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	loc         *time.Location
}

// NewPaymentUseCase creates a new PaymentUseCase. retrier and cache may be nil.
func NewPaymentUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	paymentRepo PaymentRepository,
	capitalRepo CapitalRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	loc *time.Location,
) *PaymentUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentUseCase{
		txManager:   txManager,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		capitalRepo: capitalRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		loc:         loc,
	}
}

// RecordPaymentInput is one collection event against a loan.
type RecordPaymentInput struct {
	LoanID string
	Amount decimal.Decimal
	Date   domain.Date
	Source string
}

// RecordPayment logs a payment and returns the loan's new remaining balance.
//
// A positive amount atomically credits the destination source, appends the
// payment row and drops the loan's balance (clamped at zero, flipping status
// to "pagado" when it reaches it). A zero amount only logs the visit; loan and
// capital are untouched. Any failure inside the transaction leaves the ledger
// exactly as it was.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (decimal.Decimal, error) {
	if err := domain.ValidatePaymentAmount(input.Amount, input.Source); err != nil {
		return decimal.Zero, err
	}

	paidOn := input.Date
	if paidOn.IsZero() {
		paidOn = domain.Today(uc.loc)
	}

	var newBalance decimal.Decimal
	operation := func() error {
		balance, err := uc.recordOnce(ctx, input, paidOn)
		if err != nil {
			return err
		}
		newBalance = balance
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil && input.Amount.IsPositive() {
		_ = uc.cache.Delete(ctx, balancesCacheKey)
	}

	return newBalance, nil
}

func (uc *PaymentUseCase) recordOnce(ctx context.Context, input RecordPaymentInput, paidOn domain.Date) (decimal.Decimal, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, input.LoanID)
	if err != nil {
		return decimal.Zero, err
	}

	moves := input.Amount.IsPositive()

	if moves {
		if err := uc.capitalRepo.Add(ctx, tx, input.Source, input.Amount); err != nil {
			return decimal.Zero, err
		}
	}

	destination := input.Source
	if destination == "" {
		destination = domain.DestinationNone
	}

	payment := &domain.Payment{
		ID:          uc.idGen.Generate(),
		LoanID:      loan.ID,
		Amount:      input.Amount,
		PaidOn:      paidOn,
		Destination: destination,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.paymentRepo.Create(ctx, tx, payment); err != nil {
		return decimal.Zero, err
	}

	newBalance := loan.RemainingBalance
	if moves {
		newBalance = loan.ApplyPayment(input.Amount)

		status := domain.StatusOwing
		paid := false
		if !newBalance.IsPositive() {
			status = domain.StatusPaid
			paid = true
		}

		if err := uc.loanRepo.UpdateAfterPayment(ctx, tx, loan.ID, newBalance, status, paid); err != nil {
			return decimal.Zero, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}
