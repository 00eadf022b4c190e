package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
)

// ClientRepository defines data access for clients.
type ClientRepository interface {
	GetByName(ctx context.Context, tx Transaction, name string) (*domain.Client, error)
	Create(ctx context.Context, tx Transaction, client *domain.Client) error
	UpdatePhotos(ctx context.Context, tx Transaction, id, photoURL, idPhotoURL string, updatedAt time.Time) error
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.LoanWithClient, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	UpdateAfterPayment(ctx context.Context, tx Transaction, id string, remaining decimal.Decimal, status string, paid bool) error
	Delete(ctx context.Context, id string) error
	ListWithClients(ctx context.Context) ([]*domain.LoanWithClient, error)
	// ListOwingDueAfter returns loans in status "debe" whose due date is on or
	// after asOf, joined with client identity. Per-loan collection eligibility
	// is applied by the caller via domain.Loan.CollectibleOn.
	ListOwingDueAfter(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error)
	PaidClientNames(ctx context.Context) ([]string, error)
	// Totals returns the sum of all principal disbursed and the sum of
	// (total_due - principal) over paid-off loans, each constrained to the
	// optional inclusive start-date range.
	Totals(ctx context.Context, from, to domain.Date) (lent, earned decimal.Decimal, err error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	ListByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error)
	ListByLoans(ctx context.Context, loanIDs []string) (map[string][]*domain.Payment, error)
	ListOnDate(ctx context.Context, date domain.Date) ([]*domain.PaymentReportRow, error)
}

// CapitalRepository defines data access for the capital ledger.
type CapitalRepository interface {
	Balances(ctx context.Context) ([]*domain.CapitalBalance, error)
	// Replace upserts a source's amount, overwriting whatever was there.
	Replace(ctx context.Context, tx Transaction, source string, amount decimal.Decimal) error
	// Add upserts a source's amount by delta, creating the row at delta.
	Add(ctx context.Context, tx Transaction, source string, delta decimal.Decimal) error
	AppendHistory(ctx context.Context, tx Transaction, entry *domain.CapitalHistoryEntry) error
	History(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation when the store reports a transient failure.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
