package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

type loanQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool loanQuerier
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return newLoanRepositoryWithPool(pool)
}

func newLoanRepositoryWithPool(pool loanQuerier) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanWithClientColumns = `
	l.id, l.client_id, l.principal, l.total_due, l.remaining_balance,
	l.start_date, l.term_length, l.term_unit, l.interest, l.due_date,
	l.funding_source, l.status, l.paid, l.created_at,
	c.name, c.address, c.phone`

// Create inserts a new loan inside the transaction.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	_, err := txQueryer(tx).Exec(ctx, `
		INSERT INTO loans (
			id, client_id, principal, total_due, remaining_balance,
			start_date, term_length, term_unit, interest, due_date,
			funding_source, status, paid, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		loan.ID, loan.ClientID,
		decimalToNumeric(loan.Principal), decimalToNumeric(loan.TotalDue), decimalToNumeric(loan.RemainingBalance),
		dateToPgDate(loan.StartDate), loan.TermLength, loan.TermUnit,
		decimalToNumeric(loan.Interest), dateToPgDate(loan.DueDate),
		loan.FundingSource, loan.Status, loan.Paid, timeToPgTimestamptz(loan.CreatedAt))

	return err
}

// GetByID retrieves a loan joined with its client identity.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.LoanWithClient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+loanWithClientColumns+`
		FROM loans l
		JOIN clients c ON c.id = l.client_id
		WHERE l.id = $1`, id)

	loan, err := scanLoanWithClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return loan, nil
}

// GetByIDForUpdate retrieves a loan with a FOR UPDATE lock inside the transaction.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	row := txQueryer(tx).QueryRow(ctx, `
		SELECT id, client_id, principal, total_due, remaining_balance,
		       start_date, term_length, term_unit, interest, due_date,
		       funding_source, status, paid, created_at
		FROM loans
		WHERE id = $1
		FOR UPDATE`, id)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return loan, nil
}

// UpdateAfterPayment writes the loan's post-payment balance and status.
func (r *LoanRepository) UpdateAfterPayment(ctx context.Context, tx usecase.Transaction, id string, remaining decimal.Decimal, status string, paid bool) error {
	tag, err := txQueryer(tx).Exec(ctx, `
		UPDATE loans SET remaining_balance = $2, status = $3, paid = $4
		WHERE id = $1`,
		id, decimalToNumeric(remaining), status, paid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// Delete removes a loan. Payment rows are left alone.
func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// ListWithClients retrieves every loan with client identity, newest first.
func (r *LoanRepository) ListWithClients(ctx context.Context) ([]*domain.LoanWithClient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanWithClientColumns+`
		FROM loans l
		JOIN clients c ON c.id = l.client_id
		ORDER BY l.start_date DESC, l.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoansWithClients(rows)
}

// ListOwingDueAfter retrieves owing loans whose due date is on or after asOf.
func (r *LoanRepository) ListOwingDueAfter(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanWithClientColumns+`
		FROM loans l
		JOIN clients c ON c.id = l.client_id
		WHERE l.status = $1 AND l.due_date >= $2
		ORDER BY l.start_date DESC, l.created_at DESC`,
		domain.StatusOwing, dateToPgDate(asOf))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoansWithClients(rows)
}

// PaidClientNames retrieves the distinct names of clients with a paid-off loan.
func (r *LoanRepository) PaidClientNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT c.name
		FROM loans l
		JOIN clients c ON c.id = l.client_id
		WHERE l.status = $1
		ORDER BY c.name`, domain.StatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// Totals sums disbursed principal over all loans and realized interest over
// paid-off loans, each within the optional start-date range.
func (r *LoanRepository) Totals(ctx context.Context, from, to domain.Date) (decimal.Decimal, decimal.Decimal, error) {
	lentQuery := `SELECT COALESCE(SUM(principal), 0) FROM loans`
	earnedQuery := `SELECT COALESCE(SUM(total_due - principal), 0) FROM loans WHERE status = 'pagado'`

	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		args = append(args, dateToPgDate(from))
		conds = append(conds, fmt.Sprintf("start_date >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, dateToPgDate(to))
		conds = append(conds, fmt.Sprintf("start_date <= $%d", len(args)))
	}
	if len(conds) > 0 {
		filter := strings.Join(conds, " AND ")
		lentQuery += ` WHERE ` + filter
		earnedQuery += ` AND ` + filter
	}

	var lent, earned pgtype.Numeric
	if err := r.pool.QueryRow(ctx, lentQuery, args...).Scan(&lent); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if err := r.pool.QueryRow(ctx, earnedQuery, args...).Scan(&earned); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(lent), numericToDecimal(earned), nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		l                              domain.Loan
		principal, totalDue, remaining pgtype.Numeric
		interest                       pgtype.Numeric
		startDate, dueDate             pgtype.Date
	)

	err := row.Scan(
		&l.ID, &l.ClientID, &principal, &totalDue, &remaining,
		&startDate, &l.TermLength, &l.TermUnit, &interest, &dueDate,
		&l.FundingSource, &l.Status, &l.Paid, &l.CreatedAt)
	if err != nil {
		return nil, err
	}

	l.Principal = numericToDecimal(principal)
	l.TotalDue = numericToDecimal(totalDue)
	l.RemainingBalance = numericToDecimal(remaining)
	l.Interest = numericToDecimal(interest)
	l.StartDate = pgDateToDate(startDate)
	l.DueDate = pgDateToDate(dueDate)

	return &l, nil
}

func scanLoanWithClient(row pgx.Row) (*domain.LoanWithClient, error) {
	var (
		lc                             domain.LoanWithClient
		principal, totalDue, remaining pgtype.Numeric
		interest                       pgtype.Numeric
		startDate, dueDate             pgtype.Date
	)

	err := row.Scan(
		&lc.ID, &lc.ClientID, &principal, &totalDue, &remaining,
		&startDate, &lc.TermLength, &lc.TermUnit, &interest, &dueDate,
		&lc.FundingSource, &lc.Status, &lc.Paid, &lc.CreatedAt,
		&lc.ClientName, &lc.ClientAddress, &lc.ClientPhone)
	if err != nil {
		return nil, err
	}

	lc.Principal = numericToDecimal(principal)
	lc.TotalDue = numericToDecimal(totalDue)
	lc.RemainingBalance = numericToDecimal(remaining)
	lc.Interest = numericToDecimal(interest)
	lc.StartDate = pgDateToDate(startDate)
	lc.DueDate = pgDateToDate(dueDate)

	return &lc, nil
}

func collectLoansWithClients(rows pgx.Rows) ([]*domain.LoanWithClient, error) {
	loans := make([]*domain.LoanWithClient, 0)
	for rows.Next() {
		loan, err := scanLoanWithClient(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}
