package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a payment inside the transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	_, err := txQueryer(tx).Exec(ctx, `
		INSERT INTO payments (id, loan_id, amount, paid_on, destination, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		payment.ID, payment.LoanID, decimalToNumeric(payment.Amount),
		dateToPgDate(payment.PaidOn), payment.Destination, timeToPgTimestamptz(payment.CreatedAt))

	return err
}

// ListByLoan retrieves a loan's payments in chronological order.
func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, loan_id, amount, paid_on, destination, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY paid_on ASC, created_at ASC`, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

// ListByLoans retrieves payments for a set of loans, grouped by loan, each
// group in chronological order.
func (r *PaymentRepository) ListByLoans(ctx context.Context, loanIDs []string) (map[string][]*domain.Payment, error) {
	grouped := make(map[string][]*domain.Payment)
	if len(loanIDs) == 0 {
		return grouped, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, loan_id, amount, paid_on, destination, created_at
		FROM payments
		WHERE loan_id = ANY($1)
		ORDER BY paid_on ASC, created_at ASC`, loanIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments, err := collectPayments(rows)
	if err != nil {
		return nil, err
	}

	for _, p := range payments {
		grouped[p.LoanID] = append(grouped[p.LoanID], p)
	}

	return grouped, nil
}

// ListOnDate retrieves the payments recorded on a date together with the loan
// and client context a daily report needs.
func (r *PaymentRepository) ListOnDate(ctx context.Context, on domain.Date) ([]*domain.PaymentReportRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.loan_id, p.amount, p.paid_on, p.destination, p.created_at,
		       l.total_due, l.remaining_balance, l.start_date, l.term_unit,
		       c.name
		FROM payments p
		JOIN loans l ON l.id = p.loan_id
		JOIN clients c ON c.id = l.client_id
		WHERE p.paid_on = $1
		ORDER BY p.created_at ASC`, dateToPgDate(on))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reportRows := make([]*domain.PaymentReportRow, 0)
	for rows.Next() {
		var (
			row                 domain.PaymentReportRow
			amount              pgtype.Numeric
			totalDue, remaining pgtype.Numeric
			paidOn, startDate   pgtype.Date
		)

		err := rows.Scan(
			&row.ID, &row.LoanID, &amount, &paidOn, &row.Destination, &row.CreatedAt,
			&totalDue, &remaining, &startDate, &row.LoanTermUnit,
			&row.ClientName)
		if err != nil {
			return nil, err
		}

		row.Amount = numericToDecimal(amount)
		row.PaidOn = pgDateToDate(paidOn)
		row.LoanTotalDue = numericToDecimal(totalDue)
		row.LoanRemaining = numericToDecimal(remaining)
		row.LoanStartDate = pgDateToDate(startDate)

		reportRows = append(reportRows, &row)
	}

	return reportRows, rows.Err()
}

func collectPayments(rows pgx.Rows) ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		var (
			p      domain.Payment
			amount pgtype.Numeric
			paidOn pgtype.Date
		)

		err := rows.Scan(&p.ID, &p.LoanID, &amount, &paidOn, &p.Destination, &p.CreatedAt)
		if err != nil {
			return nil, err
		}

		p.Amount = numericToDecimal(amount)
		p.PaidOn = pgDateToDate(paidOn)

		payments = append(payments, &p)
	}

	return payments, rows.Err()
}
