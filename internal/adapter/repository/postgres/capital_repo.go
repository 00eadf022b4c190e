package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

type capitalQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CapitalRepository implements usecase.CapitalRepository.
type CapitalRepository struct {
	pool capitalQuerier
}

// NewCapitalRepository creates a new CapitalRepository.
func NewCapitalRepository(pool *pgxpool.Pool) *CapitalRepository {
	return newCapitalRepositoryWithPool(pool)
}

func newCapitalRepositoryWithPool(pool capitalQuerier) *CapitalRepository {
	return &CapitalRepository{pool: pool}
}

// Balances retrieves the current balance per funding source.
func (r *CapitalRepository) Balances(ctx context.Context) ([]*domain.CapitalBalance, error) {
	rows, err := r.pool.Query(ctx, `SELECT source, amount FROM capital ORDER BY source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]*domain.CapitalBalance, 0)
	for rows.Next() {
		var (
			b      domain.CapitalBalance
			amount pgtype.Numeric
		)

		if err := rows.Scan(&b.Source, &amount); err != nil {
			return nil, err
		}
		b.Amount = numericToDecimal(amount)

		balances = append(balances, &b)
	}

	return balances, rows.Err()
}

// Replace sets a source's balance to an absolute amount.
func (r *CapitalRepository) Replace(ctx context.Context, tx usecase.Transaction, source string, amount decimal.Decimal) error {
	_, err := txQueryer(tx).Exec(ctx, `
		INSERT INTO capital (source, amount)
		VALUES ($1, $2)
		ON CONFLICT (source) DO UPDATE SET amount = excluded.amount`,
		source, decimalToNumeric(amount))

	return err
}

// Add applies a signed delta to a source's balance.
func (r *CapitalRepository) Add(ctx context.Context, tx usecase.Transaction, source string, delta decimal.Decimal) error {
	_, err := txQueryer(tx).Exec(ctx, `
		INSERT INTO capital (source, amount)
		VALUES ($1, $2)
		ON CONFLICT (source) DO UPDATE SET amount = capital.amount + excluded.amount`,
		source, decimalToNumeric(delta))

	return err
}

// AppendHistory records a balance snapshot inside the transaction.
func (r *CapitalRepository) AppendHistory(ctx context.Context, tx usecase.Transaction, entry *domain.CapitalHistoryEntry) error {
	_, err := txQueryer(tx).Exec(ctx, `
		INSERT INTO capital_history (id, source, amount, recorded_on)
		VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.Source, decimalToNumeric(entry.Amount), dateToPgDate(entry.RecordedOn))

	return err
}

// History retrieves balance snapshots newest first, optionally bounded.
func (r *CapitalRepository) History(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error) {
	query := `SELECT id, source, amount, recorded_on FROM capital_history`

	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		args = append(args, dateToPgDate(from))
		conds = append(conds, fmt.Sprintf("recorded_on >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, dateToPgDate(to))
		conds = append(conds, fmt.Sprintf("recorded_on <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY recorded_on DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.CapitalHistoryEntry, 0)
	for rows.Next() {
		var (
			e          domain.CapitalHistoryEntry
			amount     pgtype.Numeric
			recordedOn pgtype.Date
		)

		if err := rows.Scan(&e.ID, &e.Source, &amount, &recordedOn); err != nil {
			return nil, err
		}
		e.Amount = numericToDecimal(amount)
		e.RecordedOn = pgDateToDate(recordedOn)

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
