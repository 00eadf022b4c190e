package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
)

const (
	balancesCacheKey = "capital:balances"
	balancesCacheTTL = time.Minute
)

// CapitalUseCase handles the capital ledger: current balances per funding
// source and the append-only history behind them.
type CapitalUseCase struct {
	txManager   TransactionManager
	capitalRepo CapitalRepository
	idGen       IDGenerator
	cache       Cache
	loc         *time.Location
}

// NewCapitalUseCase creates a new CapitalUseCase. cache may be nil, in which
// case every read goes to the store.
func NewCapitalUseCase(
	txManager TransactionManager,
	capitalRepo CapitalRepository,
	idGen IDGenerator,
	cache Cache,
	loc *time.Location,
) *CapitalUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &CapitalUseCase{
		txManager:   txManager,
		capitalRepo: capitalRepo,
		idGen:       idGen,
		cache:       cache,
		loc:         loc,
	}
}

// Balances returns the current amount held in each known funding source,
// zero-filling sources that have no row yet.
func (uc *CapitalUseCase) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balancesCacheKey); err == nil {
			var balances map[string]decimal.Decimal
			if err := json.Unmarshal([]byte(cached), &balances); err == nil {
				return balances, nil
			}
		}
	}

	rows, err := uc.capitalRepo.Balances(ctx)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(domain.KnownSources))
	for _, source := range domain.KnownSources {
		balances[source] = decimal.Zero
	}
	for _, row := range rows {
		balances[row.Source] = row.Amount
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(balances); err == nil {
			_ = uc.cache.Set(ctx, balancesCacheKey, string(encoded), balancesCacheTTL)
		}
	}

	return balances, nil
}

// SetBalancesInput carries the replacement amount per funding source.
type SetBalancesInput struct {
	Nequi    decimal.Decimal
	Efectivo decimal.Decimal
}

// SetBalances replaces both source amounts and appends one history entry per
// source dated today. Either everything is persisted or nothing is.
func (uc *CapitalUseCase) SetBalances(ctx context.Context, input SetBalancesInput) error {
	today := domain.Today(uc.loc)
	amounts := map[string]decimal.Decimal{
		domain.SourceNequi:    input.Nequi,
		domain.SourceEfectivo: input.Efectivo,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, source := range domain.KnownSources {
		if err := uc.capitalRepo.Replace(ctx, tx, source, amounts[source]); err != nil {
			return err
		}

		entry := &domain.CapitalHistoryEntry{
			ID:         uc.idGen.Generate(),
			Source:     source,
			Amount:     amounts[source],
			RecordedOn: today,
		}
		if err := uc.capitalRepo.AppendHistory(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.invalidateBalances(ctx)

	return nil
}

// History returns capital snapshots newest first. Either bound may be zero to
// leave that side open.
func (uc *CapitalUseCase) History(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error) {
	return uc.capitalRepo.History(ctx, from, to)
}

func (uc *CapitalUseCase) invalidateBalances(ctx context.Context) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balancesCacheKey)
	}
}
