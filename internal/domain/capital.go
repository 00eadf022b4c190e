package domain

import (
	"github.com/shopspring/decimal"
)

// Funding sources. The capital ledger tracks a closed set of cash pools;
// balance reads zero-fill exactly these names.
const (
	SourceNequi    = "nequi"
	SourceEfectivo = "efectivo"

	// DestinationNone marks a zero-amount payment that touched no capital pool.
	DestinationNone = "ninguno"
)

// KnownSources lists every funding source in a stable order.
var KnownSources = []string{SourceNequi, SourceEfectivo}

// ValidSource reports whether name is a known funding source.
func ValidSource(name string) bool {
	for _, s := range KnownSources {
		if s == name {
			return true
		}
	}
	return false
}

// CapitalBalance is the current amount held in one funding source.
type CapitalBalance struct {
	Source string
	Amount decimal.Decimal
}

// CapitalHistoryEntry is an immutable snapshot of a source's amount on a date.
// Entries are append-only; they are never mutated or deleted.
type CapitalHistoryEntry struct {
	ID         string
	Source     string
	Amount     decimal.Decimal
	RecordedOn Date
}
