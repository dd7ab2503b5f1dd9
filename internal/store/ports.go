package store

import (
	"context"

	"ledger/internal/core"
)

// Ports for persistence backends.
type (
	// RecordStore is an append-only collection of transactions.
	RecordStore interface {
		// Initialize creates an empty store with the canonical header if none
		// exists. It never overwrites existing data.
		Initialize(ctx context.Context) error
		// Append persists one transaction and returns a backend row reference.
		Append(ctx context.Context, t core.Transaction) (ref string, err error)
		// LoadAll returns every stored transaction in insertion order.
		LoadAll(ctx context.Context) ([]core.Transaction, error)
	}

	// RangeReader is implemented by backends that can filter by date
	// themselves. Results are still in insertion order.
	RangeReader interface {
		LoadRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error)
	}
)
