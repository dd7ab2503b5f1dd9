// Package ledger filters, sorts and aggregates transactions loaded from a
// record store. It performs no I/O and raises no errors of its own.
package ledger

import (
	"sort"
	"strings"

	"ledger/internal/core"
)

// SortKey selects the field a query result is ordered by.
type SortKey int

const (
	SortNone SortKey = iota
	SortDate
	SortAmount
)

// SortOrder is the direction of a sorted query.
type SortOrder int

const (
	Ascend SortOrder = iota
	Descend
)

func (k SortKey) String() string {
	switch k {
	case SortDate:
		return "Date"
	case SortAmount:
		return "Amount"
	default:
		return "None"
	}
}

func (o SortOrder) String() string {
	if o == Descend {
		return "Descend"
	}
	return "Ascend"
}

// ParseSortKey maps user text to a SortKey. Anything other than a date or
// amount key means no sorting.
func ParseSortKey(raw string) SortKey {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "date", "d":
		return SortDate
	case "amount", "a":
		return SortAmount
	default:
		return SortNone
	}
}

// ParseSortOrder maps user text to a SortOrder. Unrecognized text falls back
// to Ascend.
func ParseSortOrder(raw string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "descend", "desc", "d":
		return Descend
	default:
		return Ascend
	}
}

// Params describes a range query.
type Params struct {
	Start     core.Date
	End       core.Date
	SortKey   SortKey
	SortOrder SortOrder
}

// Filter returns the transactions dated within [start, end], in input order.
// An inverted range yields an empty result.
func Filter(txs []core.Transaction, start, end core.Date) []core.Transaction {
	out := make([]core.Transaction, 0)
	if end.Before(start) {
		return out
	}
	for _, t := range txs {
		if t.Date.Between(start, end) {
			out = append(out, t)
		}
	}
	return out
}

// Query filters txs to the requested range and sorts the result when a sort
// key is set. Sorting is stable in both directions: records with equal keys
// keep their store order.
func Query(txs []core.Transaction, p Params) []core.Transaction {
	out := Filter(txs, p.Start, p.End)
	if p.SortKey == SortNone || len(out) < 2 {
		return out
	}

	less := keyLess(p.SortKey)
	if p.SortOrder == Descend {
		sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func keyLess(key SortKey) func(a, b core.Transaction) bool {
	if key == SortAmount {
		return func(a, b core.Transaction) bool { return a.Amount.Cents < b.Amount.Cents }
	}
	return func(a, b core.Transaction) bool { return a.Date.Before(b.Date) }
}
