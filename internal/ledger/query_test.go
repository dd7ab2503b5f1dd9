package ledger

import (
	"testing"

	"ledger/internal/core"
)

func tx(y, m, d int, cents int64, cat core.Category, desc core.Description) core.Transaction {
	return core.Transaction{
		Date:        core.NewDate(y, m, d),
		Amount:      core.Money{Cents: cents},
		Category:    cat,
		Description: desc,
	}
}

func TestFilterInclusiveRange(t *testing.T) {
	txs := []core.Transaction{
		tx(2024, 1, 1, 100, core.Expense, core.Food),
		tx(2024, 1, 5, 200, core.Expense, core.Gas),
		tx(2024, 1, 10, 300, core.Income, core.Salary),
		tx(2024, 1, 11, 400, core.Expense, core.Travel),
	}

	tests := []struct {
		name       string
		start, end core.Date
		want       int
	}{
		{"both ends inclusive", core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 10), 3},
		{"single day", core.NewDate(2024, 1, 5), core.NewDate(2024, 1, 5), 1},
		{"no match", core.NewDate(2023, 1, 1), core.NewDate(2023, 12, 31), 0},
		{"inverted range", core.NewDate(2024, 1, 10), core.NewDate(2024, 1, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(txs, tt.start, tt.end)
			if got == nil {
				t.Fatalf("expected empty slice, got nil")
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d transactions, got %d", tt.want, len(got))
			}
			for _, g := range got {
				if !g.Date.Between(tt.start, tt.end) {
					t.Errorf("transaction %v outside range", g.Date)
				}
			}
		})
	}
}

func TestQueryStableSort(t *testing.T) {
	// Records 0 and 2 share a date, 1 and 3 share an amount.
	txs := []core.Transaction{
		tx(2024, 3, 2, 500, core.Expense, core.Food),
		tx(2024, 3, 1, 700, core.Expense, core.Gas),
		tx(2024, 3, 2, 300, core.Expense, core.Online),
		tx(2024, 3, 3, 700, core.Income, core.Salary),
	}
	p := Params{Start: core.NewDate(2024, 3, 1), End: core.NewDate(2024, 3, 31)}

	tests := []struct {
		name  string
		key   SortKey
		order SortOrder
		want  []core.Description
	}{
		{"no sort keeps store order", SortNone, Descend, []core.Description{core.Food, core.Gas, core.Online, core.Salary}},
		{"date ascend", SortDate, Ascend, []core.Description{core.Gas, core.Food, core.Online, core.Salary}},
		{"date descend", SortDate, Descend, []core.Description{core.Salary, core.Food, core.Online, core.Gas}},
		{"amount ascend", SortAmount, Ascend, []core.Description{core.Online, core.Food, core.Gas, core.Salary}},
		{"amount descend", SortAmount, Descend, []core.Description{core.Gas, core.Salary, core.Food, core.Online}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.SortKey, p.SortOrder = tt.key, tt.order
			got := Query(txs, p)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i].Description != tt.want[i] {
					t.Fatalf("position %d: expected %s, got %s", i, tt.want[i], got[i].Description)
				}
			}
		})
	}
}

func TestQueryDoesNotReorderInput(t *testing.T) {
	txs := []core.Transaction{
		tx(2024, 3, 2, 500, core.Expense, core.Food),
		tx(2024, 3, 1, 700, core.Expense, core.Gas),
	}
	Query(txs, Params{Start: core.NewDate(2024, 1, 1), End: core.NewDate(2024, 12, 31), SortKey: SortDate})
	if txs[0].Description != core.Food {
		t.Fatalf("input slice was modified")
	}
}

func TestQueryEmptyStore(t *testing.T) {
	got := Query(nil, Params{Start: core.NewDate(2024, 1, 1), End: core.NewDate(2024, 12, 31), SortKey: SortAmount})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestParseSortParams(t *testing.T) {
	keys := map[string]SortKey{
		"Date":    SortDate,
		"amount":  SortAmount,
		" DATE ":  SortDate,
		"":        SortNone,
		"price":   SortNone,
		"None":    SortNone,
	}
	for in, want := range keys {
		if got := ParseSortKey(in); got != want {
			t.Errorf("ParseSortKey(%q) = %v, want %v", in, got, want)
		}
	}

	orders := map[string]SortOrder{
		"Descend":  Descend,
		"desc":     Descend,
		"Ascend":   Ascend,
		"":         Ascend,
		"sideways": Ascend,
	}
	for in, want := range orders {
		if got := ParseSortOrder(in); got != want {
			t.Errorf("ParseSortOrder(%q) = %v, want %v", in, got, want)
		}
	}
}
