package memory

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
)

func TestMemoryStoreAppendAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New(core.DefaultSchema())
	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	tx := core.Transaction{
		Date:        core.NewDate(2024, 1, 2),
		Amount:      core.Money{Cents: 450},
		Category:    core.Expense,
		Description: core.Food,
	}
	for i := 1; i <= 2; i++ {
		ref, err := s.Append(ctx, tx)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		all, err := s.LoadAll(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(all) != i || all[len(all)-1] != tx {
			t.Fatalf("unexpected load after append %d (ref=%s): %+v", i, ref, all)
		}
	}
	if ref, _ := s.Append(ctx, tx); ref != "mem:3" {
		t.Fatalf("unexpected ref %q", ref)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	s := NewSeeded(core.DefaultSchema())
	_, err := s.Append(context.Background(), core.Transaction{
		Date:        core.NewDate(2024, 1, 2),
		Amount:      core.Money{Cents: 0},
		Category:    core.Expense,
		Description: core.Food,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("invalid record must not be stored")
	}
}

func TestMemoryStoreRequiresInitialize(t *testing.T) {
	s := New(core.DefaultSchema())
	_, err := s.Append(context.Background(), core.Transaction{
		Date:        core.NewDate(2024, 1, 2),
		Amount:      core.Money{Cents: 1},
		Category:    core.Income,
		Description: core.Salary,
	})
	if err == nil {
		t.Fatalf("expected error before initialize")
	}
}

func TestMemoryStoreLoadAllDetectsCorruption(t *testing.T) {
	good := core.Transaction{Date: core.NewDate(2024, 1, 2), Amount: core.Money{Cents: 1}, Category: core.Income, Description: core.Salary}
	bad := good
	bad.Description = "Bonus"
	s := NewSeeded(core.DefaultSchema(), good, bad)

	_, err := s.LoadAll(context.Background())
	var sc *core.StoreCorruptError
	if !errors.As(err, &sc) || sc.Row != 2 {
		t.Fatalf("expected corruption at row 2, got %v", err)
	}
}
