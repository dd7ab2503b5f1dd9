package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ledger/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "data", "ledger.db"), core.NewValidator(core.DefaultSchema()))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return repo
}

func tx(y, m, d int, cents int64, c core.Category, desc core.Description) core.Transaction {
	return core.Transaction{Date: core.NewDate(y, m, d), Amount: core.Money{Cents: cents}, Category: c, Description: desc}
}

func TestRepositoryAppendLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	txs := []core.Transaction{
		tx(2024, 3, 5, 3000, core.Expense, core.Food),
		tx(2024, 3, 1, 10000, core.Income, core.Salary),
		tx(2024, 3, 5, 3000, core.Expense, core.Food),
	}
	for i, want := range txs {
		ref, err := repo.Append(ctx, want)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if ref == "" {
			t.Fatalf("expected row reference")
		}
		all, err := repo.LoadAll(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(all) != i+1 || all[i] != want {
			t.Fatalf("after append %d got %+v", i, all)
		}
	}
}

func TestRepositoryInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.Append(ctx, tx(2024, 1, 1, 100, core.Income, core.Salary)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Initialize(ctx); err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	all, err := repo.LoadAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected existing row to survive, got %v err=%v", all, err)
	}
}

func TestMigrateLedgerReportsVersion(t *testing.T) {
	repo := newTestRepo(t)
	for i := 0; i < 2; i++ {
		version, err := migrateLedger(repo.dbPath)
		if err != nil {
			t.Fatalf("migrate run %d: %v", i, err)
		}
		if version != 2 {
			t.Fatalf("expected schema version 2, got %d", version)
		}
	}

	var dirty bool
	if err := repo.db.QueryRow(`SELECT dirty FROM ` + migrationsTable).Scan(&dirty); err != nil {
		t.Fatalf("read %s: %v", migrationsTable, err)
	}
	if dirty {
		t.Fatal("schema should not be dirty")
	}
}

func TestMigrateLedgerRefusesDirtySchema(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.db.Exec(`UPDATE ` + migrationsTable + ` SET dirty = 1`); err != nil {
		t.Fatalf("mark dirty: %v", err)
	}
	if err := repo.Initialize(context.Background()); !errors.Is(err, ErrDirtySchema) {
		t.Fatalf("expected ErrDirtySchema, got %v", err)
	}
}

func TestRepositoryLoadRange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	for _, x := range []core.Transaction{
		tx(2024, 2, 28, 100, core.Expense, core.Gas),
		tx(2024, 3, 1, 200, core.Expense, core.Gas),
		tx(2024, 3, 7, 300, core.Expense, core.Gas),
		tx(2024, 3, 8, 400, core.Expense, core.Gas),
	} {
		if _, err := repo.Append(ctx, x); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.LoadRange(ctx, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 7))
	if err != nil {
		t.Fatalf("load range: %v", err)
	}
	if len(got) != 2 || got[0].Amount.Cents != 200 || got[1].Amount.Cents != 300 {
		t.Fatalf("unexpected range result %+v", got)
	}

	got, err = repo.LoadRange(ctx, core.NewDate(2024, 3, 7), core.NewDate(2024, 3, 1))
	if err != nil || len(got) != 0 {
		t.Fatalf("inverted range should be empty, got %+v err=%v", got, err)
	}
}

func TestRepositorySyncLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	for i := 0; i < 3; i++ {
		if _, err := repo.Append(ctx, tx(2024, 4, i+1, 100, core.Expense, core.Online)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	pending, err := repo.PendingSync(ctx, 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != 1 || pending[0].SyncStatus != SyncPending {
		t.Fatalf("unexpected pending %+v", pending)
	}

	if err := repo.MarkSynced(ctx, 1); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if err := repo.MarkSyncError(ctx, 2); err != nil {
		t.Fatalf("mark sync error: %v", err)
	}
	pending, _ = repo.PendingSync(ctx, 10)
	if len(pending) != 1 || pending[0].ID != 3 {
		t.Fatalf("expected only id 3 pending, got %+v", pending)
	}

	got, err := repo.GetTransaction(ctx, 1)
	if err != nil || got.SyncStatus != SyncDone {
		t.Fatalf("expected synced row, got %+v err=%v", got, err)
	}
	if _, err := repo.GetTransaction(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.MarkSynced(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on mark, got %v", err)
	}
}

func TestRepositoryLoadAllSurfacesCorruption(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount_cents, category, description) VALUES ('2024-01-01', 100, 'Income', 'Lottery')`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := repo.LoadAll(ctx)
	var sc *core.StoreCorruptError
	if !errors.As(err, &sc) || !errors.Is(err, core.ErrUnknownDescription) {
		t.Fatalf("expected store corrupt error, got %v", err)
	}
}

func TestRepositoryLoadRangeSurfacesCorruption(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if _, err := repo.Append(ctx, tx(2024, 3, 2, 1500, core.Expense, core.Gas)); err != nil {
		t.Fatalf("append: %v", err)
	}
	for _, row := range []string{
		`INSERT INTO transactions (date, amount_cents, category, description) VALUES ('03-05-2024', 7000, 'Expense', 'Food')`,
		`INSERT INTO transactions (date, amount_cents, category, description) VALUES ('2023-06-01', 100, 'Expense', 'Lottery')`,
	} {
		if _, err := repo.db.ExecContext(ctx, `DELETE FROM transactions WHERE id > 1`); err != nil {
			t.Fatalf("reset: %v", err)
		}
		if _, err := repo.db.ExecContext(ctx, row); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.LoadRange(ctx, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
		var sc *core.StoreCorruptError
		if !errors.As(err, &sc) {
			t.Fatalf("%s: expected store corrupt error, got %v", row, err)
		}
	}
}
