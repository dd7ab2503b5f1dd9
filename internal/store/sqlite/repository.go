package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ledger/internal/core"
	"ledger/internal/store"

	_ "modernc.org/sqlite"
)

const (
	backendName = "sqlite"
	dateLayout  = "2006-01-02"

	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

var ErrNotFound = errors.New("transaction not found")

var (
	_ store.RecordStore = (*Repository)(nil)
	_ store.RangeReader = (*Repository)(nil)
)

type Repository struct {
	db        *sql.DB
	dbPath    string
	validator *core.Validator
}

// StoredTransaction is a transaction with its row metadata.
type StoredTransaction struct {
	ID          int64
	Transaction core.Transaction
	SyncStatus  string
}

func NewRepository(dbPath string, validator *core.Validator) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{db: db, dbPath: dbPath, validator: validator}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Initialize applies pending migrations. Existing rows are never touched.
func (r *Repository) Initialize(ctx context.Context) error {
	version, err := migrateLedger(r.dbPath)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "Ledger schema up to date", "path", r.dbPath, "version", version)
	return nil
}

// Append implements store.RecordStore; the reference is the row ID.
func (r *Repository) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := r.validator.Transaction(t); err != nil {
		return "", err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount_cents, category, description) VALUES (?, ?, ?, ?)`,
		t.Date.Format(dateLayout), t.Amount.Cents, string(t.Category), string(t.Description))
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("read transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"date", t.Date.Format(dateLayout),
		"amount_cents", t.Amount.Cents,
		"category", t.Category,
		"description", t.Description)

	return strconv.FormatInt(id, 10), nil
}

// LoadAll implements store.RecordStore.
func (r *Repository) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	return r.loadTransactions(ctx,
		`SELECT id, date, amount_cents, category, description, sync_status FROM transactions ORDER BY id`)
}

// LoadRange implements store.RangeReader. Every row is decoded and
// validated before the date filter applies, so a corrupt row fails the load
// even when its stored date would fall outside the range.
func (r *Repository) LoadRange(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	all, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(all))
	for _, t := range all {
		if t.Date.Between(start, end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *Repository) loadTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	stored, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, len(stored))
	for i, s := range stored {
		out[i] = s.Transaction
	}
	return out, nil
}

// GetTransaction retrieves a single transaction by ID.
func (r *Repository) GetTransaction(ctx context.Context, id int64) (*StoredTransaction, error) {
	rows, err := r.query(ctx,
		`SELECT id, date, amount_cents, category, description, sync_status FROM transactions WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get transaction %d: %w", id, ErrNotFound)
	}
	return &rows[0], nil
}

// PendingSync returns up to limit transactions not yet mirrored, oldest first.
func (r *Repository) PendingSync(ctx context.Context, limit int) ([]StoredTransaction, error) {
	return r.query(ctx,
		`SELECT id, date, amount_cents, category, description, sync_status FROM transactions
		 WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
}

// MarkSynced marks a transaction as successfully mirrored
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncDone); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having sync errors
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func (r *Repository) setSyncStatus(ctx context.Context, id int64, status string) error {
	var syncedAt any
	if status == SyncDone {
		syncedAt = time.Now().UTC().Format(time.DateTime)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ?, synced_at = ? WHERE id = ?`, status, syncedAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]StoredTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []StoredTransaction
	for rows.Next() {
		var (
			s           StoredTransaction
			date        string
			cents       int64
			category    string
			description string
		)
		if err := rows.Scan(&s.ID, &date, &cents, &category, &description, &s.SyncStatus); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t, err := r.toTransaction(date, cents, category, description)
		if err != nil {
			return nil, &core.StoreCorruptError{Backend: backendName, Row: int(s.ID), Err: err}
		}
		s.Transaction = t
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) toTransaction(date string, cents int64, category, description string) (core.Transaction, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, core.ErrInvalidDate)
	}
	t := core.Transaction{
		Date:        core.DateOf(d),
		Amount:      core.Money{Cents: cents},
		Category:    core.Category(category),
		Description: core.Description(description),
	}
	if err := r.validator.Transaction(t); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
