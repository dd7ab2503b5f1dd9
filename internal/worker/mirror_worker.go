package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/store"
	"ledger/internal/store/sqlite"
)

// SyncSource is the primary store the worker reads sync state from.
// *sqlite.Repository implements it.
type SyncSource interface {
	GetTransaction(ctx context.Context, id int64) (*sqlite.StoredTransaction, error)
	PendingSync(ctx context.Context, limit int) ([]sqlite.StoredTransaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// MirrorWorker copies appended transactions into a mirror store (a Google
// Sheets spreadsheet in production). When a sync source is configured,
// rows are read from it and their sync status is maintained; otherwise the
// record carried by the message is mirrored as is.
type MirrorWorker struct {
	source    SyncSource
	mirror    store.RecordStore
	validator *core.Validator
	batchSize int

	// mu serializes message handling and the pending sweep so a row is
	// never mirrored twice by both paths.
	mu sync.Mutex
}

func NewMirrorWorker(source SyncSource, mirror store.RecordStore, validator *core.Validator, batchSize int) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &MirrorWorker{
		source:    source,
		mirror:    mirror,
		validator: validator,
		batchSize: batchSize,
	}
}

// HandleAppended processes a single transaction appended message from AMQP
func (w *MirrorWorker) HandleAppended(ctx context.Context, msg *amqp.TransactionAppendedMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	slog.InfoContext(ctx, "Processing transaction appended message", "ref", msg.Ref)

	if id, ok := w.sourceID(msg.Ref); ok {
		stored, err := w.source.GetTransaction(ctx, id)
		if err != nil && !errors.Is(err, sqlite.ErrNotFound) {
			return fmt.Errorf("get transaction from source: %w", err)
		}
		if err == nil {
			if stored.SyncStatus == sqlite.SyncDone {
				slog.InfoContext(ctx, "Transaction already mirrored, skipping", "id", id)
				return nil
			}
			return w.mirrorStored(ctx, stored.ID, stored.Transaction)
		}
		slog.WarnContext(ctx, "Transaction not in source, mirroring message payload", "id", id)
	}

	t, err := msg.Transaction(w.validator)
	if err != nil {
		// Invalid payloads are dropped, not requeued.
		slog.ErrorContext(ctx, "Discarding invalid transaction message", "ref", msg.Ref, "error", err)
		return nil
	}
	ref, err := w.mirror.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}
	slog.InfoContext(ctx, "Successfully mirrored transaction", "ref", msg.Ref, "mirror_ref", ref)
	return nil
}

// ProcessPending mirrors transactions that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *MirrorWorker) ProcessPending(ctx context.Context) (int, error) {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck runs a larger sweep at worker startup to recover from
// missed messages or worker downtime.
func (w *MirrorWorker) StartupSyncCheck(ctx context.Context) error {
	n, err := w.processPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "synced", n)
	return nil
}

func (w *MirrorWorker) processPending(ctx context.Context, limit int) (int, error) {
	if w.source == nil {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	pending, err := w.source.PendingSync(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	synced := 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		if err := w.mirrorStored(ctx, p.ID, p.Transaction); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction", "id", p.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

func (w *MirrorWorker) mirrorStored(ctx context.Context, id int64, t core.Transaction) error {
	ref, err := w.mirror.Append(ctx, t)
	if err != nil {
		if markErr := w.source.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	// Don't return error here - the row is already in the mirror
	if err := w.source.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully mirrored transaction",
		"id", id,
		"mirror_ref", ref,
		"description", t.Description,
		"amount_cents", t.Amount.Cents)
	return nil
}

func (w *MirrorWorker) sourceID(ref string) (int64, bool) {
	if w.source == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
