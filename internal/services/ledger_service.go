package services

import (
	"context"
	"fmt"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/store"
)

// Publisher announces appended transactions. *amqp.Client implements it.
type Publisher interface {
	PublishTransactionAppended(ctx context.Context, msg *amqp.TransactionAppendedMessage) error
}

// LedgerService orchestrates the record store, the query engine and the
// optional event publisher.
type LedgerService struct {
	store     store.RecordStore
	validator *core.Validator
	publisher Publisher
	logger    *log.Logger
}

// NewLedgerService wires a service. publisher and logger may be nil.
func NewLedgerService(st store.RecordStore, validator *core.Validator, publisher Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		store:     st,
		validator: validator,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Validator returns the field validator bound to the store schema.
func (s *LedgerService) Validator() *core.Validator {
	return s.validator
}

// Initialize creates the backing store if it does not exist yet.
func (s *LedgerService) Initialize(ctx context.Context) error {
	if err := s.store.Initialize(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to initialize store",
			log.NewFields().WithOperation(log.OpInitialize).WithError(err).ToSlice()...)
		return fmt.Errorf("initialize store: %w", err)
	}
	return nil
}

// Add appends a vetted transaction and publishes an event for it.
// Publishing is best effort: the record is already stored.
func (s *LedgerService) Add(ctx context.Context, t core.Transaction) (string, error) {
	if err := s.validator.Transaction(t); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}

	ref, err := s.store.Append(ctx, t)
	if err != nil {
		return "", fmt.Errorf("append transaction: %w", err)
	}

	fields := log.NewFields().WithOperation(log.OpAppend).WithTransaction(t)
	fields[log.FieldRef] = ref
	s.logger.InfoContext(ctx, "Transaction appended", fields.ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionAppended(ctx, amqp.NewTransactionAppendedMessage(ref, t)); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish transaction appended message",
				log.NewFields().WithOperation(log.OpPublish).WithError(err).ToSlice()...)
		}
	}

	return ref, nil
}

// Transactions loads the store and runs a range query. Backends that can
// filter by date do so before the query engine sees the rows.
func (s *LedgerService) Transactions(ctx context.Context, p ledger.Params) ([]core.Transaction, error) {
	var (
		txs []core.Transaction
		err error
	)
	if rr, ok := s.store.(store.RangeReader); ok {
		txs, err = rr.LoadRange(ctx, p.Start, p.End)
	} else {
		txs, err = s.store.LoadAll(ctx)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load transactions",
			log.NewFields().WithOperation(log.OpLoad).WithRange(p.Start, p.End).WithError(err).ToSlice()...)
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	result := ledger.Query(txs, p)
	fields := log.NewFields().WithOperation(log.OpQuery).WithRange(p.Start, p.End)
	fields[log.FieldCount] = len(result)
	s.logger.DebugContext(ctx, "Range query", fields.ToSlice()...)
	return result, nil
}

// Report is the outcome of a range query with its summary.
type Report struct {
	Start        core.Date
	End          core.Date
	Transactions []core.Transaction
	Summary      core.Summary
}

// Empty reports whether no transaction matched the range. It is an
// informational outcome, not an error.
func (r *Report) Empty() bool {
	return len(r.Transactions) == 0
}

// Chart returns the per-day income and expense series of the report.
func (r *Report) Chart() ([]core.ChartPoint, error) {
	return ledger.ChartSeries(r.Transactions)
}

// Report queries the range and summarizes the result.
func (s *LedgerService) Report(ctx context.Context, p ledger.Params) (*Report, error) {
	txs, err := s.Transactions(ctx, p)
	if err != nil {
		return nil, err
	}
	summary, err := ledger.Summarize(txs, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return &Report{
		Start:        p.Start,
		End:          p.End,
		Transactions: txs,
		Summary:      summary,
	}, nil
}

// DescriptionReport holds expense totals per description for a range.
// Matched counts every transaction in the range, income included.
type DescriptionReport struct {
	Start   core.Date
	End     core.Date
	Matched int
	Totals  []core.DescriptionTotal
}

// Empty reports whether no transaction fell in the range. A range holding
// only income is not empty; its expense table simply has no rows.
func (r *DescriptionReport) Empty() bool {
	return r.Matched == 0
}

// Descriptions aggregates the expenses of a range by description.
func (s *LedgerService) Descriptions(ctx context.Context, start, end core.Date) (*DescriptionReport, error) {
	txs, err := s.Transactions(ctx, ledger.Params{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	totals, err := ledger.SummarizeByDescription(txs)
	if err != nil {
		return nil, fmt.Errorf("summarize by description: %w", err)
	}
	return &DescriptionReport{
		Start:   start,
		End:     end,
		Matched: len(txs),
		Totals:  totals,
	}, nil
}
