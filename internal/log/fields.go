package log

import "ledger/internal/core"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldBackend     = "backend"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldRef         = "ref"
	FieldDate        = "date"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldRangeStart  = "range_start"
	FieldRangeEnd    = "range_end"
	FieldCount       = "count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentShell   = "shell"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpInitialize = "initialize"
	OpAppend     = "append"
	OpLoad       = "load"
	OpQuery      = "query"
	OpSummarize  = "summarize"
	OpPublish    = "publish"
	OpSync       = "sync"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeCorruption    = "corruption_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeNetwork       = "network_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds the fields of a ledger record
func (f LogFields) WithTransaction(t core.Transaction) LogFields {
	f[FieldDate] = t.Date.Format(core.DefaultDateLayout)
	f[FieldAmountCents] = t.Amount.Cents
	f[FieldCategory] = string(t.Category)
	f[FieldDescription] = string(t.Description)
	return f
}

// WithRange adds query range fields
func (f LogFields) WithRange(start, end core.Date) LogFields {
	f[FieldRangeStart] = start.Format(core.DefaultDateLayout)
	f[FieldRangeEnd] = end.Format(core.DefaultDateLayout)
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
