package core

import (
	"strings"
	"time"
)

// Validator turns raw field text into typed transaction fields. It never
// retries; callers that talk to a person own the re-prompt loop.
type Validator struct {
	schema Schema
	now    func() time.Time
}

type ValidatorOption func(*Validator)

// WithClock overrides the clock used for the default date.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) { v.now = now }
}

func NewValidator(schema Schema, opts ...ValidatorOption) *Validator {
	v := &Validator{schema: schema, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Schema returns the schema the validator enforces.
func (v *Validator) Schema() Schema {
	return v.schema
}

// Today returns the current calendar date.
func (v *Validator) Today() Date {
	return DateOf(v.now())
}

// Date parses raw with the schema date layout. When allowDefault is set an
// empty input yields today's date.
func (v *Validator) Date(raw string, allowDefault bool) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && allowDefault {
		return v.Today(), nil
	}
	layouts := append([]string{v.schema.DateLayout}, v.schema.InputDateLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, formatError("date", raw, ErrInvalidDate)
}

// Amount parses a strictly positive amount with at most two decimal places.
func (v *Validator) Amount(raw string) (Money, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return Money{}, formatError("amount", raw, err)
	}
	if !d.IsPositive() {
		return Money{}, domainError("amount", raw, ErrInvalidAmount)
	}
	m, err := MoneyFromDecimal(d)
	if err != nil {
		return Money{}, domainError("amount", raw, err)
	}
	if err := m.Validate(); err != nil {
		return Money{}, domainError("amount", raw, err)
	}
	return m, nil
}

// Category maps a case-insensitive category code (I or E) to its value.
func (v *Validator) Category(raw string) (Category, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if c, ok := v.schema.CategoryCodes[code]; ok {
		return c, nil
	}
	return "", domainError("category", raw, ErrUnknownCategory)
}

// StoredCategory accepts the persisted form (Income, Expense).
func (v *Validator) StoredCategory(raw string) (Category, error) {
	c := Category(strings.TrimSpace(raw))
	if !v.schema.HasCategory(c) {
		return "", domainError("category", raw, ErrUnknownCategory)
	}
	return c, nil
}

// Description requires an exact match of a label in the closed set.
func (v *Validator) Description(raw string) (Description, error) {
	d := Description(raw)
	if !v.schema.HasDescription(d) {
		return "", domainError("description", raw, ErrUnknownDescription)
	}
	return d, nil
}

// Transaction re-validates a complete record.
func (v *Validator) Transaction(t Transaction) error {
	return t.Validate(v.schema)
}

// ParseRecord builds a transaction from one stored row in schema column
// order. Dates must use the canonical layout exactly.
func (v *Validator) ParseRecord(fields []string) (Transaction, error) {
	if len(fields) != len(v.schema.Columns) {
		return Transaction{}, formatError("record", strings.Join(fields, ","), ErrFieldCount)
	}
	t, err := time.Parse(v.schema.DateLayout, strings.TrimSpace(fields[0]))
	if err != nil {
		return Transaction{}, formatError("date", fields[0], ErrInvalidDate)
	}
	amount, err := v.Amount(fields[1])
	if err != nil {
		return Transaction{}, err
	}
	category, err := v.StoredCategory(fields[2])
	if err != nil {
		return Transaction{}, err
	}
	desc, err := v.Description(strings.TrimSpace(fields[3]))
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Date:        DateOf(t),
		Amount:      amount,
		Category:    category,
		Description: desc,
	}, nil
}

// FormatRecord renders t as one stored row in schema column order.
func (v *Validator) FormatRecord(t Transaction) []string {
	return []string{
		t.Date.Format(v.schema.DateLayout),
		t.Amount.String(),
		string(t.Category),
		string(t.Description),
	}
}
