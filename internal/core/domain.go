package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

const (
	Food          Description = "Food"
	Groceries     Description = "Groceries"
	Housing       Description = "Housing"
	Shopping      Description = "Shopping"
	Travel        Description = "Travel"
	Salary        Description = "Salary"
	Gas           Description = "Gas"
	Entertainment Description = "Entertainment"
	Online        Description = "Online"
	Other         Description = "Other"
)

// DefaultDateLayout is the MM-DD-YYYY layout used by the tabular store.
const DefaultDateLayout = "01-02-2006"

type (
	Category    string
	Description string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		Date        Date
		Amount      Money
		Category    Category
		Description Description
	}

	// Schema carries the column names, date format and closed sets that
	// validators and backends agree on.
	Schema struct {
		Columns          []string
		DateLayout       string
		InputDateLayouts []string // extra layouts accepted on input only
		CategoryCodes    map[string]Category
		Descriptions     []Description
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownDescription = errors.New("unknown description")
	ErrFieldCount         = errors.New("wrong number of fields")
	ErrSubCentAmount      = errors.New("amount has more than two decimal places")
	ErrAmountOutOfRange   = errors.New("amount out of range")
)

// DefaultSchema returns the canonical ledger schema.
func DefaultSchema() Schema {
	return Schema{
		Columns:          []string{"Date", "Amount", "Category", "Description"},
		DateLayout:       DefaultDateLayout,
		InputDateLayouts: []string{"1-2-2006"},
		CategoryCodes: map[string]Category{
			"I": Income,
			"E": Expense,
		},
		Descriptions: []Description{
			Food, Groceries, Housing, Shopping, Travel,
			Salary, Gas, Entertainment, Online, Other,
		},
	}
}

// WithDateLayout returns a copy of the schema using layout as canonical format.
func (s Schema) WithDateLayout(layout string) Schema {
	if strings.TrimSpace(layout) == "" {
		return s
	}
	s.DateLayout = layout
	return s
}

// Categories lists the category values in code order (I, E for the default schema).
func (s Schema) Categories() []Category {
	out := make([]Category, 0, len(s.CategoryCodes))
	for _, c := range []Category{Income, Expense} {
		for _, v := range s.CategoryCodes {
			if v == c {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// HasCategory reports whether c is a stored category value of the schema.
func (s Schema) HasCategory(c Category) bool {
	for _, v := range s.CategoryCodes {
		if v == c {
			return true
		}
	}
	return false
}

// HasDescription reports whether d is in the closed label set.
func (s Schema) HasDescription(d Description) bool {
	for _, v := range s.Descriptions {
		if v == d {
			return true
		}
	}
	return false
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Format renders the date with the given layout.
func (d Date) Format(layout string) string {
	return d.Time.Format(layout)
}

// DaysUntil returns the whole number of days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }

// Between reports whether start <= d <= end.
func (d Date) Between(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the record against schema. Field failures are reported as
// domain errors since the values are already typed.
func (t Transaction) Validate(schema Schema) error {
	if err := t.Date.Validate(); err != nil {
		return domainError("date", t.Date.String(), err)
	}
	if err := t.Amount.Validate(); err != nil {
		return domainError("amount", t.Amount.String(), err)
	}
	if !schema.HasCategory(t.Category) {
		return domainError("category", string(t.Category), ErrUnknownCategory)
	}
	if !schema.HasDescription(t.Description) {
		return domainError("description", string(t.Description), ErrUnknownDescription)
	}
	return nil
}
