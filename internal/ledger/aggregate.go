package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

const daysPerWeek = 7

var percent = decimal.NewFromInt(100)

// Summarize computes totals over filtered. The weekly average divides the
// expense total by the number of weeks between start and end, never less
// than one week, and rounds half-up to cents. A total that does not fit in
// int64 cents fails with core.ErrAmountOutOfRange.
func Summarize(filtered []core.Transaction, start, end core.Date) (core.Summary, error) {
	var (
		s   core.Summary
		err error
	)
	for _, t := range filtered {
		switch t.Category {
		case core.Income:
			s.TotalIncome, err = s.TotalIncome.Add(t.Amount)
		case core.Expense:
			s.TotalExpense, err = s.TotalExpense.Add(t.Amount)
		}
		if err != nil {
			return core.Summary{}, fmt.Errorf("sum %s: %w", t.Category, err)
		}
	}
	s.NetSavings = s.TotalIncome.Sub(s.TotalExpense)

	avg := s.TotalExpense.Decimal().Div(Weeks(start, end))
	s.AvgWeeklyExpense, err = core.MoneyFromDecimal(avg.Round(2))
	if err != nil {
		return core.Summary{}, fmt.Errorf("weekly average: %w", err)
	}
	return s, nil
}

// Weeks returns the fractional number of weeks between start and end,
// clamped to a minimum of 1.
func Weeks(start, end core.Date) decimal.Decimal {
	weeks := decimal.NewFromInt(int64(start.DaysUntil(end))).Div(decimal.NewFromInt(daysPerWeek))
	if weeks.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return weeks
}

// SummarizeByDescription groups the expense records of filtered by
// description and returns the totals, largest first. Equal totals keep the
// order in which their description first appeared.
func SummarizeByDescription(filtered []core.Transaction) ([]core.DescriptionTotal, error) {
	index := make(map[core.Description]int)
	out := make([]core.DescriptionTotal, 0)
	for _, t := range filtered {
		if t.Category != core.Expense {
			continue
		}
		i, ok := index[t.Description]
		if !ok {
			i = len(out)
			index[t.Description] = i
			out = append(out, core.DescriptionTotal{Description: t.Description})
		}
		sum, err := out[i].Amount.Add(t.Amount)
		if err != nil {
			return nil, fmt.Errorf("sum %s: %w", t.Description, err)
		}
		out[i].Amount = sum
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out, nil
}

// Shares returns each total as a percentage of the sum of totals, in the
// same order. A zero sum yields zero shares.
func Shares(totals []core.DescriptionTotal) []decimal.Decimal {
	sum := decimal.Zero
	for _, d := range totals {
		sum = sum.Add(d.Amount.Decimal())
	}
	out := make([]decimal.Decimal, len(totals))
	for i, d := range totals {
		if sum.IsZero() {
			out[i] = decimal.Zero
			continue
		}
		out[i] = d.Amount.Decimal().Mul(percent).Div(sum)
	}
	return out
}

// FormatShare renders a share with one decimal, e.g. "85.7%".
func FormatShare(share decimal.Decimal) string {
	return share.StringFixed(1) + "%"
}

// ChartSeries sums filtered per day and category, ordered by date with
// Income before Expense on the same day.
func ChartSeries(filtered []core.Transaction) ([]core.ChartPoint, error) {
	type key struct {
		day      int64
		category core.Category
	}
	index := make(map[key]int)
	out := make([]core.ChartPoint, 0)
	for _, t := range filtered {
		k := key{t.Date.Unix(), t.Category}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, core.ChartPoint{Date: t.Date, Category: t.Category})
		}
		sum, err := out[i].Amount.Add(t.Amount)
		if err != nil {
			return nil, fmt.Errorf("sum %s on %s: %w", t.Category, t.Date, err)
		}
		out[i].Amount = sum
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return categoryRank(out[i].Category) < categoryRank(out[j].Category)
	})
	return out, nil
}

func categoryRank(c core.Category) int {
	if c == core.Income {
		return 0
	}
	return 1
}
