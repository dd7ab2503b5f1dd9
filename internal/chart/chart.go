// Package chart draws income/expense series as horizontal text bars.
package chart

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Renderer is a sink for chart data; it never affects ledger state.
type Renderer interface {
	Transactions(w io.Writer, points []core.ChartPoint) error
	Descriptions(w io.Writer, totals []core.DescriptionTotal) error
}

const defaultWidth = 40

// Text renders bar charts with block characters, or '#' when ASCII is set.
type Text struct {
	Width      int
	ASCII      bool
	DateLayout string
}

var _ Renderer = (*Text)(nil)

func NewText(ascii bool) *Text {
	return &Text{Width: defaultWidth, ASCII: ascii, DateLayout: core.DefaultDateLayout}
}

// Transactions plots one bar per day and category.
func (t *Text) Transactions(w io.Writer, points []core.ChartPoint) error {
	rows := make([]row, len(points))
	for i, p := range points {
		rows[i] = row{
			label:  p.Date.Format(t.layout()) + "\t" + string(p.Category),
			amount: p.Amount,
			fill:   t.fill(p.Category),
		}
	}
	return t.draw(w, "Income and Expense by Date", rows)
}

// Descriptions plots expense totals per description with each one's share
// of the expense total.
func (t *Text) Descriptions(w io.Writer, totals []core.DescriptionTotal) error {
	shares := ledger.Shares(totals)
	rows := make([]row, len(totals))
	for i, d := range totals {
		rows[i] = row{
			label:  string(d.Description),
			amount: d.Amount,
			fill:   t.fill(core.Expense),
			share:  ledger.FormatShare(shares[i]),
		}
	}
	return t.draw(w, "Expenses by Description", rows)
}

type row struct {
	label  string
	amount core.Money
	fill   string
	share  string
}

func (t *Text) draw(w io.Writer, title string, rows []row) error {
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(no data)")
		return err
	}

	var peak int64
	for _, r := range rows {
		if r.amount.Cents > peak {
			peak = r.amount.Cents
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		bar := strings.Repeat(r.fill, barLength(r.amount.Cents, peak, t.width()))
		line := fmt.Sprintf("%s\t%s %s", r.label, bar, r.amount.Dollars())
		if r.share != "" {
			line += "\t" + r.share
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// barLength scales cents to width; any positive amount gets at least one cell.
func barLength(cents, peak int64, width int) int {
	if cents <= 0 || peak <= 0 {
		return 0
	}
	scaled := decimal.NewFromInt(cents).Mul(decimal.NewFromInt(int64(width)))
	q, _ := scaled.QuoRem(decimal.NewFromInt(peak), 0)
	n := int(q.IntPart())
	if n == 0 {
		n = 1
	}
	return n
}

func (t *Text) fill(c core.Category) string {
	switch {
	case t.ASCII && c == core.Income:
		return "+"
	case t.ASCII:
		return "#"
	case c == core.Income:
		return "▓"
	default:
		return "█"
	}
}

func (t *Text) width() int {
	if t.Width <= 0 {
		return defaultWidth
	}
	return t.Width
}

func (t *Text) layout() string {
	if t.DateLayout == "" {
		return core.DefaultDateLayout
	}
	return t.DateLayout
}
