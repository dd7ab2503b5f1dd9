package shell

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/services"
)

// PrintReport writes the transaction table and its summary block. An empty
// report prints the "no transactions" notice instead.
func PrintReport(w io.Writer, r *services.Report, layout string) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, msgNoTransactions)
		return err
	}

	fmt.Fprintf(w, "Transactions from %s to %s\n", r.Start.Format(layout), r.End.Format(layout))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tAmount\tCategory\tDescription\t")
	for _, t := range r.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", t.Date.Format(layout), t.Amount, t.Category, t.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := r.Summary
	_, err := fmt.Fprintf(w, "\nSummary: \nTotal income: $%s\nTotal expense: $%s\nNet Savings: $%s\nAverage Weekly Expense: $%s\n",
		s.TotalIncome, s.TotalExpense, s.NetSavings, s.AvgWeeklyExpense)
	return err
}

// PrintDescriptions writes expense totals per description, largest first,
// with each description's share of the expense total. A range that matched
// only income prints the heading over an empty table.
func PrintDescriptions(w io.Writer, r *services.DescriptionReport, layout string) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, msgNoTransactions)
		return err
	}

	fmt.Fprintf(w, "Expenses from %s to %s\n", r.Start.Format(layout), r.End.Format(layout))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Description\tAmount\tShare\t")
	shares := ledger.Shares(r.Totals)
	for i, d := range r.Totals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", d.Description, d.Amount.Dollars(), ledger.FormatShare(shares[i]))
	}
	return tw.Flush()
}

// layoutHint renders a Go date layout the way prompts show it, e.g.
// 01-02-2006 as mm-dd-yyyy.
func layoutHint(layout string) string {
	return strings.NewReplacer("2006", "yyyy", "01", "mm", "02", "dd").Replace(layout)
}

func descriptionMenu(schema core.Schema) string {
	var b strings.Builder
	b.WriteString("List of choices:\n")
	for _, d := range schema.Descriptions {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("Enter a description: ")
	return b.String()
}
