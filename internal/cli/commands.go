package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/shell"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ledger store if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Fprintln(cmd.OutOrStdout(), "Ledger ready")
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	var date, amount, category, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append one transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			v := a.svc.Validator()
			d, err := v.Date(date, true)
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			m, err := v.Amount(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			c, err := v.Category(category)
			if err != nil {
				return fmt.Errorf("--category: %w", err)
			}
			desc, err := v.Description(description)
			if err != nil {
				return fmt.Errorf("--description: %w", err)
			}

			t := core.Transaction{Date: d, Amount: m, Category: c, Description: desc}
			if _, err := a.svc.Add(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Entry Added")
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date in the configured layout (default today)")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount, e.g. 12.50")
	cmd.Flags().StringVar(&category, "category", "", "I for income or E for expense")
	cmd.Flags().StringVar(&description, "description", "", "one of the fixed description labels")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func reportCmd(ascii *bool) *cobra.Command {
	var start, end, sortBy, order string
	var plot bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "List transactions in a date range with a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			from, to, err := parseRange(a.svc.Validator(), start, end)
			if err != nil {
				return err
			}
			p := ledger.Params{
				Start:     from,
				End:       to,
				SortKey:   ledger.ParseSortKey(sortBy),
				SortOrder: ledger.ParseSortOrder(order),
			}
			if sortBy != "" && p.SortKey == ledger.SortNone {
				return errors.New("--sort-by must be date or amount")
			}

			report, err := a.svc.Report(cmd.Context(), p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := shell.PrintReport(out, report, a.layout()); err != nil {
				return err
			}
			if !plot {
				return nil
			}
			points, err := report.Chart()
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			return renderer(out, *ascii, a.layout()).Transactions(out, points)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day of the range")
	cmd.Flags().StringVar(&end, "end", "", "last day of the range")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "sort by date or amount")
	cmd.Flags().StringVar(&order, "order", "ascend", "ascend or descend")
	cmd.Flags().BoolVar(&plot, "chart", false, "draw the income and expense chart")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func descriptionsCmd(ascii *bool) *cobra.Command {
	var start, end string
	var plot bool

	cmd := &cobra.Command{
		Use:   "descriptions",
		Short: "Total expenses per description in a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			from, to, err := parseRange(a.svc.Validator(), start, end)
			if err != nil {
				return err
			}
			report, err := a.svc.Descriptions(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := shell.PrintDescriptions(out, report, a.layout()); err != nil {
				return err
			}
			if !plot {
				return nil
			}
			fmt.Fprintln(out)
			return renderer(out, *ascii, a.layout()).Descriptions(out, report.Totals)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day of the range")
	cmd.Flags().StringVar(&end, "end", "", "last day of the range")
	cmd.Flags().BoolVar(&plot, "chart", false, "draw the expenses chart")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
