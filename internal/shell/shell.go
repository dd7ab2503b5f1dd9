// Package shell runs the interactive ledger menu. It owns every blocking
// read and re-prompts until the validators accept the input.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledger/internal/chart"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/services"
)

const (
	msgEntryAdded     = "Entry Added"
	msgNoTransactions = "No transactions found"
	msgGoodbye        = "Thank you, have a good day!"
	msgInvalidOption  = "Invalid option, please select an option 1-4."
	msgInvalidAmount  = "Amount must be a numeric value."
	msgNonPositive    = "Amount must be a positive non-zero value."
	msgBadCategory    = "Invalid category. Please enter 'I' for income or 'E' for expense"
	msgBadDescription = "Please enter a valid description."

	promptChoice      = "Enter your choice (1-4):"
	promptAmount      = "Enter amount: "
	promptCategory    = "Enter the category ('I' for income or 'E' for expense): "
	promptSortChoice  = "Do you wish to change sorting order, y for yes, n for no? "
	promptSortKey     = "Sort by Date, Amount, or press enter for no sorting: "
	promptSortOrder   = "Sort by Ascend, Descend, or press enter for no sorting: "
	promptPlot        = "Do you want to see a plot, y for yes, n for no? "
	menu              = "\n1. Add a new transaction\n2. View transactions and summary\n3. View description percentage and summary\n4. Exit\n"
)

type Shell struct {
	svc    *services.LedgerService
	in     Input
	out    io.Writer
	chart  chart.Renderer
	logger *log.Logger
}

func New(svc *services.LedgerService, in Input, out io.Writer, renderer chart.Renderer, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Shell{
		svc:    svc,
		in:     in,
		out:    out,
		chart:  renderer,
		logger: logger.WithComponent(log.ComponentShell),
	}
}

// Run creates the store if needed, then shows the menu until the user exits
// or the input ends. End of input is a normal way out; any other error ends
// the session.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.svc.Initialize(ctx); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, menu)
		option, err := s.in.ReadLine(promptChoice)
		if err != nil {
			return endOfInput(err)
		}
		fmt.Fprintln(s.out)

		switch strings.TrimSpace(option) {
		case "1":
			err = s.add(ctx)
		case "2":
			err = s.viewTransactions(ctx)
		case "3":
			err = s.viewDescriptions(ctx)
		case "4":
			fmt.Fprintln(s.out, msgGoodbye)
			return nil
		default:
			fmt.Fprintln(s.out, msgInvalidOption)
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) add(ctx context.Context) error {
	hint := layoutHint(s.layout())
	date, err := s.promptDate(ctx, fmt.Sprintf("Enter the date of the transaction (%s) or enter for today's date: ", hint), true)
	if err != nil {
		return err
	}
	amount, err := s.promptAmount(ctx)
	if err != nil {
		return err
	}
	category, err := s.promptCategory(ctx)
	if err != nil {
		return err
	}
	desc, err := s.promptDescription(ctx)
	if err != nil {
		return err
	}

	t := core.Transaction{Date: date, Amount: amount, Category: category, Description: desc}
	if _, err := s.svc.Add(ctx, t); err != nil {
		return err
	}
	fmt.Fprintln(s.out, msgEntryAdded)
	return nil
}

func (s *Shell) viewTransactions(ctx context.Context) error {
	start, end, err := s.promptRange(ctx)
	if err != nil {
		return err
	}

	p := ledger.Params{Start: start, End: end}
	choice, err := s.in.ReadLine(promptSortChoice)
	if err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(choice), "y") {
		key, err := s.in.ReadLine(promptSortKey)
		if err != nil {
			return err
		}
		order, err := s.in.ReadLine(promptSortOrder)
		if err != nil {
			return err
		}
		p.SortKey = ledger.ParseSortKey(key)
		p.SortOrder = ledger.ParseSortOrder(order)
	}

	report, err := s.svc.Report(ctx, p)
	if err != nil {
		return err
	}
	if err := PrintReport(s.out, report, s.layout()); err != nil {
		return err
	}

	if ok, err := s.confirm(promptPlot); err != nil || !ok {
		return err
	}
	points, err := report.Chart()
	if err != nil {
		return err
	}
	return s.chart.Transactions(s.out, points)
}

func (s *Shell) viewDescriptions(ctx context.Context) error {
	start, end, err := s.promptRange(ctx)
	if err != nil {
		return err
	}

	report, err := s.svc.Descriptions(ctx, start, end)
	if err != nil {
		return err
	}
	if err := PrintDescriptions(s.out, report, s.layout()); err != nil {
		return err
	}

	if ok, err := s.confirm(promptPlot); err != nil || !ok {
		return err
	}
	return s.chart.Descriptions(s.out, report.Totals)
}

func (s *Shell) promptRange(ctx context.Context) (core.Date, core.Date, error) {
	hint := layoutHint(s.layout())
	start, err := s.promptDate(ctx, fmt.Sprintf("Enter the start date (%s): ", hint), false)
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	end, err := s.promptDate(ctx, fmt.Sprintf("Enter the end date (%s): ", hint), false)
	if err != nil {
		return core.Date{}, core.Date{}, err
	}
	return start, end, nil
}

func (s *Shell) promptDate(ctx context.Context, prompt string, allowDefault bool) (core.Date, error) {
	v := s.svc.Validator()
	return retry(ctx, s, prompt, func(raw string) (core.Date, string, error) {
		d, err := v.Date(raw, allowDefault)
		return d, fmt.Sprintf("Please enter in %s format", layoutHint(s.layout())), err
	})
}

func (s *Shell) promptAmount(ctx context.Context) (core.Money, error) {
	v := s.svc.Validator()
	return retry(ctx, s, promptAmount, func(raw string) (core.Money, string, error) {
		m, err := v.Amount(raw)
		if core.IsDomainError(err) {
			return m, msgNonPositive, err
		}
		return m, msgInvalidAmount, err
	})
}

func (s *Shell) promptCategory(ctx context.Context) (core.Category, error) {
	v := s.svc.Validator()
	return retry(ctx, s, promptCategory, func(raw string) (core.Category, string, error) {
		c, err := v.Category(raw)
		return c, msgBadCategory, err
	})
}

func (s *Shell) promptDescription(ctx context.Context) (core.Description, error) {
	v := s.svc.Validator()
	return retry(ctx, s, descriptionMenu(v.Schema()), func(raw string) (core.Description, string, error) {
		d, err := v.Description(raw)
		return d, msgBadDescription, err
	})
}

// retry reads answers until parse accepts one. parse returns the message to
// show when it rejects the input.
func retry[T any](ctx context.Context, s *Shell, prompt string, parse func(raw string) (T, string, error)) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		raw, err := s.in.ReadLine(prompt)
		if err != nil {
			return zero, err
		}
		v, msg, err := parse(raw)
		if err == nil {
			return v, nil
		}
		s.logger.DebugContext(ctx, "Rejected input",
			log.NewFields().WithOperation("prompt").WithError(err).ToSlice()...)
		fmt.Fprintln(s.out, msg)
	}
}

func (s *Shell) confirm(prompt string) (bool, error) {
	answer, err := s.in.ReadLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

func (s *Shell) layout() string {
	return s.svc.Validator().Schema().DateLayout
}
