package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ledger/internal/backend"
	"ledger/internal/chart"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/shell"
)

// Execute runs the ledger command tree and exits non-zero on failure.
func Execute() {
	LoadEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree. Without a subcommand it runs the
// interactive menu on stdin and stdout.
func NewRootCommand() *cobra.Command {
	var ascii bool

	cmd := &cobra.Command{
		Use:          "ledger",
		Short:        "Personal income and expense ledger",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			in := shell.NewLineReader(cmd.InOrStdin(), out)
			return shell.New(a.svc, in, out, renderer(out, ascii, a.layout()), a.logger).Run(cmd.Context())
		},
	}

	cmd.PersistentFlags().BoolVar(&ascii, "ascii", false, "draw charts with ASCII characters only")

	cmd.AddCommand(
		initCmd(),
		addCmd(),
		reportCmd(&ascii),
		descriptionsCmd(&ascii),
	)
	return cmd
}

type app struct {
	svc     *services.LedgerService
	logger  *log.Logger
	backend *backend.BackendResult
}

// openApp loads the environment configuration, opens the selected backend
// and makes sure its store exists.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := LoadAndValidateConfig(nil)
	if err != nil {
		return nil, err
	}
	logger := SetupLogger(cfg, log.ComponentApp)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		return nil, err
	}

	validator := core.NewValidator(backendCfg.Schema)
	a := &app{
		svc:     services.NewLedgerService(res.Store, validator, res.Publisher, logger),
		logger:  logger,
		backend: res,
	}
	if err := a.svc.Initialize(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("Failed to release backend", "error", err)
	}
}

func (a *app) layout() string {
	return a.svc.Validator().Schema().DateLayout
}

// renderer falls back to ASCII bars when w is not a terminal.
func renderer(w io.Writer, ascii bool, layout string) chart.Renderer {
	if !ascii {
		f, ok := w.(*os.File)
		ascii = !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	text := chart.NewText(ascii)
	text.DateLayout = layout
	return text
}

func parseRange(v *core.Validator, start, end string) (core.Date, core.Date, error) {
	from, err := v.Date(start, false)
	if err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("--start: %w", err)
	}
	to, err := v.Date(end, false)
	if err != nil {
		return core.Date{}, core.Date{}, fmt.Errorf("--end: %w", err)
	}
	return from, to, nil
}
