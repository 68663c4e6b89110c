// Command geoconsensus runs geometric consensus rounds, batch replays and
// partition recovery from YAML snapshots.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/geometric-consensus/internal/config"
	"github.com/danielpatrickdp/geometric-consensus/internal/ledger"
	"github.com/danielpatrickdp/geometric-consensus/internal/metrics"
)

// #region main
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes one command line. Teardown runs even when the command fails,
// so failed rounds still reach the ledger and the metrics textfile.
func run(ctx context.Context, args []string) error {
	root, a := newRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.teardown())
}
// #endregion main

// #region app
// app carries what every subcommand shares once the config is loaded.
type app struct {
	configPath string
	ledgerPath string
	textfile   string
	logLevel   string

	cfg      config.Config
	logger   *slog.Logger
	ledger   *ledger.Ledger // nil when disabled
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "geoconsensus",
		Short:         "Geometric consensus over a 7-dimensional state space",
		Long:          `Runs bounded consensus rounds driven by universal quadratic forms, replays recorded batches and recovers partitioned peer topologies.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./geoconsensus.yaml)")
	root.PersistentFlags().StringVar(&a.ledgerPath, "ledger", "", "sqlite ledger path (overrides ledger.path)")
	root.PersistentFlags().StringVar(&a.textfile, "metrics-textfile", "", "write Prometheus metrics here on exit (overrides metrics.textfile)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")

	root.AddCommand(
		newRoundCmd(a),
		newBatchCmd(a),
		newPartitionCmd(a),
		newFormsCmd(a),
		newDesignCmd(a),
		newHistoryCmd(a),
	)
	return root, a
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.ledgerPath != "" {
		cfg.Ledger.Path = a.ledgerPath
	}
	if a.textfile != "" {
		cfg.Metrics.Textfile = a.textfile
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	pterm.DefaultLogger.Level = ptermLevel(cfg.SlogLevel())
	a.logger = slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
	slog.SetDefault(a.logger)

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)

	if cfg.Ledger.Path != "" {
		l, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		a.ledger = l
	}
	return nil
}

func (a *app) teardown() error {
	var errs []error
	if a.registry != nil && a.cfg.Metrics.Textfile != "" {
		errs = append(errs, metrics.WriteTextfile(a.cfg.Metrics.Textfile, a.registry))
	}
	if a.ledger != nil {
		errs = append(errs, a.ledger.Close())
		a.ledger = nil
	}
	return errors.Join(errs...)
}

// requireLedger is used by commands that only make sense with a ledger.
func (a *app) requireLedger() (*ledger.Ledger, error) {
	if a.ledger == nil {
		return nil, errors.New("no ledger configured: set ledger.path or pass --ledger")
	}
	return a.ledger, nil
}

func ptermLevel(l slog.Level) pterm.LogLevel {
	switch {
	case l <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case l <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case l <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}
// #endregion app
