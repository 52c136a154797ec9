package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/taskmon/internal/config"
	"github.com/Dicklesworthstone/taskmon/internal/control"
	"github.com/Dicklesworthstone/taskmon/internal/logging"
	"github.com/Dicklesworthstone/taskmon/internal/output"
	"github.com/Dicklesworthstone/taskmon/internal/perf"
	"github.com/Dicklesworthstone/taskmon/internal/procs"
	"github.com/Dicklesworthstone/taskmon/internal/sampler"
	"github.com/Dicklesworthstone/taskmon/internal/tasks"
	"github.com/Dicklesworthstone/taskmon/internal/ui"
	"github.com/Dicklesworthstone/taskmon/internal/windows"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	cfg    config.Config
	format output.Format
	log    *zap.Logger
}

type flags struct {
	configPath string
	format     string
	logFile    string
	logLevel   string
	refresh    time.Duration
}

// NewRootCmd builds the command tree. Without a subcommand it starts the TUI.
func NewRootCmd() *cobra.Command {
	var (
		f flags
		a app
	)
	root := &cobra.Command{
		Use:           "taskmon",
		Short:         "List processes and windowed tasks, watch host load, end or launch tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			pf := cmd.Flags()
			if pf.Changed("format") {
				cfg.Format = f.format
			}
			if pf.Changed("log-file") {
				cfg.LogFile = f.logFile
			}
			if pf.Changed("log-level") {
				cfg.LogLevel = f.logLevel
			}
			if pf.Changed("refresh") {
				cfg.RefreshInterval = f.refresh
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			format, err := output.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}
			log, err := logging.ForFile(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			a = app{cfg: cfg, format: format, log: log}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to a TOML config file")
	pf.StringVar(&f.format, "format", "yaml", "output format for one-shot commands: yaml or json")
	pf.StringVar(&f.logFile, "log-file", "", "write logs to this file (default: no logging)")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.DurationVar(&f.refresh, "refresh", 5*time.Second, "refresh interval")

	root.AddCommand(
		newPsCmd(&a),
		newTasksCmd(&a),
		newPerfCmd(&a),
		newKillCmd(&a),
		newOpenCmd(&a),
	)
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "taskmon:", err)
		os.Exit(1)
	}
}

func (a *app) processSource() procs.Source { return procs.NewGopsutilSource(procs.Fields{}) }

func (a *app) taskLister() *tasks.Lister {
	return &tasks.Lister{
		Source:  procs.NewGopsutilSource(procs.Fields{Status: true, Username: true}),
		Windows: windows.New(a.cfg.WindowTimeout),
		Options: tasks.Options{RequireRunning: a.cfg.RequireRunning},
		Log:     a.log,
	}
}

func (a *app) probe() perf.Probe { return perf.NewGopsutilProbe(a.cfg.CPUWindow, a.cfg.DiskPath) }

func (a *app) runTUI(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	s := sampler.New(a.cfg.RefreshInterval, a.cfg.PerfInterval, a.processSource(), a.taskLister(), a.probe(), a.log)
	a.log.Info("starting",
		zap.Duration("refresh", a.cfg.RefreshInterval),
		zap.Duration("perf", a.cfg.PerfInterval))
	m := ui.New(ctx, cancel, s.Stream(ctx), s, control.New(a.log), a.log)
	return ui.Run(m)
}
