// Package cli implements the resizecards command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"resizecards/internal/config"
	"resizecards/internal/log"
	"resizecards/internal/trace"
	"resizecards/internal/ui"
)

const (
	cmdName     = "resizecards"
	cmdDesc     = `Two side-by-side cards with a draggable boundary.`
	cmdExamples = `  # Run with the default 200/1400 bounds:
  resizecards

  # Allow narrower cards and log drag sessions:
  resizecards --min-width 100 --log-level debug --log-file /tmp/resizecards.log

  # Export drag gestures as OpenTelemetry spans:
  OTEL_EXPORTER_OTLP_ENDPOINT=localhost:4318 resizecards`

	envPrefix = "RESIZECARDS"
)

var ErrInvalidFlag = errors.New("invalid flag")

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	LogFile    string
	ConfigPath string
	MinWidth   int
	MaxWidth   int

	logOut io.WriteCloser
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.LogFile, "log-file", "", "Write logs to this file; logs are discarded when empty")

	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the configuration file")
	cmd.Flags().IntVar(&ra.MinWidth, "min-width", 0, "Minimum card width in units, overrides the config file")
	cmd.Flags().IntVar(&ra.MaxWidth, "max-width", 0, "Maximum combined width in units, overrides the config file")

	err := cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:                cmdName,
		Short:              cmdDesc,
		Example:            cmdExamples,
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		PersistentPreRunE:  setupLogging(args),
		PersistentPostRunE: closeLogging(args),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := args.LoadConfig()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	args.AddFlags(cmd)
	bindEnvVars(cmd)

	return cmd
}

// LoadConfig reads the config file (the default path is optional) and
// applies width flags on top.
func (ra *RootArgs) LoadConfig() (config.Config, error) {
	path, optional := ra.ConfigPath, false
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path, optional = p, true
	}

	cfg, err := config.Load(path, optional)
	if err != nil {
		return config.Config{}, err
	}

	if ra.MinWidth < 0 || ra.MaxWidth < 0 {
		return config.Config{}, fmt.Errorf("%w: widths must not be negative", ErrInvalidFlag)
	}
	if ra.MinWidth > 0 {
		cfg.MinPanelWidth = ra.MinWidth
	}
	if ra.MaxWidth > 0 {
		cfg.MaxContainerWidth = ra.MaxWidth
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	slog.Debug("loaded config",
		slog.String("path", path),
		slog.Int("min_width", cfg.MinPanelWidth),
		slog.Int("max_width", cfg.MaxContainerWidth),
		slog.Int("units_per_cell", cfg.UnitsPerCell),
	)
	return cfg, nil
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(_ *cobra.Command, _ []string) error {
		var w io.Writer = io.Discard
		if ra.LogFile != "" {
			f, err := os.OpenFile(ra.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			ra.logOut = f
			w = f
		}

		logHandler, err := log.CreateHandlerWithStrings(w, ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}

func closeLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(_ *cobra.Command, _ []string) error {
		if ra.logOut == nil {
			return nil
		}
		err := ra.logOut.Close()
		ra.logOut = nil
		if err != nil {
			return fmt.Errorf("close log file: %w", err)
		}
		return nil
	}
}

func run(ctx context.Context, cfg config.Config) error {
	provider, err := trace.NewProvider(ctx)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown tracing", slog.Any("err", err))
		}
	}()

	ctx = log.NewContext(ctx, slog.Default())
	m := ui.NewAppModel(ctx, cfg)
	m.Drag.Tracer = provider.Tracer()

	slog.Info("starting", slog.Bool("tracing", provider.Enabled()))

	p := tea.NewProgram(m.AsTeaModel(),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
