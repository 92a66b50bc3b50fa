// Package cmd provides the entrypoint and CLI command configuration for the
// kiqheat application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kpumuk/kiqheat/internal/board"
	"github.com/kpumuk/kiqheat/internal/config"
	"github.com/kpumuk/kiqheat/internal/dataset"
	"github.com/kpumuk/kiqheat/internal/sidekiq"
	"github.com/kpumuk/kiqheat/internal/ui"
)

const defaultRedisURL = "redis://localhost:6379/0"

func buildVersion(version, commit, date, builtBy string) string {
	result := version
	if commit != "" {
		result = fmt.Sprintf("%s\ncommit: %s", result, commit)
	}
	if date != "" {
		result = fmt.Sprintf("%s\nbuilt at: %s", result, date)
	}
	if builtBy != "" {
		result = fmt.Sprintf("%s\nbuilt by: %s", result, builtBy)
	}
	result = fmt.Sprintf("%s\ngoos: %s\ngoarch: %s", result, runtime.GOOS, runtime.GOARCH)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
		result = fmt.Sprintf("%s\nmodule version: %s, checksum: %s", result, info.Main.Version, info.Main.Sum)
	}

	return result
}

// Execute initializes and runs the kiqheat terminal application.
func Execute(version, commit, date, builtBy string) error {
	rootCmd := newRootCmd()
	rootCmd.Version = buildVersion(version, commit, date, builtBy)
	rootCmd.SetVersionTemplate(`kiqheat {{printf "version %s\n" .Version}}`)

	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(rootCmd.Version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kiqheat",
		Short: "A heat map of Sidekiq job metrics.",
		Long: "A heat map of Sidekiq job metrics: one column per time bucket, one row per job class.\n" +
			"Click cells, columns or rows to select them; the totals below follow the selection.",
		Args: cobra.NoArgs,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/kiqheat/config.yaml)")
	flags.String("redis", defaultRedisURL, "redis URL")
	flags.String("file", "", "read metrics from a JSON or YAML snapshot instead of Redis")
	flags.String("period", "", "metrics period: 1h, 2h, 4h, 8h, 24h, 48h or 72h")
	flags.Duration("bucket", 0, "merge rollups into buckets of this size")
	flags.String("metric", "", "cell color metric: processed, failed or time")
	flags.String("log-file", "", "write debug logs to this file")
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "snapshot":
			name = "file"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.Flags().Bool("watch", false, "reload the snapshot file when it changes")
	rootCmd.Flags().String("cpuprofile", "", "write cpu profile to file")
	rootCmd.Flags().BoolP("help", "h", false, "help for kiqheat")

	rootCmd.RunE = runTUI
	rootCmd.AddCommand(newExportCmd())
	return rootCmd
}

// settings is the configuration after flags have been applied.
type settings struct {
	cfg     config.Config
	file    string
	metric  board.Metric
	logFile string
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("parse config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return settings{}, err
	}

	if flags.Changed("redis") || cfg.Redis == "" {
		if cfg.Redis, err = flags.GetString("redis"); err != nil {
			return settings{}, fmt.Errorf("parse redis flag: %w", err)
		}
	}
	if flags.Changed("period") {
		if cfg.Period, err = flags.GetString("period"); err != nil {
			return settings{}, fmt.Errorf("parse period flag: %w", err)
		}
	}
	if flags.Changed("bucket") {
		if cfg.Bucket, err = flags.GetDuration("bucket"); err != nil {
			return settings{}, fmt.Errorf("parse bucket flag: %w", err)
		}
	}
	if flags.Changed("metric") {
		if cfg.Chart.Metric, err = flags.GetString("metric"); err != nil {
			return settings{}, fmt.Errorf("parse metric flag: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}

	s := settings{cfg: cfg}
	if s.metric, err = board.ParseMetric(cfg.Chart.Metric); err != nil {
		return settings{}, err
	}
	if s.file, err = flags.GetString("file"); err != nil {
		return settings{}, fmt.Errorf("parse file flag: %w", err)
	}
	if s.logFile, err = flags.GetString("log-file"); err != nil {
		return settings{}, fmt.Errorf("parse log-file flag: %w", err)
	}
	return s, nil
}

// openLogger returns a logger writing to path, or discarding everything when
// path is empty. The terminal belongs to the UI.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = file.Close() }, nil
}

// openSource picks the snapshot file or Redis. The API is nil for files.
func openSource(s settings, logger *slog.Logger) (dataset.Source, sidekiq.API, func(), error) {
	if s.file != "" {
		return dataset.NewFileSource(s.file), nil, func() {}, nil
	}

	sidekiq.SetRedisLogger(logger)
	client, err := sidekiq.NewClient(s.cfg.Redis, sidekiq.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create redis client: %w", err)
	}
	period, err := sidekiq.ParseMetricsPeriod(s.cfg.Period)
	if err != nil {
		_ = client.Close()
		return nil, nil, nil, err
	}
	src := dataset.NewRedisSource(client, sidekiq.HeatQuery{Period: period, Bucket: s.cfg.Bucket})
	return src, client, func() { _ = client.Close() }, nil
}

func newBoard(s settings, transition time.Duration, logger *slog.Logger) (*board.Board, error) {
	colors, err := s.cfg.ColorScale()
	if err != nil {
		return nil, err
	}
	return board.New(
		board.WithMetric(s.metric),
		board.WithColors(colors),
		board.WithColorMax(s.cfg.Chart.ColorMax),
		board.WithBorderRadius(s.cfg.Chart.XBorderRadius, s.cfg.Chart.YBorderRadius),
		board.WithTransitionDuration(transition),
		board.WithLogger(logger),
	), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("parse watch flag: %w", err)
	}
	cpuprofile, err := cmd.Flags().GetString("cpuprofile")
	if err != nil {
		return fmt.Errorf("parse cpuprofile flag: %w", err)
	}
	if watch && s.file == "" {
		return errors.New("--watch requires --file")
	}

	logger, closeLog, err := openLogger(s.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	src, api, closeSource, err := openSource(s, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	b, err := newBoard(s, s.cfg.Chart.TransitionDuration, logger)
	if err != nil {
		return err
	}

	opts := []ui.Option{ui.WithLogger(logger)}
	if api != nil {
		opts = append(opts, ui.WithStats(api), ui.WithRefresh(s.cfg.Refresh))
	}
	if watch {
		w, err := dataset.NewWatcher(s.file, dataset.WithOnError(func(err error) {
			logger.Warn("watch failed", slog.Any("error", err))
		}))
		if err != nil {
			return err
		}
		if err := w.Start(cmd.Context()); err != nil {
			return fmt.Errorf("watch %s: %w", s.file, err)
		}
		defer w.Stop()
		opts = append(opts, ui.WithWatcher(w))
	}

	if cpuprofile != "" {
		profileFile, err := os.Create(cpuprofile)
		if err != nil {
			return fmt.Errorf("create cpuprofile file: %w", err)
		}
		if err := pprof.StartCPUProfile(profileFile); err != nil {
			_ = profileFile.Close()
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = profileFile.Close()
		}()
	}

	app := ui.New(b, src, opts...)
	p := tea.NewProgram(app, tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run kiqheat: %w", err)
	}

	return nil
}
