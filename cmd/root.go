package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/practicum-bots/homework-notifier/internal/config"
	"github.com/practicum-bots/homework-notifier/internal/logger"
	"github.com/practicum-bots/homework-notifier/internal/notifier"
	"github.com/practicum-bots/homework-notifier/internal/scheduler"
	"github.com/practicum-bots/homework-notifier/internal/server"
	"github.com/practicum-bots/homework-notifier/internal/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const stopGrace = 5 * time.Second

type rootOptions struct {
	envFile    string
	configFile string
	logLevel   string
	fromDate   int64
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "homework-notifier",
		Short:         "Polls the homework review API and reports status changes to a chat",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment (empty to skip)")
	flags.StringVar(&opts.configFile, "config", "", "optional config file (yaml, json or toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")
	flags.Int64Var(&opts.fromDate, "from-date", 0, "initial from_date as a unix timestamp (default: now)")

	rootCmd.AddCommand(newOnceCommand(opts))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// Execute runs the root command with a context cancelled on SIGINT or
// SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func runDaemon(ctx context.Context, opts *rootOptions) error {
	cfg, ctx, log, err := setup(ctx, opts, "")
	if err != nil {
		return err
	}

	n, closeAudit, err := buildNotifier(cfg, log)
	if err != nil {
		log.WithLevel(zerolog.FatalLevel).Err(err).Msg("Error creating notifier")
		return err
	}
	defer closeAudit()

	watermark, err := startWatermark(opts.fromDate, time.Now())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	fetcher := state.NewHTTPStatusFetcher(cfg.Endpoint, cfg.PracticumToken, cfg.RequestTimeout)
	process := state.NewPollProcess(fetcher, n, watermark, state.NewMetrics(reg))

	sched, err := scheduler.NewScheduler(cfg.PollInterval, process, log)
	if err != nil {
		log.Error().Err(err).Msg("Error creating scheduler")
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		app := setupServerApp(cfg.MetricsAddr, log, reg, process)
		g.Go(func() error {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("Serving metrics and health endpoints")
			return app.Run(ctx)
		})
	}

	sched.Start(ctx)
	g.Go(func() error {
		<-ctx.Done()
		// an in-flight cycle sees the cancelled ctx and unwinds without alerting
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*cfg.RequestTimeout+stopGrace)
		defer cancel()
		if err := sched.Stop(stopCtx); err != nil {
			log.Warn().Err(err).Msg("Poll cycle still running at shutdown")
		}
		return nil
	})

	log.Info().
		Str("notifier", n.Name()).
		Str("endpoint", cfg.Endpoint).
		Int64("from_date", watermark).
		Dur("interval", cfg.PollInterval).
		Msg("Startup complete")

	err = g.Wait()
	log.Info().Int64("from_date", process.Snapshot().Watermark).Msg("Shutting down")
	return err
}

// setup loads the configuration and builds the logger. Configuration
// errors are logged at fatal level before being returned.
func setup(ctx context.Context, opts *rootOptions, notifierKind string) (config.Config, context.Context, *zerolog.Logger, error) {
	cfg, warnings, err := config.Load(config.LoadOptions{
		EnvFile:    opts.envFile,
		ConfigFile: opts.configFile,
		Notifier:   notifierKind,
		LogLevel:   opts.logLevel,
	})
	if err != nil {
		ctx, log := logger.InitLogger(ctx, config.DefaultLogLevel, false, warnings)
		log.WithLevel(zerolog.FatalLevel).Err(err).Msg("Error initializing config")
		return cfg, ctx, log, err
	}

	ctx, log := logger.InitLogger(ctx, cfg.LogLevel, cfg.JSONLog, warnings)
	return cfg, ctx, log, nil
}

func newNotifier(cfg config.Config, log *zerolog.Logger) (notifier.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierTelegram:
		return notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.RequestTimeout)
	case config.NotifierSlack:
		return notifier.NewSlackNotifier(cfg.SlackToken, cfg.SlackChannel, cfg.RequestTimeout)
	case config.NotifierLog:
		return notifier.NewLogNotifier(log), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", cfg.Notifier)
	}
}

// buildNotifier creates the configured notifier and, when AUDIT_LOG is set,
// wraps it so every delivery attempt lands in the audit file. The returned
// func closes the audit file.
func buildNotifier(cfg config.Config, log *zerolog.Logger) (notifier.Notifier, func(), error) {
	n, err := newNotifier(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AuditLog == "" {
		return n, func() {}, nil
	}

	f, err := logger.OpenAuditFile(cfg.AuditLog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	closeAudit := func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("path", cfg.AuditLog).Msg("Failed to close audit log")
		}
	}
	return notifier.NewAuditedNotifier(n, logger.NewAuditLog(f)), closeAudit, nil
}

// startWatermark returns fromDate, or now when fromDate is zero.
func startWatermark(fromDate int64, now time.Time) (int64, error) {
	if fromDate < 0 {
		return 0, fmt.Errorf("invalid --from-date %d: must not be negative", fromDate)
	}
	if fromDate == 0 {
		return now.Unix(), nil
	}
	return fromDate, nil
}

func setupServerApp(addr string, log *zerolog.Logger, gatherer prometheus.Gatherer, source server.SnapshotSource) *server.App {
	router := server.NewDefaultRouter("")
	router.Use(server.LoggingMiddleware(log))

	app := server.NewApp(
		addr,
		router,
		&server.MetricsRegistrar{Gatherer: gatherer},
		&server.DebugRegistrar{},
		server.NewHealthRegistrar(source),
	)
	app.SetupRoutes()
	return app
}
