package cmd

import (
	"context"
	"time"

	"github.com/practicum-bots/homework-notifier/internal/config"
	"github.com/practicum-bots/homework-notifier/internal/state"
	"github.com/spf13/cobra"
)

func newOnceCommand(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single poll cycle and exit",
		Long: `Run a single poll cycle against the status API and exit.
The command exits non-zero when the cycle fails. With --dry-run the
notifications are written to the log instead of being sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), root, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log notifications instead of sending them")
	return cmd
}

func runOnce(ctx context.Context, opts *rootOptions, dryRun bool) error {
	notifierKind := ""
	if dryRun {
		notifierKind = config.NotifierLog
	}
	cfg, ctx, log, err := setup(ctx, opts, notifierKind)
	if err != nil {
		return err
	}

	n, closeAudit, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	watermark, err := startWatermark(opts.fromDate, time.Now())
	if err != nil {
		return err
	}

	fetcher := state.NewHTTPStatusFetcher(cfg.Endpoint, cfg.PracticumToken, cfg.RequestTimeout)
	process := state.NewPollProcess(fetcher, n, watermark, nil)
	if err := process.Execute(ctx); err != nil {
		return err
	}

	log.Info().Int64("from_date", process.Watermark()).Msg("Poll cycle complete")
	return nil
}
