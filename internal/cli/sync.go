package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/takak2166/limitless2md/internal/config"
	"github.com/takak2166/limitless2md/internal/limitless"
	"github.com/takak2166/limitless2md/internal/logger"
	"github.com/takak2166/limitless2md/internal/storage"
	"github.com/takak2166/limitless2md/internal/sync"
)

func newSyncCommand() *cobra.Command {
	var (
		folder   string
		from     string
		full     bool
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch new lifelogs and write them to day files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if folder != "" {
				settings.FolderPath = folder
			}

			opts := sync.Options{Full: full}
			if from != "" {
				day, err := time.ParseInLocation("2006-01-02", from, settings.Location)
				if err != nil {
					return fmt.Errorf("invalid --from date %q: %w", from, err)
				}
				opts.From = day
			}

			client := limitless.NewClient(limitless.Config{
				APIKey:   settings.APIKey,
				BaseURL:  settings.BaseURL,
				Timezone: settings.Timezone(),
			})
			syncer := sync.New(client, storage.NewLocal(), storage.NewLogNotifier())

			if schedule == "" {
				return syncer.Run(cmd.Context(), settings, opts)
			}
			return runScheduled(cmd.Context(), syncer, settings, opts, schedule)
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "output folder (overrides FOLDER_PATH)")
	cmd.Flags().StringVar(&from, "from", "", "start date YYYY-MM-DD, overrides the sync cursor")
	cmd.Flags().BoolVar(&full, "full", false, "ignore the sync cursor and start from START_DATE")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression; keep running and sync on schedule")

	return cmd
}

// runScheduled re-runs the sync on the given cron schedule until the
// context is cancelled. Ticks that land while a run is still active are
// skipped, never queued.
func runScheduled(ctx context.Context, syncer *sync.Syncer, settings config.Settings, opts sync.Options, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		err := syncer.Run(ctx, settings, opts)
		switch {
		case err == nil:
		case errors.Is(err, sync.ErrSyncInProgress):
			logger.Warn("Previous sync still running, skipping this tick")
		default:
			logger.Error("Scheduled sync failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid --schedule expression %q: %w", schedule, err)
	}

	logger.Info("Scheduler started", map[string]interface{}{
		"schedule": schedule,
	})
	c.Start()

	<-ctx.Done()
	logger.Info("Scheduler stopping")
	<-c.Stop().Done()
	return nil
}
