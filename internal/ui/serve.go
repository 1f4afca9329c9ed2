package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"aawo/internal/dateutil"
)

func (a *App) serveCmd() *cobra.Command {
	var schedule string
	var days int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the background calendar sync loop",
		Long: `Keep the local mirror fresh by importing the remote calendar on a
cron schedule. Runs until interrupted.`,
		Example: `  aawo serve
  aawo serve --schedule="*/15 * * * *"`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.importer == nil {
				return fmt.Errorf("no calendar provider connected, set AAWO_REMOTE_TOKEN")
			}

			loc, err := a.config.Location()
			if err != nil {
				return err
			}

			sync := func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()

				start := dateutil.WeekStart(time.Now().In(loc))
				res, err := a.importer.Run(ctx, start, start.AddDate(0, 0, days))
				if err != nil {
					fmt.Fprintln(os.Stderr, formatPending("sync failed: "+err.Error()))
					return
				}
				if err := a.recordSyncSuccess(ctx); err != nil {
					fmt.Fprintln(os.Stderr, formatPending("recording sync time: "+err.Error()))
					return
				}
				fmt.Printf("%s synced %d events (%d new, %d updated)\n",
					time.Now().Format("15:04:05"), res.Fetched, res.Created, res.Updated)
			}

			c := cron.New()
			if _, err := c.AddFunc(schedule, sync); err != nil {
				return fmt.Errorf("invalid --schedule: %w", err)
			}

			fmt.Printf("Syncing on schedule %q. Ctrl-C to stop.\n", schedule)
			sync()
			c.Start()

			done := make(chan os.Signal, 1)
			signal.Notify(done, os.Interrupt, syscall.SIGTERM)
			<-done

			<-c.Stop().Done()
			fmt.Println("\nStopped.")
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "*/30 * * * *", "Cron schedule for the sync")
	cmd.Flags().IntVar(&days, "days", 7, "How many days of the calendar to keep mirrored")

	return cmd
}
