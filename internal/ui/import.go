package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aawo/internal/dateutil"
)

func (a *App) importCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Pull remote calendar events into local mirror blocks",
		Long: `Fetch events from the connected calendar provider and upsert them
as locked mirror blocks. Requires AAWO_REMOTE_TOKEN to be set.`,
		Example: `  aawo import
  aawo import --days=14`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.importer == nil {
				fmt.Println("No calendar provider connected. Set AAWO_REMOTE_TOKEN and retry.")
				return nil
			}

			ctx := context.Background()
			loc, err := a.config.Location()
			if err != nil {
				return err
			}

			start := dateutil.WeekStart(time.Now().In(loc))
			end := start.AddDate(0, 0, days)

			res, err := a.importer.Run(ctx, start, end)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			if err := a.recordSyncSuccess(ctx); err != nil {
				return err
			}

			fmt.Printf("Imported %d events: %d new, %d updated, %d skipped.\n",
				res.Fetched, res.Created, res.Updated, res.Skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "How many days of the calendar to import, starting this week")

	return cmd
}
