package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"aawo/internal/dateutil"
	"aawo/internal/ics"
)

func (a *App) exportCmd() *cobra.Command {
	var date, out string
	var days int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the merged calendar as iCalendar",
		Example: `  aawo export > week.ics
  aawo export --date=2025-01-13 --days=14 -o fortnight.ics`,
		RunE: func(_ *cobra.Command, _ []string) error {
			loc, err := a.config.Location()
			if err != nil {
				return err
			}

			day := dateutil.TruncateToDay(time.Now().In(loc))
			if date != "" {
				if day, err = dateutil.ParseDate(date, loc); err != nil {
					return err
				}
			}

			start := dateutil.WeekStart(day)
			end := start.AddDate(0, 0, days)

			snap, err := a.timeline.Refresh(context.Background(), start, end)
			if err != nil {
				return fmt.Errorf("refreshing calendar: %w", err)
			}
			if snap.Notice != "" {
				fmt.Fprintln(os.Stderr, formatMuted("note: "+snap.Notice))
			}

			payload := ics.Export(snap.Events, time.Now())

			if out == "" {
				fmt.Print(payload)
				return nil
			}
			if err := os.WriteFile(out, []byte(payload), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %d events to %s\n", len(snap.Events), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day in the first week to export (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 7, "How many days to export")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}
