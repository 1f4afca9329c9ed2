package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"aawo/internal/dateutil"
)

func (a *App) weekCmd() *cobra.Command {
	var date string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the week containing a day",
		Long: `Display the merged calendar for a Monday-aligned week, one
section per day.`,
		Example: `  aawo week
  aawo week --date=2025-01-15`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

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

			weekStart := dateutil.WeekStart(day)
			weekEnd := weekStart.AddDate(0, 0, 7)

			snap, err := a.timeline.Refresh(context.Background(), weekStart, weekEnd)
			if err != nil {
				return fmt.Errorf("refreshing calendar: %w", err)
			}
			if snap.Notice != "" {
				fmt.Println(formatMuted("note: " + snap.Notice))
			}

			startMin, endMin := a.config.DayWindow()

			fmt.Printf("\n  %s\n", formatHeader(fmt.Sprintf("Week of %s", weekStart.Format("Jan 2 2006"))))

			for d := 0; d < 7; d++ {
				cur := weekStart.AddDate(0, 0, d)
				positioned := snap.Day(cur, startMin, endMin)

				header := cur.Format("Mon Jan 2")
				if dateutil.SameDay(cur, day) {
					header += "  ◀"
				}
				fmt.Printf("\n  %s\n", formatHeader(header))
				fmt.Println("  " + strings.Repeat("─", 40))

				if len(positioned) == 0 {
					fmt.Println(formatMuted("  (free)"))
					continue
				}
				for _, p := range positioned {
					fmt.Printf("  %s  %s %s\n",
						formatEventTime(p),
						laneMarker(p),
						formatKind(p.Kind, p.Title),
					)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day in the week to show (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
