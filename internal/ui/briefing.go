package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aawo/internal/briefing"
	"aawo/internal/dateutil"
)

func (a *App) briefingCmd() *cobra.Command {
	var date string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Summarize a day: time budget, top tasks, and risks",
		Long: `Build a daily briefing from the calendar and the open task list.

The briefing shows where the day's minutes go, recommends a slot for
the most urgent tasks, and flags overdue work and overbooked days.`,
		Example: `  aawo briefing
  aawo briefing --date=2025-01-15`,
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

			startMin, endMin := a.config.DayWindow()
			b, err := briefing.Build(context.Background(), a.store, a.store, day, startMin, endMin)
			if err != nil {
				return fmt.Errorf("building briefing: %w", err)
			}

			printBriefing(b)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to brief (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func printBriefing(b *briefing.Briefing) {
	fmt.Printf("\n  %s\n", formatHeader(b.Date.Format("Monday, Jan 2 2006")))
	fmt.Println(separator())

	fmt.Printf("  meetings %s   focus %s   free %s\n",
		formatDuration(b.Stats.MeetingMinutes),
		formatDuration(b.Stats.FocusMinutes),
		formatDuration(b.Stats.FreeMinutes),
	)

	if len(b.TopTasks) > 0 {
		fmt.Printf("\n  %s\n", formatHeader("Top tasks"))
		for _, rec := range b.TopTasks {
			slot := formatMuted("no free slot")
			if rec.Slot != nil {
				slot = fmt.Sprintf("%s-%s",
					rec.Slot.Start.Format("15:04"),
					rec.Slot.End.Format("15:04"))
			}
			fmt.Printf("  %s  %s %s\n", slot, rec.Title, formatMuted("("+rec.Reason+")"))
		}
	}

	if len(b.Risks) > 0 {
		fmt.Printf("\n  %s\n", formatHeader("Risks"))
		for _, r := range b.Risks {
			fmt.Printf("  %s\n", formatPending(r))
		}
	}

	if len(b.Reminders) > 0 {
		fmt.Printf("\n  %s\n", formatHeader("Reminders"))
		for _, r := range b.Reminders {
			fmt.Printf("  %s\n", r)
		}
	}
}

// formatDuration renders minutes as a compact hours string, e.g. "1h30m".
func formatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
