package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aawo/internal/dateutil"
	"aawo/internal/event"
	"aawo/internal/layout"
)

func (a *App) dayCmd() *cobra.Command {
	var date string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show one day's merged calendar",
		Long: `Display the merged local and remote events for a single day.

Overlapping events are shown side by side in lanes, clipped to the
configured visible hours.`,
		Example: `  aawo day
  aawo day --date=2025-01-15`,
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

			snap, err := a.timeline.Refresh(context.Background(), day, day.AddDate(0, 0, 1))
			if err != nil {
				return fmt.Errorf("refreshing calendar: %w", err)
			}
			if snap.Notice != "" {
				fmt.Println(formatMuted("note: " + snap.Notice))
			}

			startMin, endMin := a.config.DayWindow()
			positioned := snap.Day(day, startMin, endMin)

			fmt.Printf("\n  %s\n", formatHeader(day.Format("Monday, Jan 2 2006")))
			fmt.Println(separator())

			if len(positioned) == 0 {
				fmt.Println("  Nothing scheduled in visible hours.")
				return nil
			}

			for _, p := range positioned {
				fmt.Printf("  %s  %s %s\n",
					formatEventTime(p),
					laneMarker(p),
					formatKind(p.Kind, p.Title),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func formatEventTime(p layout.Positioned) string {
	return fmt.Sprintf("%s-%s",
		p.ClippedStart.Format("15:04"),
		p.ClippedEnd.Format("15:04"))
}

// laneMarker renders the event's lane within its overlap cluster,
// e.g. "[2/3]". Lone events stay unmarked to keep the common case quiet.
func laneMarker(p layout.Positioned) string {
	if p.LaneCount <= 1 {
		return "     "
	}
	return formatMuted(fmt.Sprintf("[%d/%d]", p.Lane+1, p.LaneCount))
}

func formatKind(kind event.Kind, title string) string {
	switch kind {
	case event.KindRemote:
		return colorRemote.Sprint(title)
	case event.KindMixed:
		return colorMixed.Sprint(title)
	default:
		return colorLocal.Sprint(title)
	}
}
