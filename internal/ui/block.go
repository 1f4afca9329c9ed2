package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aawo/internal/block"
	"aawo/internal/dateutil"
)

func (a *App) blockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage local calendar blocks",
	}

	cmd.AddCommand(a.blockAddCmd())
	cmd.AddCommand(a.blockMoveCmd())
	cmd.AddCommand(a.blockRemoveCmd())

	return cmd
}

func (a *App) blockAddCmd() *cobra.Command {
	var date, from, to, blockType string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a block",
		Args:  cobra.ExactArgs(1),
		Example: `  aawo block add "Deep work" --date=2025-01-15 --from=09:00 --to=11:00
  aawo block add "Lunch" --from=12:00 --to=13:00 --type=personal`,
		RunE: func(_ *cobra.Command, args []string) error {
			start, end, err := a.resolveWindow(date, from, to)
			if err != nil {
				return err
			}

			b, err := block.New(block.Type(blockType), args[0], start, end)
			if err != nil {
				return err
			}
			if err := a.store.CreateBlock(context.Background(), b); err != nil {
				if errors.Is(err, block.ErrBlockOverlap) {
					return fmt.Errorf("that slot is taken: %w", err)
				}
				return err
			}

			fmt.Printf("Created %s %s (%s-%s)\n",
				b.Type, formatKindTitle(b),
				b.Start.Format("15:04"), b.End.Format("15:04"))
			fmt.Println(formatMuted("id: " + b.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day of the block (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&from, "from", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&to, "to", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&blockType, "type", string(block.TypeFocus), "Block type (task_block, focus_block, buffer, personal, other)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (a *App) blockMoveCmd() *cobra.Command {
	var date, from, to string

	cmd := &cobra.Command{
		Use:     "move <id>",
		Short:   "Move a block to a new time",
		Args:    cobra.ExactArgs(1),
		Example: `  aawo block move 6f1c... --date=2025-01-16 --from=14:00 --to=15:30`,
		RunE: func(_ *cobra.Command, args []string) error {
			start, end, err := a.resolveWindow(date, from, to)
			if err != nil {
				return err
			}

			if err := a.store.UpdateBlockTimes(context.Background(), args[0], start, end); err != nil {
				switch {
				case errors.Is(err, block.ErrBlockNotFound):
					return fmt.Errorf("no block with id %q", args[0])
				case errors.Is(err, block.ErrBlockOverlap):
					return fmt.Errorf("that slot is taken: %w", err)
				}
				return err
			}

			fmt.Printf("Moved to %s %s-%s\n",
				start.Format("Mon Jan 2"), start.Format("15:04"), end.Format("15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New day (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&from, "from", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&to, "to", "", "New end time (HH:MM)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (a *App) blockRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Short:   "Delete a block",
		Args:    cobra.ExactArgs(1),
		Example: `  aawo block rm 6f1c...`,
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.store.DeleteBlock(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

// resolveWindow turns --date/--from/--to flags into a concrete [start, end)
// interval in the configured timezone.
func (a *App) resolveWindow(date, from, to string) (time.Time, time.Time, error) {
	loc, err := a.config.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	day := dateutil.TruncateToDay(time.Now().In(loc))
	if date != "" {
		if day, err = dateutil.ParseDate(date, loc); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	startMin, err := dateutil.ParseClock(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
	}
	endMin, err := dateutil.ParseClock(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
	}

	return dateutil.AtClock(day, startMin), dateutil.AtClock(day, endMin), nil
}

func formatKindTitle(b *block.Block) string {
	if b.IsExternal() {
		return colorRemote.Sprint(b.Title)
	}
	return colorLocal.Sprint(b.Title)
}
