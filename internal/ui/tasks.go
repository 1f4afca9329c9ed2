package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"aawo/internal/task"
)

func (a *App) tasksCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List open tasks",
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			tasks, err := a.store.ListOpenTasks(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("\n  %s\n", formatHeader("Open tasks"))
			fmt.Println(separator())

			if len(tasks) == 0 {
				fmt.Println("  Nothing open. Enjoy it.")
				return nil
			}

			for _, t := range tasks {
				fmt.Printf("  %s %-40s %s %s\n",
					priorityBadge(t.Priority),
					truncate(t.Title, 40),
					formatMuted(fmt.Sprintf("%dm", t.EffortMinutes)),
					formatTaskDue(t),
				)
				fmt.Println(formatMuted("    id: " + t.ID))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func priorityBadge(p task.Priority) string {
	switch p {
	case task.PriorityCritical:
		return colorPending.Sprint("!!")
	case task.PriorityHigh:
		return colorMixed.Sprint("! ")
	default:
		return "  "
	}
}

func formatTaskDue(t *task.Task) string {
	if t.Due == nil {
		return ""
	}
	return formatMuted("due " + t.Due.Format("Jan 2"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
