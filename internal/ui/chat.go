package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aawo/internal/assistant"
)

func (a *App) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Talk to the planning assistant",
		Long: `Send one message to the assistant. It can create and complete
tasks, change priorities, process meeting notes, and queue reschedules
for approval.`,
		Example: `  aawo chat "add task prepare quarterly review by 2025-02-01"
  aawo chat "done with the expense report"
  aawo chat "move tomorrow's focus block to the afternoon"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			resp, err := a.engine.Chat(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(resp.Reply)

			for _, card := range assistant.Cards(resp) {
				fmt.Println()
				fmt.Printf("  %s %s\n", formatPending("[needs approval]"), card.Summary)
				fmt.Println(formatMuted("    aawo approvals resolve " + card.ApprovalID + " approve"))
			}
			return nil
		},
	}
}
