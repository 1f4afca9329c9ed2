package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"aawo/internal/approval"
)

func (a *App) approvalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "Review pending assistant actions",
		Long: `The assistant never applies risky changes on its own. Reschedules
and low-confidence action items wait here until approved or rejected.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			pending, err := a.store.ListPendingApprovals(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("\n  %s\n", formatHeader("Pending approvals"))
			fmt.Println(separator())

			if len(pending) == 0 {
				fmt.Println("  Nothing waiting.")
				return nil
			}

			for _, req := range pending {
				fmt.Printf("  %s %s\n", formatPending("["+req.Type+"]"), req.Summary)
				fmt.Println(formatMuted("    id: " + req.ID))
			}
			fmt.Println()
			fmt.Println(formatMuted("  resolve with: aawo approvals resolve <id> approve|reject"))
			return nil
		},
	}

	cmd.AddCommand(a.approvalsResolveCmd())

	return cmd
}

func (a *App) approvalsResolveCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "resolve <id> <approve|reject>",
		Short: "Approve or reject a pending action",
		Args:  cobra.ExactArgs(2),
		Example: `  aawo approvals resolve 6f1c... approve
  aawo approvals resolve 6f1c... reject --reason="wrong week"`,
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()

			var decision approval.Decision
			switch args[1] {
			case "approve":
				decision = approval.Approve
			case "reject":
				decision = approval.Reject
			default:
				return fmt.Errorf("decision must be approve or reject, got %q", args[1])
			}

			req, err := a.store.Resolve(ctx, args[0], decision, reason)
			switch {
			case errors.Is(err, approval.ErrNotFound):
				return fmt.Errorf("no approval with id %q", args[0])
			case errors.Is(err, approval.ErrAlreadyResolved):
				fmt.Printf("Already resolved: %s\n", req.Status)
				return nil
			case err != nil:
				return err
			}

			fmt.Printf("%s: %s\n", req.Status, req.Summary)

			if req.Status != approval.StatusApproved {
				return nil
			}
			if err := a.engine.ApplyDecision(ctx, req); err != nil {
				return fmt.Errorf("applying approved action: %w", err)
			}
			fmt.Println(formatMuted("  applied."))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Optional note recorded with the decision")

	return cmd
}
