// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"aawo/internal/approval"
	"aawo/internal/assistant"
	"aawo/internal/timeline"
)

// SnapshotMsg carries a freshly fetched calendar snapshot. Receivers
// must drop it when a later refresh has already superseded it.
type SnapshotMsg struct {
	Snapshot *timeline.Snapshot
}

// ApprovalsLoadedMsg carries the pending approval queue.
type ApprovalsLoadedMsg struct {
	Requests []*approval.Request
}

// ApprovalResolvedMsg is sent after a decision was recorded and, for
// approvals, applied.
type ApprovalResolvedMsg struct {
	Request *approval.Request
}

// ChatRepliedMsg carries the assistant's answer to a prompt.
type ChatRepliedMsg struct {
	Response *assistant.ChatResponse
}

// ErrMsg is sent when a background command fails.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadSnapshot refreshes the merged calendar for [start, end).
func LoadSnapshot(c *timeline.Controller, start, end time.Time) tea.Cmd {
	return func() tea.Msg {
		snap, err := c.Refresh(context.Background(), start, end)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

// LoadApprovals fetches the pending approval queue, oldest first.
func LoadApprovals(repo approval.Repository) tea.Cmd {
	return func() tea.Msg {
		requests, err := repo.ListPendingApprovals(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ApprovalsLoadedMsg{Requests: requests}
	}
}

// ResolveApproval records a decision and, when approved, lets the
// assistant apply the queued action.
func ResolveApproval(repo approval.Repository, engine *assistant.Engine, id string, decision approval.Decision) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		req, err := repo.Resolve(ctx, id, decision, "")
		if err != nil {
			return ErrMsg{Err: err}
		}
		if req.Status == approval.StatusApproved && engine != nil {
			if err := engine.ApplyDecision(ctx, req); err != nil {
				return ErrMsg{Err: err}
			}
		}
		return ApprovalResolvedMsg{Request: req}
	}
}

// SendChat forwards one prompt to the assistant.
func SendChat(engine *assistant.Engine, message string) tea.Cmd {
	return func() tea.Msg {
		resp, err := engine.Chat(context.Background(), message)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ChatRepliedMsg{Response: resp}
	}
}

// CopyText puts text on the system clipboard.
func CopyText(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Msg: "Copied to clipboard"}
	}
}
