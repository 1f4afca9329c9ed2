package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"aawo/internal/approval"
	"aawo/internal/assistant"
	"aawo/internal/layout"
	"aawo/internal/nav"
	"aawo/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = clampInt(msg.Width-8, 20, 120)
		return m, nil

	case commands.SnapshotMsg:
		// A later refresh may already be in flight. Render only the
		// newest snapshot.
		if !m.controller.Current(msg.Snapshot) {
			return m, nil
		}
		m.snap = msg.Snapshot
		m.loading = false
		m.eventCursor = 0
		if msg.Snapshot.Notice != "" {
			cmd := m.setStatus(msg.Snapshot.Notice)
			return m, cmd
		}
		return m, nil

	case commands.ApprovalsLoadedMsg:
		m.pending = msg.Requests
		m.approvalCursor = 0
		m.mode = ModeApprovals
		return m, nil

	case commands.ApprovalResolvedMsg:
		status := fmt.Sprintf("%s: %s", msg.Request.Status, msg.Request.Summary)
		// The applied action may have created or moved blocks.
		cmd := tea.Batch(
			m.setStatus(status),
			commands.LoadApprovals(m.approvals),
			m.refetch(),
		)
		return m, cmd

	case commands.ChatRepliedMsg:
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		cmd := tea.Batch(
			m.setStatus(chatSummary(msg.Response)),
			m.refetch(),
		)
		return m, cmd

	case commands.ErrMsg:
		m.err = msg.Err
		m.mode = ModeNormal
		m.loading = false
		m.statusMsg = "Error: " + msg.Err.Error()
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, nil

	case commands.StatusMsg:
		cmd := m.setStatus(msg.Msg)
		return m, cmd

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKey(msg)
	case ModeApprovals:
		return m.handleApprovalsKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var sig navSignal

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "h", "left":
		m.nav, sig.week = stepped(m.nav.StepDay(-1))
	case "l", "right":
		m.nav, sig.week = stepped(m.nav.StepDay(1))
	case "H", "shift+left":
		m.nav, sig.week = stepped(m.nav.PageWeek(-1))
	case "L", "shift+right":
		m.nav, sig.week = stepped(m.nav.PageWeek(1))
	case "t":
		m.nav, sig.week = stepped(m.nav.JumpToToday(m.nowFunc()))
	case "[":
		m.nav, sig.week = stepped(m.nav.PageMonth(-1))
	case "]":
		m.nav, sig.week = stepped(m.nav.PageMonth(1))

	case "j", "down":
		m.eventCursor = clampInt(m.eventCursor+1, 0, maxCursor(m.selectedDayEvents()))
		return m, nil
	case "k", "up":
		m.eventCursor = clampInt(m.eventCursor-1, 0, maxCursor(m.selectedDayEvents()))
		return m, nil

	case "y":
		if focused, ok := m.focusedEvent(); ok {
			return m, commands.CopyText(eventYankText(focused))
		}
		return m, nil

	case "a":
		return m, commands.LoadApprovals(m.approvals)

	case "c", "i":
		m.mode = ModePrompt
		m.prompt.Focus()
		return m, nil

	case "r":
		cmd := m.refetch()
		return m, cmd
	}

	m.eventCursor = 0
	if sig.week {
		cmd := m.refetch()
		return m, cmd
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.prompt.Value())
		if text == "" {
			return m, nil
		}
		cmd := tea.Batch(
			m.setStatus("Thinking..."),
			commands.SendChat(m.engine, text),
		)
		return m, cmd
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handleApprovalsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = ModeNormal
		return m, nil
	case "j", "down":
		m.approvalCursor = clampInt(m.approvalCursor+1, 0, len(m.pending)-1)
		return m, nil
	case "k", "up":
		m.approvalCursor = clampInt(m.approvalCursor-1, 0, len(m.pending)-1)
		return m, nil
	case "a", "enter":
		if req, ok := m.focusedApproval(); ok {
			return m, commands.ResolveApproval(m.approvals, m.engine, req.ID, approval.Approve)
		}
	case "x":
		if req, ok := m.focusedApproval(); ok {
			return m, commands.ResolveApproval(m.approvals, m.engine, req.ID, approval.Reject)
		}
	}
	return m, nil
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.statusMsg = text
	m.statusTime = time.Now().Add(4 * time.Second)
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// selectedDayEvents returns the laid-out events of the selected day.
func (m Model) selectedDayEvents() []layout.Positioned {
	if m.snap == nil {
		return nil
	}
	startMin, endMin := m.config.DayWindow()
	return m.snap.Day(m.nav.Selected, startMin, endMin)
}

func (m Model) focusedEvent() (layout.Positioned, bool) {
	events := m.selectedDayEvents()
	if m.eventCursor < 0 || m.eventCursor >= len(events) {
		return layout.Positioned{}, false
	}
	return events[m.eventCursor], true
}

func (m Model) focusedApproval() (*approval.Request, bool) {
	if m.approvalCursor < 0 || m.approvalCursor >= len(m.pending) {
		return nil, false
	}
	return m.pending[m.approvalCursor], true
}

func eventYankText(p layout.Positioned) string {
	return fmt.Sprintf("%s %s-%s %s",
		p.ClippedStart.Format("2006-01-02"),
		p.ClippedStart.Format("15:04"),
		p.ClippedEnd.Format("15:04"),
		p.Title)
}

func chatSummary(resp *assistant.ChatResponse) string {
	if resp == nil {
		return ""
	}
	if cards := assistant.Cards(resp); len(cards) > 0 {
		return resp.Reply + " (press a to review approvals)"
	}
	return resp.Reply
}

type navSignal struct {
	week bool
}

// stepped adapts nav transitions to assignment-friendly returns.
func stepped(s nav.State, sig nav.Signal) (nav.State, bool) {
	return s, sig.WeekChanged
}

func maxCursor(events []layout.Positioned) int {
	if len(events) == 0 {
		return 0
	}
	return len(events) - 1
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
