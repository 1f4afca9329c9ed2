package tui

import (
	"strings"
	"testing"
	"time"

	"aawo/internal/approval"
	"aawo/internal/event"
	"aawo/internal/timeline"
)

func TestViewRendersWeekHeaders(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 120
	m.height = 30
	m.loading = false
	m.snap = &timeline.Snapshot{
		Start: m.nav.WeekStart,
		End:   m.nav.WeekEnd(),
		Events: []event.Event{
			{
				ID:    "local-1",
				Title: "Standup",
				Start: m.nav.Selected.Add(10 * time.Hour),
				End:   m.nav.Selected.Add(10*time.Hour + 30*time.Minute),
				Kind:  event.KindLocal,
			},
		},
	}

	out := m.View()

	for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		if !strings.Contains(out, day) {
			t.Errorf("view missing %s column header", day)
		}
	}
	if !strings.Contains(out, "Standup") {
		t.Error("view missing the scheduled event")
	}
	if !strings.Contains(out, "Week of") {
		t.Error("view missing the week header")
	}
}

func TestViewTooNarrow(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 10

	if got := m.View(); got != "Terminal too small" {
		t.Errorf("View() = %q, want terminal size warning", got)
	}
}

func TestApprovalsModalListsPending(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 100
	m.height = 30
	m.mode = ModeApprovals

	req, err := approval.New(approval.TypeActionItem, "Review the budget draft", nil)
	if err != nil {
		t.Fatalf("approval.New() error = %v", err)
	}
	m.pending = []*approval.Request{req}

	out := m.View()
	if !strings.Contains(out, "Review the budget draft") {
		t.Error("modal missing the pending request summary")
	}
	if !strings.Contains(out, "approve") {
		t.Error("modal missing key hints")
	}
}

func TestApprovalsModalEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	m.width = 100
	m.height = 30
	m.mode = ModeApprovals

	if out := m.View(); !strings.Contains(out, "Nothing waiting") {
		t.Error("empty modal should say nothing is waiting")
	}
}
