package briefing

import (
	"strings"
	"testing"
	"time"

	"aawo/internal/block"
	"aawo/internal/task"
)

const (
	workStartMin = 9 * 60  // 09:00
	workEndMin   = 18 * 60 // 18:00
)

func day() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local) // Monday
}

func at(hour, min int) time.Time {
	d := day()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.Local)
}

func newBlock(blockType block.Type, source string, start, end time.Time) *block.Block {
	return &block.Block{
		ID:     "b-" + start.Format("15:04"),
		Type:   blockType,
		Title:  "block",
		Start:  start,
		End:    end,
		Source: source,
	}
}

func TestSummarizeStats(t *testing.T) {
	blocks := []*block.Block{
		newBlock(block.TypeFocus, block.SourceApp, at(9, 0), at(10, 30)),
		newBlock(block.TypeTask, block.SourceApp, at(11, 0), at(12, 0)),
		newBlock(block.TypeOther, block.SourceExternal, at(14, 0), at(15, 0)),
		newBlock(block.TypeOther, block.SourceApp, at(16, 0), at(16, 30)),
	}

	b := Summarize(day(), workStartMin, workEndMin, blocks, nil)

	if b.Stats.FocusMinutes != 150 {
		t.Fatalf("focus minutes = %d, want 150", b.Stats.FocusMinutes)
	}
	if b.Stats.MeetingMinutes != 60 {
		t.Fatalf("meeting minutes = %d, want 60", b.Stats.MeetingMinutes)
	}
	// 9h window minus 4h booked.
	if b.Stats.FreeMinutes != 300 {
		t.Fatalf("free minutes = %d, want 300", b.Stats.FreeMinutes)
	}
}

func TestSummarizeClampsBlocksToDay(t *testing.T) {
	// Spills from the previous evening into the morning.
	blocks := []*block.Block{
		newBlock(block.TypeFocus, block.SourceApp, at(9, 0).AddDate(0, 0, -1), at(1, 0)),
	}

	b := Summarize(day(), workStartMin, workEndMin, blocks, nil)

	if b.Stats.FocusMinutes != 60 {
		t.Fatalf("focus minutes = %d, want 60", b.Stats.FocusMinutes)
	}
}

func TestSummarizeFirstFreeSlot(t *testing.T) {
	blocks := []*block.Block{
		newBlock(block.TypeFocus, block.SourceApp, at(9, 0), at(10, 0)),
		newBlock(block.TypeOther, block.SourceExternal, at(10, 0), at(10, 30)),
	}
	tasks := []*task.Task{
		{ID: "t1", Title: "Write report", Priority: task.PriorityHigh, EffortMinutes: 60},
	}

	b := Summarize(day(), workStartMin, workEndMin, blocks, tasks)

	if len(b.TopTasks) != 1 {
		t.Fatalf("top tasks = %d, want 1", len(b.TopTasks))
	}
	slot := b.TopTasks[0].Slot
	if slot == nil {
		t.Fatal("expected a recommended slot")
	}
	if !slot.Start.Equal(at(10, 30)) {
		t.Fatalf("slot start = %v, want %v", slot.Start, at(10, 30))
	}
	// The open afternoon is capped at 90 minutes.
	if !slot.End.Equal(at(12, 0)) {
		t.Fatalf("slot end = %v, want %v", slot.End, at(12, 0))
	}
}

func TestSummarizeNoFreeSlotWhenBooked(t *testing.T) {
	blocks := []*block.Block{
		newBlock(block.TypeFocus, block.SourceApp, at(9, 0), at(18, 0)),
	}
	tasks := []*task.Task{
		{ID: "t1", Title: "Write report", Priority: task.PriorityHigh, EffortMinutes: 60},
	}

	b := Summarize(day(), workStartMin, workEndMin, blocks, tasks)

	if b.TopTasks[0].Slot != nil {
		t.Fatalf("slot = %v, want nil", b.TopTasks[0].Slot)
	}
}

func TestSummarizeTaskOrdering(t *testing.T) {
	noon := at(12, 0)
	evening := at(17, 0)
	tasks := []*task.Task{
		{ID: "low", Title: "Tidy notes", Priority: task.PriorityLow, EffortMinutes: 30},
		{ID: "high-late", Title: "Quarterly review", Priority: task.PriorityHigh, Due: &evening, EffortMinutes: 60},
		{ID: "high-early", Title: "Send invoice", Priority: task.PriorityHigh, Due: &noon, EffortMinutes: 30},
		{ID: "high-nodue", Title: "Plan offsite", Priority: task.PriorityHigh, EffortMinutes: 60},
		{ID: "critical", Title: "Fix outage", Priority: task.PriorityCritical, EffortMinutes: 90},
	}

	b := Summarize(day(), workStartMin, workEndMin, nil, tasks)

	want := []string{"critical", "high-early", "high-late", "high-nodue", "low"}
	if len(b.TopTasks) != len(want) {
		t.Fatalf("top tasks = %d, want %d", len(b.TopTasks), len(want))
	}
	for i, id := range want {
		if b.TopTasks[i].TaskID != id {
			t.Fatalf("top[%d] = %s, want %s", i, b.TopTasks[i].TaskID, id)
		}
	}
}

func TestSummarizeTopTasksCapped(t *testing.T) {
	var tasks []*task.Task
	for i := 0; i < 8; i++ {
		tasks = append(tasks, &task.Task{
			ID:            string(rune('a' + i)),
			Title:         "task",
			Priority:      task.PriorityMedium,
			EffortMinutes: 30,
		})
	}

	b := Summarize(day(), workStartMin, workEndMin, nil, tasks)

	if len(b.TopTasks) != 5 {
		t.Fatalf("top tasks = %d, want 5", len(b.TopTasks))
	}
}

func TestSummarizeRisksAndReminders(t *testing.T) {
	yesterday := at(12, 0).AddDate(0, 0, -1)
	today := at(15, 0)
	tasks := []*task.Task{
		{ID: "t1", Title: "Overdue filing", Priority: task.PriorityMedium, Due: &yesterday, EffortMinutes: 30},
		{ID: "t2", Title: "Budget sheet", Priority: task.PriorityMedium, Due: &today, EffortMinutes: 30},
		{ID: "t3", Title: "Design review", Priority: task.PriorityMedium, Due: &today, EffortMinutes: 30},
		{ID: "t4", Title: "Status mail", Priority: task.PriorityMedium, Due: &today, EffortMinutes: 30},
		{ID: "t5", Title: "One more", Priority: task.PriorityMedium, Due: &today, EffortMinutes: 30},
	}
	// Booked solid: free time risk fires too.
	blocks := []*block.Block{
		newBlock(block.TypeFocus, block.SourceApp, at(9, 0), at(17, 0)),
	}

	b := Summarize(day(), workStartMin, workEndMin, blocks, tasks)

	if len(b.Risks) != 3 {
		t.Fatalf("risks = %v, want 3 entries", b.Risks)
	}
	if !strings.Contains(b.Risks[0], "1 overdue") {
		t.Fatalf("risks[0] = %q, want overdue count", b.Risks[0])
	}
	if len(b.Reminders) != 3 {
		t.Fatalf("reminders = %v, want 3 entries", b.Reminders)
	}
	if !strings.Contains(b.Reminders[0], "Budget sheet") {
		t.Fatalf("reminders[0] = %q, want first due-today task", b.Reminders[0])
	}
}

func TestSummarizeQuietDayHasNoRisks(t *testing.T) {
	b := Summarize(day(), workStartMin, workEndMin, nil, nil)

	if len(b.Risks) != 0 {
		t.Fatalf("risks = %v, want none", b.Risks)
	}
	if len(b.Reminders) != 0 {
		t.Fatalf("reminders = %v, want none", b.Reminders)
	}
	if b.Stats.FreeMinutes != workEndMin-workStartMin {
		t.Fatalf("free minutes = %d, want full window", b.Stats.FreeMinutes)
	}
}
