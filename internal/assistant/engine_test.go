package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"aawo/internal/approval"
	"aawo/internal/block"
	"aawo/internal/scheduler"
	"aawo/internal/task"
)

// memTasks is an in-memory task.Repository.
type memTasks struct {
	tasks []*task.Task
}

func (m *memTasks) CreateTask(ctx context.Context, t *task.Task) error {
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *memTasks) GetTask(ctx context.Context, id string) (*task.Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTasks) ListOpenTasks(ctx context.Context) ([]*task.Task, error) {
	var open []*task.Task
	for _, t := range m.tasks {
		if t.IsOpen() {
			open = append(open, t)
		}
	}
	return open, nil
}

func (m *memTasks) FindTaskByKeyword(ctx context.Context, keyword string) (*task.Task, error) {
	lowered := strings.ToLower(keyword)
	if lowered == "" {
		return nil, nil
	}
	for _, t := range m.tasks {
		if strings.Contains(strings.ToLower(t.Title), lowered) ||
			strings.Contains(strings.ToLower(t.Description), lowered) {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTasks) SetTaskStatus(ctx context.Context, id string, status task.Status) error {
	t, _ := m.GetTask(ctx, id)
	if t == nil {
		return task.ErrTaskNotFound
	}
	t.Status = status
	t.Version++
	return nil
}

func (m *memTasks) SetTaskPriority(ctx context.Context, id string, priority task.Priority) error {
	t, _ := m.GetTask(ctx, id)
	if t == nil {
		return task.ErrTaskNotFound
	}
	t.Priority = priority
	t.Version++
	return nil
}

// memBlocks is an in-memory block.Repository.
type memBlocks struct {
	blocks []*block.Block
}

func (m *memBlocks) CreateBlock(ctx context.Context, b *block.Block) error {
	for _, existing := range m.blocks {
		if block.Overlaps(b.Start, b.End, existing.Start, existing.End) {
			return block.ErrBlockOverlap
		}
	}
	m.blocks = append(m.blocks, b)
	return nil
}

func (m *memBlocks) GetBlock(ctx context.Context, id string) (*block.Block, error) {
	for _, b := range m.blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (m *memBlocks) ListBlocks(ctx context.Context, start, end time.Time) ([]*block.Block, error) {
	var out []*block.Block
	for _, b := range m.blocks {
		if block.Overlaps(start, end, b.Start, b.End) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBlocks) UpdateBlockTimes(ctx context.Context, id string, start, end time.Time) error {
	b, _ := m.GetBlock(ctx, id)
	if b == nil {
		return block.ErrBlockNotFound
	}
	b.Start, b.End = start, end
	b.Version++
	return nil
}

func (m *memBlocks) DeleteBlock(ctx context.Context, id string) error { return nil }
func (m *memBlocks) UpsertRemoteBlock(ctx context.Context, b *block.Block) (bool, error) {
	return false, nil
}

// memApprovals is an in-memory approval.Repository.
type memApprovals struct {
	requests []*approval.Request
}

func (m *memApprovals) CreateApproval(ctx context.Context, r *approval.Request) error {
	m.requests = append(m.requests, r)
	return nil
}

func (m *memApprovals) GetApproval(ctx context.Context, id string) (*approval.Request, error) {
	for _, r := range m.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, approval.ErrNotFound
}

func (m *memApprovals) ListPendingApprovals(ctx context.Context) ([]*approval.Request, error) {
	var pending []*approval.Request
	for _, r := range m.requests {
		if r.Pending() {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

func (m *memApprovals) Resolve(ctx context.Context, id string, d approval.Decision, reason string) (*approval.Request, error) {
	r, err := m.GetApproval(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Pending() {
		return r, approval.ErrAlreadyResolved
	}
	status, err := approval.StatusFor(d)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	r.Status, r.Reason, r.ResolvedAt = status, reason, &now
	return r, nil
}

func newTestEngine() (*Engine, *memTasks, *memBlocks, *memApprovals) {
	tasks := &memTasks{}
	blocks := &memBlocks{}
	approvals := &memApprovals{}
	e := NewEngine(nil, tasks, blocks, approvals, scheduler.New(blocks))
	e.now = func() time.Time {
		return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	}
	return e, tasks, blocks, approvals
}

func TestFallbackClassify(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"add a task to draft the report", IntentCreateTask},
		{"remind me to call the dentist", IntentCreateTask},
		{"mark the report task done", IntentCompleteTask},
		{"set the report priority to high", IntentUpdatePriority},
		{"reschedule my afternoon", IntentReschedule},
		{"meeting notes: we agreed to ship Friday", IntentMeetingNote},
		{"Alice: please review the doc\nBob: will do by tomorrow", IntentMeetingNote},
		{"what's the weather like", IntentUnknown},
	}

	for _, tt := range tests {
		if got := fallbackClassify(tt.message); got.Intent != tt.want {
			t.Errorf("fallbackClassify(%q) = %s, want %s", tt.message, got.Intent, tt.want)
		}
	}
}

func TestFallbackClassifyPriorityValue(t *testing.T) {
	got := fallbackClassify("set the report priority to urgent")
	if got.Priority != string(task.PriorityCritical) {
		t.Errorf("Priority = %q, want urgent mapped to critical", got.Priority)
	}
}

func TestChatCreateTask(t *testing.T) {
	e, tasks, _, _ := newTestEngine()

	resp, err := e.Chat(context.Background(), "add a task to draft the quarterly report")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if len(tasks.tasks) != 1 {
		t.Fatalf("created %d tasks, want 1", len(tasks.tasks))
	}
	if tasks.tasks[0].Source != task.SourceChat {
		t.Errorf("Source = %q, want chat", tasks.tasks[0].Source)
	}
	if len(resp.Actions) != 1 || resp.Actions[0].Type != ActionTaskCreated {
		t.Errorf("actions = %+v, want one task_created", resp.Actions)
	}
	if len(resp.Refresh) != 1 || resp.Refresh[0] != RefreshTasks {
		t.Errorf("refresh = %v, want [tasks]", resp.Refresh)
	}
}

func TestChatCompleteTask(t *testing.T) {
	e, tasks, _, _ := newTestEngine()
	existing, _ := task.New("Quarterly report", task.SourceManual, nil, 60, task.PriorityMedium)
	tasks.tasks = append(tasks.tasks, existing)

	resp, err := e.Chat(context.Background(), "mark the quarterly report done")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if existing.Status != task.StatusDone {
		t.Errorf("Status = %s, want done", existing.Status)
	}
	if len(resp.Actions) != 1 || resp.Actions[0].Type != ActionTaskCompleted {
		t.Errorf("actions = %+v, want one task_completed", resp.Actions)
	}
}

func TestChatCompleteTaskPicksNamedTask(t *testing.T) {
	e, tasks, _, _ := newTestEngine()
	named, _ := task.New("Expense report", task.SourceManual, nil, 30, task.PriorityMedium)
	recent, _ := task.New("Draft newsletter", task.SourceManual, nil, 60, task.PriorityMedium)
	tasks.tasks = append(tasks.tasks, recent, named)

	resp, err := e.Chat(context.Background(), "done with the expense report")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if named.Status != task.StatusDone {
		t.Errorf("named task status = %s, want done", named.Status)
	}
	if recent.Status == task.StatusDone {
		t.Error("completed the wrong task")
	}
	if len(resp.Actions) != 1 || resp.Actions[0].Detail["task_id"] != named.ID {
		t.Errorf("actions = %+v, want completion of %q", resp.Actions, named.Title)
	}
}

func TestExtractTitleKeyword(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"done with the expense report", "expense report"},
		{"mark the quarterly report done", "quarterly report"},
		{"set the invoice task priority to high", "invoice"},
		{"done", ""},
	}
	for _, tc := range cases {
		if got := extractTitleKeyword(tc.message); got != tc.want {
			t.Errorf("extractTitleKeyword(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestChatCompleteTaskNothingFound(t *testing.T) {
	e, _, _, _ := newTestEngine()

	resp, err := e.Chat(context.Background(), "mark the mystery task done")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if len(resp.Actions) != 0 {
		t.Errorf("actions = %+v, want none when no task matched", resp.Actions)
	}
}

func TestChatRescheduleCreatesApproval(t *testing.T) {
	e, _, blocks, approvals := newTestEngine()

	resp, err := e.Chat(context.Background(), "reschedule my afternoon meetings")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if len(approvals.requests) != 1 {
		t.Fatalf("created %d approvals, want 1", len(approvals.requests))
	}
	req := approvals.requests[0]
	if req.Type != approval.TypeReschedule || !req.Pending() {
		t.Errorf("approval = %s/%s, want pending reschedule", req.Type, req.Status)
	}
	if len(blocks.blocks) != 0 {
		t.Error("reschedule request must not move anything before approval")
	}

	cards := Cards(resp)
	if len(cards) != 1 || cards[0].ApprovalID != req.ID {
		t.Errorf("cards = %+v, want one referencing the approval", cards)
	}
}

func TestChatMeetingNoteSplitsByConfidence(t *testing.T) {
	e, tasks, blocks, approvals := newTestEngine()

	// First line has assignee + deadline + verb: confident, auto-applied.
	// Second line has only a verb hint: queued for approval.
	note := "Alice: Bob will prepare the quarterly report by tomorrow\n" +
		"Bob: someone should investigate the flaky deploy"
	resp, err := e.Chat(context.Background(), note)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if len(tasks.tasks) != 1 {
		t.Fatalf("auto-applied %d tasks, want 1", len(tasks.tasks))
	}
	if tasks.tasks[0].Source != task.SourceMeeting {
		t.Errorf("Source = %q, want meeting", tasks.tasks[0].Source)
	}
	if len(blocks.blocks) != 1 {
		t.Errorf("booked %d blocks, want 1 working block", len(blocks.blocks))
	}
	if blocks.blocks[0].TaskID != tasks.tasks[0].ID {
		t.Error("working block is not linked to its task")
	}

	if len(approvals.requests) != 1 {
		t.Fatalf("queued %d approvals, want 1", len(approvals.requests))
	}
	if approvals.requests[0].Type != approval.TypeActionItem {
		t.Errorf("approval type = %s, want action_item", approvals.requests[0].Type)
	}

	cards := Cards(resp)
	if len(cards) != 1 {
		t.Errorf("cards = %+v, want one for the queued item", cards)
	}
}

func TestChatUnknown(t *testing.T) {
	e, _, _, _ := newTestEngine()

	resp, err := e.Chat(context.Background(), "what's the weather like")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if len(resp.Actions) != 0 || len(resp.Refresh) != 0 {
		t.Errorf("unknown intent produced side effects: %+v", resp)
	}
	if resp.Reply == "" {
		t.Error("unknown intent needs a help reply")
	}
}

func TestApplyDecisionActionItem(t *testing.T) {
	e, tasks, blocks, _ := newTestEngine()

	req, _ := approval.New(approval.TypeActionItem, "Schedule: investigate flaky deploy",
		map[string]any{"title": "Investigate flaky deploy", "effort_minutes": float64(45)})
	req.Status = approval.StatusApproved

	if err := e.ApplyDecision(context.Background(), req); err != nil {
		t.Fatalf("ApplyDecision failed: %v", err)
	}
	if len(tasks.tasks) != 1 || tasks.tasks[0].Title != "Investigate flaky deploy" {
		t.Fatalf("tasks = %+v, want the approved item", tasks.tasks)
	}
	if tasks.tasks[0].EffortMinutes != 45 {
		t.Errorf("EffortMinutes = %d, want 45 from payload", tasks.tasks[0].EffortMinutes)
	}
	if len(blocks.blocks) != 1 {
		t.Errorf("booked %d blocks, want 1", len(blocks.blocks))
	}
}

func TestApplyDecisionRejectionIsInert(t *testing.T) {
	e, tasks, _, _ := newTestEngine()

	req, _ := approval.New(approval.TypeActionItem, "Schedule: something",
		map[string]any{"title": "Something"})
	req.Status = approval.StatusRejected

	if err := e.ApplyDecision(context.Background(), req); err != nil {
		t.Fatalf("ApplyDecision failed: %v", err)
	}
	if len(tasks.tasks) != 0 {
		t.Error("rejection must not create anything")
	}
}

func TestApplyDecisionRescheduleMovesBlock(t *testing.T) {
	e, _, blocks, _ := newTestEngine()
	start := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	b, _ := block.New(block.TypeFocus, "Movable", start, start.Add(time.Hour))
	blocks.blocks = append(blocks.blocks, b)

	req, _ := approval.New(approval.TypeReschedule, "Move the focus block",
		map[string]any{
			"block_id":  b.ID,
			"new_start": "2025-01-15T14:00:00Z",
			"new_end":   "2025-01-15T15:00:00Z",
		})
	req.Status = approval.StatusApproved

	if err := e.ApplyDecision(context.Background(), req); err != nil {
		t.Fatalf("ApplyDecision failed: %v", err)
	}
	if b.Start.Hour() != 14 {
		t.Errorf("block start = %v, want moved to 14:00", b.Start)
	}
}

func TestCards(t *testing.T) {
	resp := &ChatResponse{Actions: []Action{
		{Type: ActionTaskCreated, Detail: map[string]any{"task_id": "t1"}},
		{Type: ActionRescheduleRequested, Detail: map[string]any{"approval_id": "a1", "summary": "move it"}},
		{Type: ActionItemApprovalRequest, Detail: map[string]any{"approval_id": ""}},
		{Type: ActionItemApprovalRequest, Detail: map[string]any{"approval_id": "a2"}},
	}}

	cards := Cards(resp)
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	if cards[0].ApprovalID != "a1" || cards[0].Summary != "move it" {
		t.Errorf("first card = %+v", cards[0])
	}
	if cards[1].ApprovalID != "a2" {
		t.Errorf("second card = %+v", cards[1])
	}

	if got := Cards(nil); got != nil {
		t.Errorf("Cards(nil) = %v, want nil", got)
	}
}
