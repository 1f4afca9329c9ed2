package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aawo/internal/approval"
	"aawo/internal/block"
	"aawo/internal/llm"
	"aawo/internal/meeting"
	"aawo/internal/scheduler"
	"aawo/internal/task"
)

const unknownReply = "I could not work out what you want. Try: " +
	"'add a task to draft the report by Friday', 'mark the report task done', " +
	"'set the report task priority to high', 'reschedule my afternoon', " +
	"or paste meeting notes."

// Engine turns chat messages into task, block, and approval operations.
type Engine struct {
	llm       llm.Client // nil runs rule-based classification only
	tasks     task.Repository
	blocks    block.Repository
	approvals approval.Repository
	sched     *scheduler.Scheduler

	now func() time.Time
}

// NewEngine creates an Engine. client may be nil for offline use.
func NewEngine(client llm.Client, tasks task.Repository, blocks block.Repository, approvals approval.Repository, sched *scheduler.Scheduler) *Engine {
	return &Engine{
		llm:       client,
		tasks:     tasks,
		blocks:    blocks,
		approvals: approvals,
		sched:     sched,
		now:       time.Now,
	}
}

// Chat handles one user message.
func (e *Engine) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	parsed := e.classify(ctx, message)

	switch parsed.Intent {
	case IntentCreateTask:
		return e.createTask(ctx, parsed, message)
	case IntentCompleteTask:
		return e.completeTask(ctx, parsed, message)
	case IntentUpdatePriority:
		return e.updatePriority(ctx, parsed, message)
	case IntentReschedule:
		return e.requestReschedule(ctx, parsed, message)
	case IntentMeetingNote:
		note := parsed.MeetingNote
		if note == "" {
			note = message
		}
		return e.registerMeetingNote(ctx, note)
	default:
		return &ChatResponse{Reply: unknownReply}, nil
	}
}

func (e *Engine) createTask(ctx context.Context, parsed intentResult, message string) (*ChatResponse, error) {
	title := parsed.Title
	if title == "" {
		title = message
	}
	effort := parsed.EffortMinutes
	if effort == 0 {
		effort = 60
	}
	priority := task.Priority(parsed.Priority)
	if !priority.Valid() {
		priority = task.PriorityMedium
	}
	due := parseDue(parsed.Due, e.now().Location())

	t, err := task.New(title, task.SourceChat, due, effort, priority)
	if err != nil {
		return nil, err
	}
	if err := e.tasks.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return &ChatResponse{
		Reply: fmt.Sprintf("Created the task: %s", t.Title),
		Actions: []Action{{
			Type:   ActionTaskCreated,
			Detail: map[string]any{"task_id": t.ID, "title": t.Title},
		}},
		Refresh: []string{RefreshTasks},
	}, nil
}

func (e *Engine) completeTask(ctx context.Context, parsed intentResult, message string) (*ChatResponse, error) {
	t, err := e.findTask(ctx, parsed.Title, message)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return &ChatResponse{
			Reply: "I could not find a task to mark done. Name it a bit more specifically.",
		}, nil
	}

	if err := e.tasks.SetTaskStatus(ctx, t.ID, task.StatusDone); err != nil {
		return nil, fmt.Errorf("completing task: %w", err)
	}

	return &ChatResponse{
		Reply: fmt.Sprintf("Marked done: %s", t.Title),
		Actions: []Action{{
			Type:   ActionTaskCompleted,
			Detail: map[string]any{"task_id": t.ID, "title": t.Title},
		}},
		Refresh: []string{RefreshTasks},
	}, nil
}

func (e *Engine) updatePriority(ctx context.Context, parsed intentResult, message string) (*ChatResponse, error) {
	priority := task.Priority(parsed.Priority)
	if !priority.Valid() {
		return &ChatResponse{
			Reply: "I could not read a priority. Use low, medium, high, or critical.",
		}, nil
	}

	t, err := e.findTask(ctx, parsed.Title, message)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return &ChatResponse{Reply: "I could not find a task to reprioritize."}, nil
	}

	if err := e.tasks.SetTaskPriority(ctx, t.ID, priority); err != nil {
		return nil, fmt.Errorf("updating priority: %w", err)
	}

	return &ChatResponse{
		Reply: fmt.Sprintf("Changed priority: %s -> %s", t.Title, priority),
		Actions: []Action{{
			Type:   ActionTaskPriorityUpdated,
			Detail: map[string]any{"task_id": t.ID, "priority": string(priority)},
		}},
		Refresh: []string{RefreshTasks},
	}, nil
}

// requestReschedule never moves anything itself. It parks the proposal
// as a pending approval and hands back a card.
func (e *Engine) requestReschedule(ctx context.Context, parsed intentResult, message string) (*ChatResponse, error) {
	hint := parsed.TimeHint
	if hint == "" {
		hint = message
	}

	req, err := approval.New(approval.TypeReschedule,
		fmt.Sprintf("Reschedule request: %s", hint),
		map[string]any{"time_hint": hint})
	if err != nil {
		return nil, err
	}
	if err := e.approvals.CreateApproval(ctx, req); err != nil {
		return nil, fmt.Errorf("creating approval: %w", err)
	}

	return &ChatResponse{
		Reply: "I drafted a reschedule and queued it for your approval.",
		Actions: []Action{{
			Type: ActionRescheduleRequested,
			Detail: map[string]any{
				"approval_id": req.ID,
				"summary":     req.Summary,
			},
		}},
		Refresh: []string{RefreshApprovals, RefreshCalendar},
	}, nil
}

func (e *Engine) registerMeetingNote(ctx context.Context, note string) (*ChatResponse, error) {
	transcript := parseTranscript(note)
	candidates := meeting.Extract(transcript, "", e.now())

	actions := []Action{{
		Type:   ActionMeetingRegistered,
		Detail: map[string]any{"lines": len(transcript)},
	}}

	autoApplied, queued := 0, 0
	for _, c := range candidates {
		if c.NeedsApproval() {
			req, err := approval.New(approval.TypeActionItem,
				fmt.Sprintf("Schedule: %s", c.Title),
				map[string]any{
					"title":          c.Title,
					"effort_minutes": c.EffortMinutes,
					"due":            formatDue(c.Due),
					"rationale":      c.Rationale,
				})
			if err != nil {
				return nil, err
			}
			if err := e.approvals.CreateApproval(ctx, req); err != nil {
				return nil, fmt.Errorf("queueing action item: %w", err)
			}
			actions = append(actions, Action{
				Type: ActionItemApprovalRequest,
				Detail: map[string]any{
					"approval_id": req.ID,
					"summary":     req.Summary,
				},
			})
			queued++
			continue
		}

		if _, err := e.applyActionItem(ctx, c.Title, c.Due, c.EffortMinutes); err != nil {
			return nil, err
		}
		autoApplied++
	}

	actions = append(actions, Action{
		Type: ActionItemsProcessed,
		Detail: map[string]any{
			"detected":         len(candidates),
			"auto_tasks":       autoApplied,
			"approval_pending": queued,
		},
	})

	return &ChatResponse{
		Reply: fmt.Sprintf(
			"Registered the meeting note and processed %d action items: %d applied, %d awaiting approval.",
			len(candidates), autoApplied, queued),
		Actions: actions,
		Refresh: []string{RefreshCalendar, RefreshTasks, RefreshApprovals},
	}, nil
}

// applyActionItem creates the task and, when a slot is free, books a
// working block for it. A fully booked horizon leaves the task
// unscheduled rather than failing the whole note.
func (e *Engine) applyActionItem(ctx context.Context, title string, due *time.Time, effortMinutes int) (*task.Task, error) {
	t, err := task.New(title, task.SourceMeeting, due, effortMinutes, task.PriorityMedium)
	if err != nil {
		return nil, err
	}
	if err := e.tasks.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	start, end, err := e.sched.NextFreeSlot(ctx, e.now(), t.EffortMinutes)
	if errors.Is(err, scheduler.ErrNoFreeSlot) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding slot: %w", err)
	}

	b, err := block.New(block.TypeTask, t.Title, start, end)
	if err != nil {
		return nil, err
	}
	b.TaskID = t.ID
	if err := e.blocks.CreateBlock(ctx, b); err != nil {
		// The slot was free a moment ago; losing it is not fatal.
		if errors.Is(err, block.ErrBlockOverlap) {
			return t, nil
		}
		return nil, fmt.Errorf("booking block: %w", err)
	}

	return t, nil
}

// ApplyDecision performs the side effects of a freshly resolved
// approval. Rejections have none; approvals apply their payload.
func (e *Engine) ApplyDecision(ctx context.Context, req *approval.Request) error {
	if req.Status != approval.StatusApproved {
		return nil
	}

	switch req.Type {
	case approval.TypeActionItem:
		title, _ := req.Payload["title"].(string)
		if title == "" {
			title = req.Summary
		}
		effort := intFromPayload(req.Payload["effort_minutes"], 60)
		due := parseDue(stringFromPayload(req.Payload["due"]), e.now().Location())
		_, err := e.applyActionItem(ctx, title, due, effort)
		return err

	case approval.TypeReschedule:
		blockID, _ := req.Payload["block_id"].(string)
		if blockID == "" {
			// A free-form reschedule request has no target block yet;
			// approving it only records consent.
			return nil
		}
		start := parseDue(stringFromPayload(req.Payload["new_start"]), e.now().Location())
		end := parseDue(stringFromPayload(req.Payload["new_end"]), e.now().Location())
		if start == nil || end == nil {
			return fmt.Errorf("reschedule payload for block %s is missing times", blockID)
		}
		return e.blocks.UpdateBlockTimes(ctx, blockID, *start, *end)

	default:
		return nil
	}
}

// findTask resolves which task a message refers to: the classifier's
// title if it gave one, then the message's candidate title words, then
// the most recently touched open task.
func (e *Engine) findTask(ctx context.Context, title, message string) (*task.Task, error) {
	keyword := strings.TrimSpace(title)
	if keyword == "" || strings.EqualFold(keyword, strings.TrimSpace(message)) {
		keyword = extractTitleKeyword(message)
	}

	if keyword != "" {
		t, err := e.tasks.FindTaskByKeyword(ctx, keyword)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}

		// The phrase as a whole missed; single distinctive words still
		// often hit ("finish reviewing the expense report" -> "expense").
		for _, word := range strings.Fields(keyword) {
			if len(word) < 4 {
				continue
			}
			t, err := e.tasks.FindTaskByKeyword(ctx, word)
			if err != nil {
				return nil, err
			}
			if t != nil {
				return t, nil
			}
		}
	}

	open, err := e.tasks.ListOpenTasks(ctx)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, nil
	}
	return open[0], nil
}

func formatDue(due *time.Time) string {
	if due == nil {
		return ""
	}
	return due.Format(time.RFC3339)
}

func intFromPayload(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64: // JSON numbers decode as float64
		return int(n)
	default:
		return fallback
	}
}

func stringFromPayload(v any) string {
	s, _ := v.(string)
	return s
}
