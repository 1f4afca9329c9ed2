// Package assistant implements the chat interface over tasks, blocks,
// and approvals. Every reply carries structured actions so the caller
// can surface cards and refresh the right views; the assistant itself
// never mutates anything that requires approval.
package assistant

// Action types emitted in chat responses.
const (
	ActionTaskCreated         = "task_created"
	ActionTaskCompleted       = "task_completed"
	ActionTaskPriorityUpdated = "task_priority_updated"
	ActionMeetingRegistered   = "meeting_registered"
	ActionItemsProcessed      = "action_items_processed"
	ActionRescheduleRequested = "reschedule_approval_requested"
	ActionItemApprovalRequest = "action_item_approval_requested"
)

// Refresh scopes name the views a response invalidated.
const (
	RefreshCalendar  = "calendar"
	RefreshTasks     = "tasks"
	RefreshApprovals = "approvals"
)

// Action is a structured side effect attached to a chat reply.
type Action struct {
	Type   string         `json:"type"`
	Detail map[string]any `json:"detail"`
}

// ChatResponse is the assistant's answer to one message.
type ChatResponse struct {
	Reply   string   `json:"reply"`
	Actions []Action `json:"actions"`
	Refresh []string `json:"refresh"`
}

// Card is an inline approval prompt extracted from a chat response.
// Resolving a card goes through the same repository path as the
// approvals queue, so whichever surface decides first wins.
type Card struct {
	ApprovalID string
	Type       string
	Summary    string
}

// approvalCardTypes are the action types that carry a decidable card.
var approvalCardTypes = map[string]bool{
	ActionRescheduleRequested: true,
	ActionItemApprovalRequest: true,
}

// Cards extracts approval cards from a response. Actions of other
// types, or approval actions missing their id, yield no card.
func Cards(resp *ChatResponse) []Card {
	if resp == nil {
		return nil
	}

	var cards []Card
	for _, a := range resp.Actions {
		if !approvalCardTypes[a.Type] {
			continue
		}
		id, _ := a.Detail["approval_id"].(string)
		if id == "" {
			continue
		}
		summary, _ := a.Detail["summary"].(string)
		cards = append(cards, Card{ApprovalID: id, Type: a.Type, Summary: summary})
	}
	return cards
}
