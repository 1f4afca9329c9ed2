package assistant

import (
	"context"
	"strings"
	"time"

	"aawo/internal/llm"
	"aawo/internal/meeting"
	"aawo/internal/task"
)

// Intents the assistant understands.
const (
	IntentCreateTask     = "create_task"
	IntentCompleteTask   = "complete_task"
	IntentUpdatePriority = "update_priority"
	IntentReschedule     = "reschedule_request"
	IntentMeetingNote    = "register_meeting_note"
	IntentUnknown        = "unknown"
)

// intentResult is the parsed form of a user message.
type intentResult struct {
	Intent        string `json:"intent"`
	Title         string `json:"title"`
	Due           string `json:"due"`
	EffortMinutes int    `json:"effort_minutes"`
	Priority      string `json:"priority"`
	TimeHint      string `json:"time_hint"`
	MeetingNote   string `json:"meeting_note"`
}

const classifyPrompt = `You convert a user's planner message into one intent.
Intents: create_task, complete_task, update_priority, reschedule_request, register_meeting_note, unknown.
Respond with JSON only:
{"intent": "...", "title": "...", "due": "YYYY-MM-DD or empty", "effort_minutes": 0, "priority": "low|medium|high|critical or empty", "time_hint": "...", "meeting_note": "..."}
Use title for the task the user refers to. Leave fields empty when not present.`

// classify parses the message, asking the model when one is configured
// and falling back to keyword rules when it is not or when it fails.
func (e *Engine) classify(ctx context.Context, message string) intentResult {
	if e.llm != nil {
		var result intentResult
		err := e.llm.ChatJSON(ctx, []llm.Message{
			{Role: "system", Content: classifyPrompt},
			{Role: "user", Content: message},
		}, &result)
		if err == nil && result.Intent != "" {
			return result
		}
	}
	return fallbackClassify(message)
}

// fallbackClassify is the rule-based classifier. Order matters: meeting
// notes are the most distinctive shape, then the narrower verbs, with
// create as the broadest catch before unknown.
func fallbackClassify(message string) intentResult {
	lowered := strings.ToLower(message)

	if looksLikeMeetingNote(message) {
		return intentResult{Intent: IntentMeetingNote, MeetingNote: message}
	}
	if strings.Contains(lowered, "priority") {
		return intentResult{
			Intent:   IntentUpdatePriority,
			Title:    message,
			Priority: findPriority(lowered),
		}
	}
	if strings.Contains(lowered, "done") || strings.Contains(lowered, "complete") ||
		strings.Contains(lowered, "finished") {
		return intentResult{Intent: IntentCompleteTask, Title: message}
	}
	if strings.Contains(lowered, "add") || strings.Contains(lowered, "create") ||
		strings.Contains(lowered, "remind me") || strings.Contains(lowered, "new task") {
		return intentResult{Intent: IntentCreateTask, Title: message, EffortMinutes: 60, Priority: "medium"}
	}
	if strings.Contains(lowered, "reschedule") || strings.Contains(lowered, "move") ||
		strings.Contains(lowered, "shift") || strings.Contains(lowered, "rearrange") {
		return intentResult{Intent: IntentReschedule, TimeHint: message}
	}

	return intentResult{Intent: IntentUnknown}
}

// looksLikeMeetingNote recognizes pasted transcripts: an explicit
// marker, or several lines where at least one has a short speaker
// prefix before a colon.
func looksLikeMeetingNote(message string) bool {
	if strings.Contains(strings.ToLower(message), "meeting notes") {
		return true
	}

	var lines []string
	for _, line := range strings.Split(message, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return false
	}

	speakerLike := 0
	for _, line := range lines {
		if idx := strings.Index(line, ":"); idx > 0 && idx <= 20 {
			speakerLike++
		}
	}
	return speakerLike >= 1
}

// titleFiller holds the command verbs and connective words that
// surround a task name in complete/priority messages.
var titleFiller = map[string]bool{
	"mark": true, "marked": true, "set": true, "make": true, "change": true,
	"update": true, "done": true, "complete": true, "completed": true,
	"finish": true, "finished": true, "priority": true, "task": true,
	"the": true, "a": true, "an": true, "my": true, "that": true,
	"this": true, "as": true, "is": true, "to": true, "with": true,
	"of": true, "for": true, "on": true, "it": true, "i": true,
	"im": true, "i'm": true, "please": true,
	"low": true, "medium": true, "high": true, "critical": true, "urgent": true,
}

// extractTitleKeyword strips the command words from a message, keeping
// the words likely to name the task: "done with the expense report"
// becomes "expense report".
func extractTitleKeyword(message string) string {
	var kept []string
	for _, word := range strings.Fields(strings.ToLower(message)) {
		word = strings.Trim(word, ".,!?:;\"'")
		if word == "" || titleFiller[word] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func findPriority(lowered string) string {
	for _, p := range []string{"critical", "urgent", "high", "medium", "low"} {
		if strings.Contains(lowered, p) {
			if p == "urgent" {
				return string(task.PriorityCritical)
			}
			return p
		}
	}
	return ""
}

// parseTranscript splits a pasted note into utterances, using "name:"
// prefixes as speakers where present.
func parseTranscript(note string) []meeting.Utterance {
	cleaned := strings.TrimSpace(note)
	for _, prefix := range []string{"meeting notes:", "meeting notes"} {
		if strings.HasPrefix(strings.ToLower(cleaned), prefix) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
			break
		}
	}

	var transcript []meeting.Utterance
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		speaker, text := "", line
		if idx := strings.Index(line, ":"); idx > 0 && idx <= 20 {
			speaker = strings.TrimSpace(line[:idx])
			if rest := strings.TrimSpace(line[idx+1:]); rest != "" {
				text = rest
			}
		}
		transcript = append(transcript, meeting.Utterance{Speaker: speaker, Text: text})
	}
	return transcript
}

// parseDue accepts the date shapes the classifier emits.
func parseDue(value string, loc *time.Location) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, format := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(format, value, loc); err == nil {
			return &t
		}
	}
	return nil
}
