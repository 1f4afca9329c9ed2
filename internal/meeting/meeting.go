// Package meeting extracts action item candidates from meeting notes.
// Extraction is rule based: it scores each line on the signals it finds
// rather than asking a model, so it works offline and stays cheap enough
// to run on every note.
package meeting

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Thresholds for downstream handling of candidates. Anything below
// AutoApplyConfidence, or estimated above LargeEffortMinutes, goes
// through the approval queue instead of being applied directly.
const (
	AutoApplyConfidence = 0.75
	LargeEffortMinutes  = 240
)

const (
	defaultEffortMinutes = 60
	minTitleLength       = 6
	maxTitleLength       = 120
)

// actionHints are verbs and phrases that suggest a line assigns work.
var actionHints = []string{
	"fix", "review", "send", "prepare", "update", "write", "draft",
	"share", "schedule", "follow up", "finish", "investigate", "set up",
	"need to", "should", "todo", "action item",
}

var (
	assigneeRe    = regexp.MustCompile(`\b([A-Z][a-z]+)\s+(?:will|to|should|takes?)\b`)
	effortHoursRe = regexp.MustCompile(`(\d+)\s*(?:hours?|hrs?|h)\b`)
	effortMinsRe  = regexp.MustCompile(`(\d+)\s*(?:minutes?|mins?|m)\b`)
	dueDateRe     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	fillerRe      = regexp.MustCompile(`^(?:so|ok(?:ay)?|well|um|uh)[,\s]+`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// dueKeywords map relative phrases to day offsets from the base time.
var dueKeywords = map[string]int{
	"today":              0,
	"tomorrow":           1,
	"day after tomorrow": 2,
	"end of week":        0, // resolved to Friday below
	"next week":          7,
}

// Utterance is one line of a meeting transcript.
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Candidate is a proposed action item with a confidence score.
type Candidate struct {
	Title         string
	Assignee      string
	Due           *time.Time
	EffortMinutes int
	Confidence    float64
	Rationale     string
}

// Extract scans a transcript plus an optional summary line and returns
// deduplicated action item candidates. base anchors relative due dates.
func Extract(transcript []Utterance, summary string, base time.Time) []Candidate {
	lines := make([]Utterance, 0, len(transcript)+1)
	for _, u := range transcript {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}
		speaker := u.Speaker
		if speaker == "" {
			speaker = "attendee"
		}
		lines = append(lines, Utterance{Speaker: speaker, Text: text})
	}
	if summary = strings.TrimSpace(summary); summary != "" {
		lines = append(lines, Utterance{Speaker: "summary", Text: summary})
	}

	var candidates []Candidate
	seenTitles := make(map[string]bool)

	for _, line := range lines {
		lowered := strings.ToLower(line.Text)

		hasHint := false
		for _, hint := range actionHints {
			if strings.Contains(lowered, hint) {
				hasHint = true
				break
			}
		}
		due := parseDue(lowered, base)
		if !hasHint && due == nil {
			continue
		}

		assignee := line.Speaker
		hasAssignee := false
		if m := assigneeRe.FindStringSubmatch(line.Text); m != nil {
			assignee = m[1]
			hasAssignee = true
		}

		effort := parseEffort(lowered)
		title := cleanTitle(line.Text)
		if len(title) < minTitleLength {
			continue
		}

		dedupeKey := strings.ToLower(title)
		if seenTitles[dedupeKey] {
			continue
		}
		seenTitles[dedupeKey] = true

		candidates = append(candidates, Candidate{
			Title:         title,
			Assignee:      assignee,
			Due:           due,
			EffortMinutes: effort,
			Confidence:    confidence(due != nil, hasAssignee, hasHint, effort),
			Rationale:     rationale(due != nil, hasAssignee, hasHint),
		})
	}

	return candidates
}

// NeedsApproval reports whether the candidate is too uncertain or too
// large to apply without a human decision.
func (c Candidate) NeedsApproval() bool {
	return c.Confidence < AutoApplyConfidence || c.EffortMinutes >= LargeEffortMinutes
}

// confidence scores a candidate from the signals present on its line.
func confidence(hasDue, hasAssignee, hasHint bool, effortMinutes int) float64 {
	score := 0.35
	if hasHint {
		score += 0.25
	}
	if hasDue {
		score += 0.2
	}
	if hasAssignee {
		score += 0.15
	}
	if effortMinutes > 180 {
		score -= 0.1
	}
	return clamp(score, 0.2, 0.95)
}

func rationale(hasDue, hasAssignee, hasHint bool) string {
	var parts []string
	if hasHint {
		parts = append(parts, "action verb detected")
	}
	if hasDue {
		parts = append(parts, "deadline phrase detected")
	}
	if hasAssignee {
		parts = append(parts, "assignee named")
	}
	if len(parts) == 0 {
		parts = append(parts, "possible follow-up from meeting context")
	}
	return strings.Join(parts, ", ")
}

func parseDue(lowered string, base time.Time) *time.Time {
	if m := dueDateRe.FindStringSubmatch(lowered); m != nil {
		if d, err := time.ParseInLocation("2006-01-02", m[1], base.Location()); err == nil {
			return &d
		}
	}

	// Longer phrases first so "day after tomorrow" wins over "tomorrow".
	for _, phrase := range []string{"day after tomorrow", "end of week", "next week", "tomorrow", "today"} {
		if !strings.Contains(lowered, phrase) {
			continue
		}
		day := base
		if phrase == "end of week" {
			for day.Weekday() != time.Friday {
				day = day.AddDate(0, 0, 1)
			}
		} else {
			day = day.AddDate(0, 0, dueKeywords[phrase])
		}
		d := time.Date(day.Year(), day.Month(), day.Day(), 18, 0, 0, 0, base.Location())
		return &d
	}

	return nil
}

func parseEffort(lowered string) int {
	if m := effortHoursRe.FindStringSubmatch(lowered); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return clampInt(hours*60, 30, 8*60)
	}
	if m := effortMinsRe.FindStringSubmatch(lowered); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return clampInt(mins, 15, 8*60)
	}
	return defaultEffortMinutes
}

func cleanTitle(text string) string {
	cleaned := spaceRe.ReplaceAllString(text, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = fillerRe.ReplaceAllString(cleaned, "")
	if len(cleaned) > maxTitleLength {
		cleaned = cleaned[:maxTitleLength-3] + "..."
	}
	return cleaned
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
