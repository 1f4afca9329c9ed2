package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"aawo/internal/dateutil"
	"aawo/internal/event"
	"aawo/internal/layout"
)

const minColWidth = 10

// View renders the week grid with a footer, plus modal overlays.
func (m Model) View() string {
	if m.width < minColWidth*2 {
		return "Terminal too small"
	}

	switch m.mode {
	case ModeApprovals:
		return m.overlayCentered(m.renderApprovalsModal())
	}

	sections := []string{
		m.renderHeader(),
		m.renderWeekGrid(),
	}
	if m.mode == ModePrompt {
		sections = append(sections, m.styles.PromptBox.Render(m.prompt.View()))
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf("Week of %s", m.nav.WeekStart.Format("Jan 2 2006"))
	if m.loading {
		title += "  (loading...)"
	}
	month := m.styles.Muted.Render(m.nav.MonthCursor.Format("January 2006"))
	return m.styles.Header.Render(title) + "   " + month
}

func (m Model) renderWeekGrid() string {
	colWidth := m.columnWidth()
	rows := m.gridRows()

	columns := make([]string, 0, 7)
	for d := 0; d < 7; d++ {
		day := m.nav.WeekStart.AddDate(0, 0, d)
		columns = append(columns, m.renderDayColumn(day, colWidth, rows))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (m Model) renderDayColumn(day time.Time, colWidth, rows int) string {
	selected := dateutil.SameDay(day, m.nav.Selected)

	headerStyle := m.styles.DayHeader
	switch {
	case selected:
		headerStyle = m.styles.DaySelected
	case dateutil.SameDay(day, m.nowFunc()):
		headerStyle = m.styles.DayToday
	}
	header := headerStyle.Width(colWidth).Render(day.Format("Mon 2"))

	var events []layout.Positioned
	if m.snap != nil {
		startMin, endMin := m.config.DayWindow()
		events = m.snap.Day(day, startMin, endMin)
	}

	lines := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		if i >= len(events) {
			lines = append(lines, strings.Repeat(" ", colWidth))
			continue
		}
		focused := selected && i == m.eventCursor
		lines = append(lines, m.renderEventLine(events[i], colWidth, focused))
	}

	body := strings.Join(lines, "\n")
	return m.styles.DayColumn.Render(header + "\n" + body)
}

func (m Model) renderEventLine(p layout.Positioned, colWidth int, focused bool) string {
	lane := ""
	if p.LaneCount > 1 {
		lane = m.styles.Lane.Render(fmt.Sprintf("%d/%d", p.Lane+1, p.LaneCount))
	}

	text := fmt.Sprintf("%s %s", p.ClippedStart.Format("15:04"), p.Title)
	text = truncateCell(text, colWidth-lipgloss.Width(lane))

	style := m.eventStyle(p.Kind)
	if focused {
		style = m.styles.EventFocused
	}
	line := style.Render(text) + lane
	return padCell(line, colWidth)
}

func (m Model) eventStyle(kind event.Kind) lipgloss.Style {
	switch kind {
	case event.KindRemote:
		return m.styles.EventRemote
	case event.KindMixed:
		return m.styles.EventMixed
	default:
		return m.styles.EventLocal
	}
}

func (m Model) renderFooter() string {
	help := "h/l day  H/L week  [/] month  j/k event  y copy  c chat  a approvals  t today  r reload  q quit"

	status := m.statusMsg
	statusStyle := m.styles.Status
	if strings.HasPrefix(status, "Error:") {
		statusStyle = m.styles.Error
	}

	return statusStyle.Render(status) + "\n" + m.styles.Help.Render(help)
}

func (m Model) renderApprovalsModal() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Pending approvals"))
	b.WriteString("\n\n")

	if len(m.pending) == 0 {
		b.WriteString(m.styles.Muted.Render("Nothing waiting."))
	}
	for i, req := range m.pending {
		marker := "  "
		if i == m.approvalCursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s %s", marker, m.styles.Pending.Render("["+req.Type+"]"), req.Summary)
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("a approve  x reject  j/k move  esc close"))

	return m.styles.ModalBox.Render(b.String())
}

func (m Model) overlayCentered(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) columnWidth() int {
	w := (m.width - 8) / 7
	if w < minColWidth {
		w = minColWidth
	}
	return w
}

// gridRows is how many event lines each day column shows.
func (m Model) gridRows() int {
	rows := m.height - 8
	if rows < 4 {
		rows = 4
	}
	if rows > 24 {
		rows = 24
	}
	return rows
}

func truncateCell(s string, width int) string {
	if width < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func padCell(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
