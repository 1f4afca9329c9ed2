package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the week view. Colors lean
// on the terminal's 256-color palette so themes degrade gracefully.
type Styles struct {
	Header       lipgloss.Style
	DayHeader    lipgloss.Style
	DayToday     lipgloss.Style
	DaySelected  lipgloss.Style
	DayColumn    lipgloss.Style
	EventLocal   lipgloss.Style
	EventRemote  lipgloss.Style
	EventMixed   lipgloss.Style
	EventFocused lipgloss.Style
	Lane         lipgloss.Style
	Muted        lipgloss.Style
	Status       lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
	ModalBox     lipgloss.Style
	ModalTitle   lipgloss.Style
	Pending      lipgloss.Style
	PromptBox    lipgloss.Style
}

// NewStyles builds the default style set.
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),
		DayHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")).
			Align(lipgloss.Center),
		DayToday: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("114")).
			Align(lipgloss.Center),
		DaySelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213")).
			Align(lipgloss.Center),
		DayColumn: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")),
		EventLocal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")),
		EventRemote: lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")),
		EventMixed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")),
		EventFocused: lipgloss.NewStyle().
			Bold(true).
			Reverse(true),
		Lane: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		ModalBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("213")).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213")),
		Pending: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203")),
		PromptBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("81")).
			Padding(0, 1),
	}
}
