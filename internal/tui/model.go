// Package tui provides the interactive week view for aawo.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"aawo/internal/approval"
	"aawo/internal/assistant"
	"aawo/internal/config"
	"aawo/internal/nav"
	"aawo/internal/timeline"
	"aawo/internal/tui/commands"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // Typing a message to the assistant
	ModeApprovals
)

// Model is the main TUI model. It is a value type; Update returns
// modified copies the way bubbletea expects.
type Model struct {
	// Dependencies
	controller *timeline.Controller
	approvals  approval.Repository
	engine     *assistant.Engine
	config     *config.Config
	styles     *Styles
	nowFunc    func() time.Time

	// State
	nav         nav.State
	snap        *timeline.Snapshot
	mode        Mode
	loading     bool
	eventCursor int // index into the selected day's positioned events

	// Approvals modal state
	pending        []*approval.Request
	approvalCursor int

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusTime time.Time

	err error
}

// New creates the TUI model centered on today.
func New(controller *timeline.Controller, approvals approval.Repository, engine *assistant.Engine, cfg *config.Config) (Model, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Model{}, err
	}
	nowFunc := func() time.Time { return time.Now().In(loc) }

	ti := textinput.New()
	ti.Placeholder = "ask the assistant..."
	ti.CharLimit = 512

	return Model{
		controller: controller,
		approvals:  approvals,
		engine:     engine,
		config:     cfg,
		styles:     NewStyles(),
		nowFunc:    nowFunc,
		nav:        nav.New(nowFunc()),
		mode:       ModeNormal,
		loading:    true,
		prompt:     ti,
		width:      80,
		height:     24,
	}, nil
}

// Init kicks off the first snapshot fetch.
func (m Model) Init() tea.Cmd {
	return commands.LoadSnapshot(m.controller, m.nav.WeekStart, m.nav.WeekEnd())
}

// refetch reloads the visible week.
func (m *Model) refetch() tea.Cmd {
	m.loading = true
	return commands.LoadSnapshot(m.controller, m.nav.WeekStart, m.nav.WeekEnd())
}

// Run starts the TUI.
func Run(controller *timeline.Controller, approvals approval.Repository, engine *assistant.Engine, cfg *config.Config) error {
	model, err := New(controller, approvals, engine, cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
