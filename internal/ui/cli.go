// Package ui implements the command line interface.
package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"aawo/internal/assistant"
	"aawo/internal/config"
	"aawo/internal/db"
	"aawo/internal/llm"
	"aawo/internal/remote"
	"aawo/internal/scheduler"
	"aawo/internal/timeline"
	"aawo/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state. The store backs every
// repository; the remote client and LLM are optional and degrade to
// local-only behavior when unconfigured.
type App struct {
	store    *db.SQLite
	config   *config.Config
	timeline *timeline.Controller
	engine   *assistant.Engine
	importer *remote.Importer
	root     *cobra.Command
}

// NewApp wires the application from config and storage.
func NewApp(store *db.SQLite, cfg *config.Config) *App {
	a := &App{store: store, config: cfg}

	var lister remote.Lister
	if cfg.Remote.Token != "" {
		client := remote.NewClient(cfg.Remote.BaseURL, remote.StaticToken(cfg.Remote.Token))
		lister = client
		a.importer = remote.NewImporter(client, store)
	}
	a.timeline = timeline.New(store, lister)

	// A misconfigured provider leaves llmClient nil; the assistant then
	// falls back to its rule-based classifier.
	var llmClient llm.Client
	if c, err := llm.NewClient(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.APIKey); err == nil {
		llmClient = c
	}
	a.engine = assistant.NewEngine(llmClient, store, store, store, scheduler.New(store))

	a.root = &cobra.Command{
		Use:   "aawo",
		Short: "A personal planner that merges your calendar and tasks",
		Long: `Aawo keeps local time blocks and your hosted calendar in one view.

It lays out overlapping events, extracts action items from meeting
notes, and gates every assistant-proposed change behind your approval.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.Run(a.timeline, a.store, a.engine, a.config)
		},
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.briefingCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.blockCmd())
	a.root.AddCommand(a.tasksCmd())
	a.root.AddCommand(a.approvalsCmd())
	a.root.AddCommand(a.chatCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("aawo %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases application resources.
func (a *App) Close() error {
	return a.store.Close()
}
