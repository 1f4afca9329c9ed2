package ui

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Local blocks: cyan, the user's own time
	colorLocal = color.New(color.FgCyan)

	// Remote events: magenta, owned by the provider
	colorRemote = color.New(color.FgMagenta)

	// Mixed: yellow for blocks mirrored both ways
	colorMixed = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Pending approvals: red to demand attention
	colorPending = color.New(color.FgRed, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// separator draws a horizontal rule sized to the terminal.
func separator() string {
	width := termWidth()
	if width > 64 {
		width = 64
	}
	return strings.Repeat("─", width)
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatPending highlights a pending approval.
func formatPending(s string) string {
	return colorPending.Sprint(s)
}
