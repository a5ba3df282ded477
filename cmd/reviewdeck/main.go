// cmd/reviewdeck/main.go
//
// This is the entry point for the reviewdeck CLI.
// When you run `reviewdeck` from a project directory, this is what
// executes: the .reviewdeck folder is initialized and the review TUI
// starts against the configured artifact.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessaly/reviewdeck/internal/config"
	"github.com/tessaly/reviewdeck/internal/tui"
)

func main() {
	// The current working directory is the project under review.
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitReviewDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .reviewdeck directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading project configuration: %v\n", err)
		os.Exit(1)
	}

	// tea.NewProgram creates a new bubbletea application; Run blocks
	// until the user quits.
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
