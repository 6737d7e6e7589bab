package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deskmux/deskmux/internal/manager"
)

// Run drives the interactive loop to completion. The persisted snapshot
// is replayed once before the first render, and saved again on the way
// out while the session file is enabled. Run returns nil on a normal
// quit; internal action failures never escape the loop.
func Run(state *manager.State) error {
	ctx := context.Background()

	m := NewModel(state)
	if err := state.RestoreSnapshot(ctx); err != nil {
		// Partial restores are reported and the menu opens anyway.
		m.notice = fmt.Sprintf("session restore: %v", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("menu loop: %w", err)
	}

	if state.Settings.SessionFileEnabled {
		if err := state.SaveSnapshot(ctx); err != nil {
			// Exit stays clean; the sessions just were not saved.
			fmt.Printf("warning: could not save sessions: %v\n", err)
		}
	}
	return nil
}
