// Package tui is the terminal front end of the video panel.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/weather-insights/internal/player"
	"github.com/weather-insights/internal/settings"
)

// Options encapsulates the runtime configuration for the terminal interface.
type Options struct {
	Location string
	// Catalog is nil when no API key is configured.
	Catalog player.Catalog
	Prefs   settings.Repository
}

// Run mounts a panel for the configured location and drives it until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, options *Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b := newBubble(ctx, options)
	defer b.panel.Unmount()

	_, err := tea.NewProgram(b, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
