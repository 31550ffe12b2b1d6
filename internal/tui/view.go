package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/weather-insights/internal/models"
	"github.com/weather-insights/internal/player"
)

var (
	accentColor = lipgloss.Color("#4FA3FF")
	mutedColor  = lipgloss.Color("#7D7D7D")
	errorColor  = lipgloss.Color("#FF5F5F")

	paddingStyle = lipgloss.NewStyle().Padding(1, 2)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accentColor).Padding(0, 1)
	accentStyle  = lipgloss.NewStyle().Foreground(accentColor)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	faintStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
)

func (b *bubble) View() string {
	sections := []string{
		titleStyle.Render("Weather videos · " + b.snapshot.Location),
		b.viewStatus(),
		b.viewNowPlaying(),
		b.viewCollections(),
	}
	if b.searching {
		sections = append(sections, b.inputC.View(), b.viewHelp(b.keymap.searchHelp()))
	} else {
		sections = append(sections, b.viewHelp(b.keymap.browseHelp()))
	}

	return paddingStyle.Render(strings.Join(lo.Compact(sections), "\n\n"))
}

func (b *bubble) viewStatus() string {
	switch b.snapshot.Status {
	case player.StatusLoading:
		return b.spinnerC.View() + " Loading videos..."
	case player.StatusError, player.StatusUnconfigured:
		return errorStyle.Render(b.snapshot.Error)
	default:
		return ""
	}
}

func (b *bubble) viewNowPlaying() string {
	state := b.snapshot.Playback
	if state.Selected == nil {
		return faintStyle.Render("Nothing selected")
	}

	icon := "▶"
	if !state.IsPlaying {
		icon = "⏸"
	}
	if state.Phase == player.PhaseEnded {
		icon = "■"
	}
	sound := ""
	if state.IsMuted {
		sound = faintStyle.Render(" muted")
	}

	return strings.Join([]string{
		headerStyle.Render(state.Selected.Title),
		faintStyle.Render(fmt.Sprintf("%s · %s views · %s", state.Selected.ChannelTitle, state.Selected.ViewCount, state.Selected.PublishedAt)),
		fmt.Sprintf("%s %s %s / %s%s", icon, b.progressC.ViewAs(state.Progress/100), state.Elapsed, state.Total, sound),
		faintStyle.Render(state.Selected.WatchURL()),
	}, "\n")
}

func (b *bubble) viewCollections() string {
	related, trending := b.snapshot.Related, b.snapshot.Trending
	if len(related)+len(trending) == 0 {
		if b.snapshot.Status == player.StatusReady {
			return faintStyle.Render("No videos found")
		}
		return ""
	}

	lines := []string{headerStyle.Render("Related")}
	lines = append(lines, b.viewList(related, 0)...)
	if len(trending) > 0 {
		lines = append(lines, "", headerStyle.Render("Trending"))
		lines = append(lines, b.viewList(trending, len(related))...)
	}
	return strings.Join(lines, "\n")
}

func (b *bubble) viewList(videos []models.Video, offset int) []string {
	selectedID := ""
	if s := b.snapshot.Playback.Selected; s != nil {
		selectedID = s.ID
	}

	lines := make([]string, 0, len(videos))
	for i, v := range videos {
		marker := "  "
		if offset+i == b.cursor {
			marker = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s %s", marker, v.Title, faintStyle.Render(v.Duration))
		if v.ID == selectedID {
			line += accentStyle.Render(" ♪")
		}
		lines = append(lines, line)
	}
	return lines
}

func (b *bubble) viewHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, accentStyle.Render(help.Key)+" "+faintStyle.Render(help.Desc))
	}
	return strings.Join(parts, faintStyle.Render(" • "))
}
