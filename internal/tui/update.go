package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		b.refresh()
		return b, b.waitForChange()
	case mountedMsg, searchedMsg:
		b.refresh()
		return b, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width)
		return b, nil
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, b.quit()
		}
		if b.searching {
			return b.updateSearch(msg)
		}
		return b.updateBrowse(msg)
	}
	return b, nil
}

func (b *bubble) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.quit):
		return b, b.quit()
	case key.Matches(msg, b.keymap.playPause):
		b.panel.TogglePlay()
	case key.Matches(msg, b.keymap.mute):
		b.panel.ToggleMute()
	case key.Matches(msg, b.keymap.skipBack):
		b.panel.SkipBack()
	case key.Matches(msg, b.keymap.skipForward):
		b.panel.SkipForward()
	case key.Matches(msg, b.keymap.scrub):
		n, _ := strconv.Atoi(msg.String())
		b.panel.Scrub(float64(n) / 10)
	case key.Matches(msg, b.keymap.up):
		b.cursor--
	case key.Matches(msg, b.keymap.down):
		b.cursor++
	case key.Matches(msg, b.keymap.play):
		if entries := b.entries(); len(entries) > 0 {
			_ = b.panel.Select(entries[b.cursor].ID)
		}
	case key.Matches(msg, b.keymap.search):
		b.searching = true
		return b, b.inputC.Focus()
	default:
		return b, nil
	}
	b.refresh()
	return b, nil
}

func (b *bubble) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.cancel):
		b.closeSearch()
		return b, nil
	case key.Matches(msg, b.keymap.suggest):
		if s, ok := b.suggestion(); ok {
			b.inputC.SetValue(s)
			b.inputC.CursorEnd()
		}
		return b, nil
	case key.Matches(msg, b.keymap.submit):
		query := b.inputC.Value()
		b.closeSearch()
		return b, b.runSearch(query)
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	return b, cmd
}

func (b *bubble) closeSearch() {
	b.searching = false
	b.inputC.Blur()
	b.inputC.Reset()
}

func (b *bubble) quit() tea.Cmd {
	b.panel.Unmount()
	return tea.Quit
}
