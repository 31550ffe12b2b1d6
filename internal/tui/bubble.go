package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/weather-insights/internal/models"
	"github.com/weather-insights/internal/player"
	"github.com/weather-insights/internal/settings"
)

type (
	changedMsg  struct{}
	mountedMsg  struct{}
	searchedMsg struct{ query string }
)

type bubble struct {
	ctx     context.Context
	panel   *player.Panel
	prefs   settings.Repository
	changes chan struct{}
	keymap  *keymap

	snapshot  player.Snapshot
	cursor    int
	searching bool
	width     int

	inputC    textinput.Model
	spinnerC  spinner.Model
	progressC progress.Model
}

func newBubble(ctx context.Context, options *Options) *bubble {
	b := &bubble{
		ctx:     ctx,
		prefs:   options.Prefs,
		changes: make(chan struct{}, 1),
		keymap:  newKeymap(),
	}

	b.inputC = textinput.New()
	b.inputC.Placeholder = "Search weather videos..."
	b.inputC.CharLimit = 80

	b.spinnerC = spinner.New()
	b.spinnerC.Spinner = spinner.Dot
	b.spinnerC.Style = accentStyle

	b.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	b.panel = player.NewPanel(options.Catalog, options.Location,
		player.WithOnChange(b.notify),
		player.WithOnSearch(b.recordSearch),
	)
	b.snapshot = b.panel.Snapshot()
	return b
}

func (b *bubble) Init() tea.Cmd {
	return tea.Batch(b.mount(), b.waitForChange(), b.spinnerC.Tick, textinput.Blink)
}

// notify coalesces panel changes; the UI re-reads the whole snapshot anyway.
func (b *bubble) notify() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

func (b *bubble) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.changes:
			return changedMsg{}
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *bubble) mount() tea.Cmd {
	return func() tea.Msg {
		b.panel.Mount(b.ctx)
		return mountedMsg{}
	}
}

func (b *bubble) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		b.panel.Search(b.ctx, query)
		return searchedMsg{query: query}
	}
}

func (b *bubble) recordSearch(query string) {
	if b.prefs == nil {
		return
	}
	_, err := settings.Update(b.ctx, b.prefs, func(p models.Preferences) models.Preferences {
		return p.WithRecentSearch(query)
	})
	if err != nil {
		log.WithError(err).Warn("Failed to record recent search")
	}
}

func (b *bubble) suggestion() (string, bool) {
	if b.prefs == nil {
		return "", false
	}
	prefs, err := b.prefs.Load(b.ctx)
	if err != nil {
		return "", false
	}
	suggestions := settings.Suggest(prefs, b.inputC.Value())
	if len(suggestions) == 0 {
		return "", false
	}
	return suggestions[0], true
}

// entries is the browsable list: related videos first, then trending.
func (b *bubble) entries() []models.Video {
	return append(append([]models.Video{}, b.snapshot.Related...), b.snapshot.Trending...)
}

func (b *bubble) refresh() {
	b.snapshot = b.panel.Snapshot()
	b.cursor = max(0, min(b.cursor, len(b.entries())-1))
}

func (b *bubble) resize(width int) {
	b.width = width
	b.progressC.Width = max(10, min(width-20, 60))
	b.inputC.Width = max(10, width-6)
}
