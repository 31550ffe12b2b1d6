// Package player simulates progressive video playback from metadata alone:
// selection, play/pause, seeking and a one-second clock, without any media.
package player

import (
	"math"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/weather-insights/internal/format"
	"github.com/weather-insights/internal/models"
)

// minTotal keeps the progress denominator positive.
const minTotal = 1

// Phase is the coarse state of the machine.
type Phase string

const (
	PhaseEmpty   Phase = "empty"
	PhaseReady   Phase = "ready"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// State is a copy of the playback state for display.
type State struct {
	Phase          Phase         `json:"phase"`
	Selected       *models.Video `json:"selected"`
	IsPlaying      bool          `json:"isPlaying"`
	IsMuted        bool          `json:"isMuted"`
	ElapsedSeconds int           `json:"elapsedSeconds"`
	TotalSeconds   int           `json:"totalSeconds"`
	Progress       float64       `json:"progress"`
	Elapsed        string        `json:"elapsed"`
	Total          string        `json:"total"`
}

// Machine owns the selected video and the simulated playback clock.
// It is not safe for concurrent use; Panel serializes access.
type Machine struct {
	selected mo.Option[models.Video]
	playing  bool
	muted    bool
	elapsed  int
	total    int
}

// NewMachine returns an empty machine.
func NewMachine() *Machine {
	return &Machine{
		selected: mo.None[models.Video](),
		total:    minTotal,
	}
}

// SelectRecord makes v the active video, rewinds and starts playing.
// Selecting the current video again resets its progress.
func (m *Machine) SelectRecord(v models.Video) {
	m.load(v)
	m.playing = true
}

// Cue makes v the active video without starting playback.
func (m *Machine) Cue(v models.Video) {
	m.load(v)
	m.playing = false
}

func (m *Machine) load(v models.Video) {
	m.selected = mo.Some(v)
	m.elapsed = 0
	m.total = max(format.ParseDuration(v.Duration), minTotal)
}

// TogglePlay switches between ready and playing. From the ended state it
// replays from the start. Without a selection it does nothing.
func (m *Machine) TogglePlay() {
	if m.selected.IsAbsent() {
		return
	}
	if m.playing {
		m.playing = false
		return
	}
	if m.elapsed >= m.total {
		m.elapsed = 0
	}
	m.playing = true
}

// ToggleMute flips the mute flag.
func (m *Machine) ToggleMute() {
	m.muted = !m.muted
}

// SeekRelative moves the clock by delta seconds within [0, total].
func (m *Machine) SeekRelative(delta int) {
	if m.selected.IsAbsent() {
		return
	}
	m.setElapsed(m.elapsed + delta)
}

// SeekAbsolute moves the clock to fraction of the total duration.
func (m *Machine) SeekAbsolute(fraction float64) {
	if m.selected.IsAbsent() {
		return
	}
	if math.IsNaN(fraction) {
		fraction = 0
	}
	fraction = lo.Clamp(fraction, 0, 1)
	m.setElapsed(int(math.Floor(fraction * float64(m.total))))
}

// Tick advances a playing clock by one second and stops playback at the end.
// It reports whether anything changed.
func (m *Machine) Tick() bool {
	if !m.playing {
		return false
	}
	if m.elapsed < m.total {
		m.elapsed++
	}
	m.stopAtEnd()
	return true
}

func (m *Machine) setElapsed(seconds int) {
	m.elapsed = lo.Clamp(seconds, 0, m.total)
	m.stopAtEnd()
}

func (m *Machine) stopAtEnd() {
	if m.elapsed >= m.total {
		m.elapsed = m.total
		m.playing = false
	}
}

// Playing reports whether the clock is running.
func (m *Machine) Playing() bool {
	return m.playing
}

// SelectedID returns the id of the active video, if any.
func (m *Machine) SelectedID() (string, bool) {
	v, ok := m.selected.Get()
	return v.ID, ok
}

// Phase classifies the current state.
func (m *Machine) Phase() Phase {
	switch {
	case m.selected.IsAbsent():
		return PhaseEmpty
	case m.playing:
		return PhasePlaying
	case m.elapsed >= m.total:
		return PhaseEnded
	default:
		return PhaseReady
	}
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	s := State{
		Phase:          m.Phase(),
		IsPlaying:      m.playing,
		IsMuted:        m.muted,
		ElapsedSeconds: m.elapsed,
		TotalSeconds:   m.total,
		Progress:       float64(m.elapsed) / float64(m.total) * 100,
		Elapsed:        format.Clock(m.elapsed),
		Total:          format.Clock(m.total),
	}
	if v, ok := m.selected.Get(); ok {
		s.Selected = &v
	}
	return s
}
