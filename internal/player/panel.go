package player

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/weather-insights/internal/models"
)

const (
	// RelatedLimit is the size of the location-related and user search collections.
	RelatedLimit = 8
	// TrendingLimit is the size of the trending collection.
	TrendingLimit = 5
	// SkipSeconds is the jump of the skip back and skip forward controls.
	SkipSeconds = 10
	// TickInterval is the cadence of the playback clock.
	TickInterval = time.Second
)

const (
	msgUnconfigured = "YouTube API key is missing"
	msgFetchFailed  = "Failed to fetch videos. Please try again later."
	msgSearchFailed = "Failed to search videos. Please try again later."
)

// ErrRecordNotFound is returned when selecting an id that is not displayed.
var ErrRecordNotFound = errors.New("video is not in the displayed collections")

// Purpose is the role of a query; it decides which collection the result fills.
type Purpose string

const (
	PurposeLocation Purpose = "locationRelated"
	PurposeTrending Purpose = "trending"
	PurposeSearch   Purpose = "userSearch"
)

// Status is the fetch state shown next to the collections. Exactly one applies.
type Status string

const (
	StatusLoading      Status = "loading"
	StatusError        Status = "error"
	StatusReady        Status = "ready"
	StatusUnconfigured Status = "unconfigured"
)

// Catalog is the metadata source the panel reads from.
type Catalog interface {
	SearchVideos(ctx context.Context, query string, limit int) ([]models.Video, error)
	TrendingVideos(ctx context.Context, limit int) ([]models.Video, error)
}

// Snapshot is a copy of everything the panel displays.
type Snapshot struct {
	Location   string             `json:"location"`
	Status     Status             `json:"status"`
	Error      string             `json:"error,omitempty"`
	Related    []models.Video     `json:"related"`
	Trending   []models.Video     `json:"trending"`
	Queries    map[Purpose]string `json:"queries"`
	Playback   State              `json:"playback"`
	TimerArmed bool               `json:"timerArmed"`
}

// Option configures a Panel.
type Option func(*Panel)

// WithTickInterval overrides the playback clock cadence.
func WithTickInterval(d time.Duration) Option {
	return func(p *Panel) { p.interval = d }
}

// WithOnChange registers a callback run after every visible change. It runs
// without the panel lock held.
func WithOnChange(fn func()) Option {
	return func(p *Panel) { p.onChange = fn }
}

// WithOnSearch registers a callback run for every accepted user search.
func WithOnSearch(fn func(query string)) Option {
	return func(p *Panel) { p.onSearch = fn }
}

// Panel hosts the video browser for one location: the related and trending
// collections, the fetch status and the playback machine with its clock.
//
// Fetches are not cancelled when superseded. Results are applied in the order
// they resolve, so a slow earlier search can replace a faster later one.
// After Unmount every late result is discarded.
type Panel struct {
	catalog  Catalog
	location string
	interval time.Duration
	onChange func()
	onSearch func(string)

	mu        sync.Mutex
	alive     bool
	unmounted bool
	status   Status
	errMsg   string
	related  []models.Video
	trending []models.Video
	queries  map[Purpose]string
	machine  *Machine
	timer    *Ticker
}

// NewPanel creates a panel for location. A nil catalog means the video feature
// is not configured.
func NewPanel(catalog Catalog, location string, opts ...Option) *Panel {
	p := &Panel{
		catalog:  catalog,
		location: strings.TrimSpace(location),
		interval: TickInterval,
		status:   StatusLoading,
		related:  []models.Video{},
		trending: []models.Video{},
		queries:  make(map[Purpose]string),
		machine:  NewMachine(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.timer = NewTicker(p.interval, p.onTick)
	return p
}

// Mount activates the panel and loads the location-related and trending
// collections. It blocks until both fetches finish. A panel that was already
// unmounted stays inert.
func (p *Panel) Mount(ctx context.Context) {
	p.mu.Lock()
	if p.unmounted {
		p.mu.Unlock()
		return
	}
	p.alive = true
	if p.catalog == nil {
		p.status = StatusUnconfigured
		p.errMsg = msgUnconfigured
		p.mu.Unlock()
		p.changed()
		return
	}
	query := p.location
	p.status = StatusLoading
	p.errMsg = ""
	p.queries[PurposeLocation] = query
	p.mu.Unlock()
	p.changed()

	related, err := p.catalog.SearchVideos(ctx, query, RelatedLimit)
	if err == nil {
		var trending []models.Video
		trending, err = p.catalog.TrendingVideos(ctx, TrendingLimit)
		if err == nil {
			p.apply(func() {
				p.related = nonNil(related)
				p.trending = nonNil(trending)
				if len(related) > 0 {
					p.timer.Disarm()
					p.machine.Cue(related[0])
				}
				p.status = StatusReady
			})
			return
		}
	}

	log.WithError(err).WithField("location", p.location).Error("Error fetching videos")
	p.apply(func() {
		p.status = StatusError
		p.errMsg = msgFetchFailed
	})
}

// Search replaces the related collection with the results for query and plays
// the first result. Blank queries are ignored.
func (p *Panel) Search(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	p.mu.Lock()
	if !p.alive || p.catalog == nil {
		p.mu.Unlock()
		return
	}
	p.status = StatusLoading
	p.errMsg = ""
	p.queries[PurposeSearch] = query
	p.mu.Unlock()
	p.changed()

	if p.onSearch != nil {
		p.onSearch(query)
	}

	results, err := p.catalog.SearchVideos(ctx, query, RelatedLimit)
	if err != nil {
		log.WithError(err).WithField("query", query).Error("Error searching videos")
		p.apply(func() {
			p.status = StatusError
			p.errMsg = msgSearchFailed
		})
		return
	}

	p.apply(func() {
		p.related = nonNil(results)
		if len(results) > 0 {
			p.selectLocked(results[0])
		}
		p.status = StatusReady
	})
}

// Select plays the displayed video with id.
func (p *Panel) Select(id string) error {
	p.mu.Lock()
	v, ok := lo.Find(append(append([]models.Video{}, p.related...), p.trending...), func(v models.Video) bool {
		return v.ID == id
	})
	if !ok {
		p.mu.Unlock()
		return ErrRecordNotFound
	}
	p.selectLocked(v)
	p.mu.Unlock()
	p.changed()
	return nil
}

// TogglePlay pauses or resumes playback.
func (p *Panel) TogglePlay() {
	p.mutate(p.machine.TogglePlay)
}

// ToggleMute flips the mute flag.
func (p *Panel) ToggleMute() {
	p.mutate(p.machine.ToggleMute)
}

// SeekRelative moves the clock by delta seconds.
func (p *Panel) SeekRelative(delta int) {
	p.mutate(func() { p.machine.SeekRelative(delta) })
}

// SkipBack rewinds by SkipSeconds.
func (p *Panel) SkipBack() {
	p.SeekRelative(-SkipSeconds)
}

// SkipForward advances by SkipSeconds.
func (p *Panel) SkipForward() {
	p.SeekRelative(SkipSeconds)
}

// Scrub seeks to a clicked position on the progress bar, given as a fraction
// of its width.
func (p *Panel) Scrub(fraction float64) {
	p.mutate(func() { NewScrubber(p.machine).OnSurfaceClick(fraction) })
}

// Tick advances the clock by one second, as the timer does.
func (p *Panel) Tick() {
	p.mutate(func() { p.machine.Tick() })
}

// Unmount deactivates the panel for good: the clock stops, late fetch results
// are dropped and a later Mount does nothing.
func (p *Panel) Unmount() {
	p.mu.Lock()
	p.alive = false
	p.unmounted = true
	p.timer.Disarm()
	p.mu.Unlock()
}

// Snapshot copies the displayed state.
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Location:   p.location,
		Status:     p.status,
		Error:      p.errMsg,
		Related:    append([]models.Video{}, p.related...),
		Trending:   append([]models.Video{}, p.trending...),
		Queries:    lo.Assign(p.queries),
		Playback:   p.machine.State(),
		TimerArmed: p.timer.Armed(),
	}
}

func (p *Panel) onTick(gen uint64) {
	p.mu.Lock()
	if !p.alive || !p.timer.Current(gen) {
		p.mu.Unlock()
		return
	}
	p.machine.Tick()
	p.syncTimer()
	p.mu.Unlock()
	p.changed()
}

// selectLocked swaps the selection; the old clock is always disarmed first.
func (p *Panel) selectLocked(v models.Video) {
	p.timer.Disarm()
	p.machine.SelectRecord(v)
	p.syncTimer()
}

func (p *Panel) mutate(fn func()) {
	p.mu.Lock()
	fn()
	if p.alive {
		p.syncTimer()
	}
	p.mu.Unlock()
	p.changed()
}

// apply runs fn under the lock if the panel is still mounted.
func (p *Panel) apply(fn func()) {
	p.mu.Lock()
	if !p.alive {
		p.mu.Unlock()
		return
	}
	fn()
	p.mu.Unlock()
	p.changed()
}

func (p *Panel) syncTimer() {
	if p.alive && p.machine.Playing() {
		p.timer.Arm()
	} else {
		p.timer.Disarm()
	}
}

func (p *Panel) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}

func nonNil(videos []models.Video) []models.Video {
	if videos == nil {
		return []models.Video{}
	}
	return videos
}
