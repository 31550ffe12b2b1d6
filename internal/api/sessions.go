package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/weather-insights/internal/player"
)

const (
	// DefaultMaxSessions bounds the number of open player sessions.
	DefaultMaxSessions = 100
	// DefaultSessionIdle is how long a session survives without requests.
	DefaultSessionIdle = 30 * time.Minute
)

// ErrTooManySessions is returned by Open when the registry is full.
var ErrTooManySessions = errors.New("Too many open player sessions")

// Sessions keeps the mounted player panels served over HTTP, keyed by a
// random session id. Sessions idle for longer than the idle timeout are
// unmounted and forgotten.
type Sessions struct {
	catalog player.Catalog
	opts    []player.Option
	maxOpen int
	idle    time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*session
}

type session struct {
	panel    *player.Panel
	lastSeen time.Time
}

// NewSessions creates an empty registry holding at most maxOpen sessions.
// Non-positive limits fall back to the defaults. A nil catalog opens every
// panel in the unconfigured state.
func NewSessions(catalog player.Catalog, maxOpen int, idle time.Duration, opts ...player.Option) *Sessions {
	if maxOpen <= 0 {
		maxOpen = DefaultMaxSessions
	}
	if idle <= 0 {
		idle = DefaultSessionIdle
	}
	return &Sessions{
		catalog: catalog,
		opts:    opts,
		maxOpen: maxOpen,
		idle:    idle,
		now:     time.Now,
		entries: make(map[string]*session),
	}
}

// Open creates a panel for location and mounts it in the background.
func (s *Sessions) Open(location string) (string, *player.Panel, error) {
	id := uuid.NewString()
	logger := log.WithField("session", id)

	opts := append([]player.Option{
		player.WithOnSearch(func(query string) {
			logger.WithField("query", query).Info("Video search")
		}),
	}, s.opts...)
	panel := player.NewPanel(s.catalog, location, opts...)

	s.mu.Lock()
	expired := s.expireLocked()
	if len(s.entries) >= s.maxOpen {
		s.mu.Unlock()
		unmountAll(expired)
		return "", nil, ErrTooManySessions
	}
	s.entries[id] = &session{panel: panel, lastSeen: s.now()}
	s.mu.Unlock()
	unmountAll(expired)

	go func() {
		ctx, cancel := fetchContext()
		defer cancel()
		panel.Mount(ctx)
		logger.WithField("status", panel.Snapshot().Status).Debug("Player session mounted")
	}()

	logger.WithField("location", location).Info("Opened player session")
	return id, panel, nil
}

// Get returns the panel for id and marks the session as used.
func (s *Sessions) Get(id string) (*player.Panel, bool) {
	s.mu.Lock()
	expired := s.expireLocked()
	entry, ok := s.entries[id]
	if ok {
		entry.lastSeen = s.now()
	}
	s.mu.Unlock()
	unmountAll(expired)

	if !ok {
		return nil, false
	}
	return entry.panel, true
}

// Close unmounts and forgets the panel for id.
func (s *Sessions) Close(id string) bool {
	s.mu.Lock()
	entry, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if ok {
		entry.panel.Unmount()
		log.WithField("session", id).Info("Closed player session")
	}
	return ok
}

// CloseAll unmounts every panel.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*session)
	s.mu.Unlock()

	unmountAll(lo.Values(entries))
}

// Expire unmounts the sessions that have been idle too long and reports how
// many it removed.
func (s *Sessions) Expire() int {
	s.mu.Lock()
	expired := s.expireLocked()
	s.mu.Unlock()

	unmountAll(expired)
	return len(expired)
}

// Run expires idle sessions periodically until ctx is done.
func (s *Sessions) Run(ctx context.Context) {
	tk := time.NewTicker(max(s.idle/2, time.Second))
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			if n := s.Expire(); n > 0 {
				log.WithField("count", n).Info("Expired idle player sessions")
			}
		}
	}
}

// Len reports the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Sessions) expireLocked() []*session {
	cutoff := s.now().Add(-s.idle)
	var expired []*session
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry)
			delete(s.entries, id)
			log.WithField("session", id).Debug("Player session idle, closing")
		}
	}
	return expired
}

func unmountAll(entries []*session) {
	for _, entry := range entries {
		entry.panel.Unmount()
	}
}
