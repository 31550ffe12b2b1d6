package player

import (
	"sync"
	"time"
)

// Ticker is a recurring timer that only runs while armed. Each arming gets a
// new generation so a tick already in flight when the timer is disarmed can be
// recognised as stale.
type Ticker struct {
	interval time.Duration
	fn       func(gen uint64)

	mu   sync.Mutex
	stop chan struct{}
	gen  uint64
}

// NewTicker returns a disarmed ticker that calls fn every interval once armed.
func NewTicker(interval time.Duration, fn func(gen uint64)) *Ticker {
	return &Ticker{interval: interval, fn: fn}
}

// Arm starts the timer. Arming an armed ticker is a no-op.
func (t *Ticker) Arm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	t.gen++
	t.stop = make(chan struct{})
	go t.run(t.stop, t.gen)
}

// Disarm stops the timer. It does not wait for a running callback.
func (t *Ticker) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Armed reports whether the timer is running.
func (t *Ticker) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Current reports whether gen belongs to the running arming.
func (t *Ticker) Current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil && t.gen == gen
}

func (t *Ticker) run(stop <-chan struct{}, gen uint64) {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			select {
			case <-stop:
				return
			default:
			}
			t.fn(gen)
		}
	}
}
