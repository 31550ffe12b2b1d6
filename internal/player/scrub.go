package player

import (
	"math"

	"github.com/samber/lo"
)

// Seeker accepts absolute seeks as a fraction of the duration.
type Seeker interface {
	SeekAbsolute(fraction float64)
}

// Scrubber turns clicks on a progress bar into seeks. The caller measures the
// click as a fraction of the bar width; the scrubber only clamps it.
type Scrubber struct {
	target Seeker
}

// NewScrubber returns a scrubber driving target.
func NewScrubber(target Seeker) Scrubber {
	return Scrubber{target: target}
}

// OnSurfaceClick seeks to the clicked fraction, clamped into [0, 1].
func (s Scrubber) OnSurfaceClick(fraction float64) {
	s.target.SeekAbsolute(ClampFraction(fraction))
}

// ClampFraction maps any float into [0, 1]; NaN becomes 0.
func ClampFraction(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return lo.Clamp(f, 0, 1)
}
