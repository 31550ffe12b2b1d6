package settings

import (
	"context"
	"sync"

	"github.com/weather-insights/internal/models"
)

// MemoryRepository keeps preferences for the lifetime of the process.
type MemoryRepository struct {
	mu    sync.Mutex
	prefs models.Preferences
}

// NewMemoryRepository starts from the default preferences.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{prefs: models.DefaultPreferences()}
}

func (r *MemoryRepository) Load(_ context.Context) (models.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefs, nil
}

func (r *MemoryRepository) Save(_ context.Context, prefs models.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = prefs.Normalize()
	return nil
}
