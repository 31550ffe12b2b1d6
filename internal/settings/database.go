package settings

import (
	"context"

	"github.com/weather-insights/internal/models"
)

// DefaultProfile is the profile used by the single-user dashboard.
const DefaultProfile = "default"

// PreferenceStore is the subset of models.Database used for preferences.
type PreferenceStore interface {
	GetPreferences(profile string) (*models.Preferences, error)
	StorePreferences(profile string, prefs models.Preferences) error
}

// DatabaseRepository keeps preferences of one profile in SQLite Cloud.
type DatabaseRepository struct {
	store   PreferenceStore
	profile string
}

// NewDatabaseRepository returns a repository for profile backed by store.
func NewDatabaseRepository(store PreferenceStore, profile string) *DatabaseRepository {
	if profile == "" {
		profile = DefaultProfile
	}
	return &DatabaseRepository{store: store, profile: profile}
}

// Load returns the stored preferences or the defaults.
func (r *DatabaseRepository) Load(_ context.Context) (models.Preferences, error) {
	prefs, err := r.store.GetPreferences(r.profile)
	if err != nil {
		return models.DefaultPreferences(), err
	}
	if prefs == nil {
		return models.DefaultPreferences(), nil
	}
	return prefs.Normalize(), nil
}

// Save stores prefs for the profile.
func (r *DatabaseRepository) Save(_ context.Context, prefs models.Preferences) error {
	return r.store.StorePreferences(r.profile, prefs.Normalize())
}
