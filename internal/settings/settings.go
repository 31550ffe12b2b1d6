// Package settings persists user preferences behind a small repository
// interface, loaded once when a view starts and saved on every change.
package settings

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/weather-insights/internal/models"
)

// Repository loads and saves preferences.
type Repository interface {
	Load(ctx context.Context) (models.Preferences, error)
	Save(ctx context.Context, prefs models.Preferences) error
}

// Update loads the preferences, applies fn and saves the result.
func Update(ctx context.Context, repo Repository, fn func(models.Preferences) models.Preferences) (models.Preferences, error) {
	prefs, err := repo.Load(ctx)
	if err != nil {
		return prefs, err
	}
	prefs = fn(prefs).Normalize()
	if err := repo.Save(ctx, prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// Suggest returns the recent searches that fuzzily match input, best first.
// An empty input returns all recent searches.
func Suggest(prefs models.Preferences, input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return append([]string{}, prefs.RecentSearches...)
	}
	ranks := fuzzy.RankFindFold(input, prefs.RecentSearches)
	sort.Stable(ranks)
	return lo.Map(ranks, func(r fuzzy.Rank, _ int) string { return r.Target })
}
