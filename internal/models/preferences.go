package models

import (
	"strings"

	"github.com/samber/lo"
)

// TemperatureUnit selects how temperatures are displayed.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"
)

// MaxRecentSearches bounds the recent search list.
const MaxRecentSearches = 5

// Preferences are the user settings kept between visits.
type Preferences struct {
	Unit           TemperatureUnit `json:"unit"`
	RecentSearches []string        `json:"recentSearches"`
	Favorites      []string        `json:"favorites"`
}

// DefaultPreferences returns the settings of a first visit.
func DefaultPreferences() Preferences {
	return Preferences{
		Unit:           Celsius,
		RecentSearches: []string{},
		Favorites:      []string{},
	}
}

// Normalize repairs values loaded from storage or sent by a client.
func (p Preferences) Normalize() Preferences {
	if p.Unit != Fahrenheit {
		p.Unit = Celsius
	}
	p.RecentSearches = cleanList(p.RecentSearches)
	if len(p.RecentSearches) > MaxRecentSearches {
		p.RecentSearches = p.RecentSearches[:MaxRecentSearches]
	}
	p.Favorites = cleanList(p.Favorites)
	return p
}

// WithRecentSearch moves term to the front of the recent searches, keeping at
// most MaxRecentSearches entries.
func (p Preferences) WithRecentSearch(term string) Preferences {
	term = strings.TrimSpace(term)
	if term == "" {
		return p
	}
	rest := lo.Without(p.RecentSearches, term)
	p.RecentSearches = append([]string{term}, rest...)
	if len(p.RecentSearches) > MaxRecentSearches {
		p.RecentSearches = p.RecentSearches[:MaxRecentSearches]
	}
	return p
}

// WithoutRecentSearch drops term from the recent searches.
func (p Preferences) WithoutRecentSearch(term string) Preferences {
	p.RecentSearches = lo.Without(p.RecentSearches, term)
	return p
}

// ToggleFavorite adds location to the favorites, or removes it if present.
func (p Preferences) ToggleFavorite(location string) Preferences {
	location = strings.TrimSpace(location)
	if location == "" {
		return p
	}
	if lo.Contains(p.Favorites, location) {
		p.Favorites = lo.Without(p.Favorites, location)
		return p
	}
	p.Favorites = append(append([]string{}, p.Favorites...), location)
	return p
}

// ToggleUnit flips between Celsius and Fahrenheit.
func (p Preferences) ToggleUnit() Preferences {
	if p.Unit == Fahrenheit {
		p.Unit = Celsius
	} else {
		p.Unit = Fahrenheit
	}
	return p
}

func cleanList(items []string) []string {
	out := lo.Uniq(lo.FilterMap(items, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	}))
	if out == nil {
		return []string{}
	}
	return out
}
