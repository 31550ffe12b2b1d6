// Package weather produces the mock dashboard series. It stands in for a real
// forecast provider and has no notion of the requested location.
package weather

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/weather-insights/internal/models"
)

const (
	// DefaultDays is the length of the dashboard series.
	DefaultDays = 7
	// MaxDays bounds the series length.
	MaxDays = 14

	hourlyPoints = 8
	firstHour    = 7
)

// Conditions are the weather conditions the generator draws from.
var Conditions = []string{"Sunny", "Cloudy", "Rainy", "Drizzle", "Snowy", "Stormy"}

// Generator builds random weather series. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), now: time.Now}
}

// Days returns days entries, today first and each following entry one day
// earlier. Temperatures are Fahrenheit.
func (g *Generator) Days(days int) []models.WeatherDay {
	days = max(1, min(days, MaxDays))
	today := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.WeatherDay, 0, days)
	for i := 0; i < days; i++ {
		base := g.between(40, 85)
		condition := g.condition()
		out = append(out, models.WeatherDay{
			Date:          today.AddDate(0, 0, -i),
			Temperature:   base,
			FeelsLike:     base + g.between(-3, 3),
			High:          base + g.between(1, 5),
			Low:           base - g.between(5, 15),
			Condition:     condition,
			Wind:          g.between(0, 20),
			Precipitation: g.between(0, 100),
			Sunrise:       fmt.Sprintf("%d:%02dam", g.between(5, 7), g.between(0, 59)),
			Sunset:        fmt.Sprintf("%d:%02dpm", g.between(5, 8), g.between(0, 59)),
			Hourly:        g.hourly(base, condition),
		})
	}
	return out
}

// Report builds a series for location in the requested unit.
func (g *Generator) Report(location string, days int, unit models.TemperatureUnit) models.WeatherReport {
	series := g.Days(days)
	if unit == models.Celsius {
		series = ToCelsius(series)
	} else {
		unit = models.Fahrenheit
	}
	return models.WeatherReport{Location: location, Unit: unit, Days: series}
}

func (g *Generator) hourly(base int, condition string) []models.HourlyForecast {
	hours := make([]models.HourlyForecast, 0, hourlyPoints)
	for i := 0; i < hourlyPoints; i++ {
		hour := firstHour + i
		c := condition
		if g.rng.Float64() <= 0.3 {
			c = g.condition()
		}
		hours = append(hours, models.HourlyForecast{
			Time:      clockHour(hour),
			Temp:      base + g.between(-3, 3),
			Condition: c,
		})
	}
	return hours
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) condition() string {
	return Conditions[g.rng.Intn(len(Conditions))]
}

func clockHour(hour int) string {
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	if hour > 12 {
		hour -= 12
	}
	return fmt.Sprintf("%d%s", hour, suffix)
}

// ToCelsius converts every temperature in series from Fahrenheit.
func ToCelsius(series []models.WeatherDay) []models.WeatherDay {
	out := make([]models.WeatherDay, len(series))
	for i, d := range series {
		d.Temperature = fToC(d.Temperature)
		d.FeelsLike = fToC(d.FeelsLike)
		d.High = fToC(d.High)
		d.Low = fToC(d.Low)
		hourly := make([]models.HourlyForecast, len(d.Hourly))
		for j, h := range d.Hourly {
			h.Temp = fToC(h.Temp)
			hourly[j] = h
		}
		d.Hourly = hourly
		out[i] = d
	}
	return out
}

func fToC(f int) int {
	return int(math.Round(float64(f-32) * 5 / 9))
}
