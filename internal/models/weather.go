package models

import "time"

// HourlyForecast is one point of the intra-day series.
type HourlyForecast struct {
	Time      string `json:"time"`
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
}

// WeatherDay is one day of the dashboard series. Temperatures are Fahrenheit
// unless the series was converted.
type WeatherDay struct {
	Date          time.Time        `json:"date"`
	Temperature   int              `json:"temperature"`
	FeelsLike     int              `json:"feelsLike"`
	High          int              `json:"high"`
	Low           int              `json:"low"`
	Condition     string           `json:"condition"`
	Wind          int              `json:"wind"`
	Precipitation int              `json:"precipitation"`
	Sunrise       string           `json:"sunrise"`
	Sunset        string           `json:"sunset"`
	Hourly        []HourlyForecast `json:"hourly"`
}

// WeatherReport is the payload of the weather endpoint.
type WeatherReport struct {
	Location string          `json:"location"`
	Unit     TemperatureUnit `json:"unit"`
	Days     []WeatherDay    `json:"days"`
}
