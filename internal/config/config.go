package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey   string
	YouTubeEndpoint string
	VideoTopic      string
	DBPath          string
	SettingsPath    string
	Port            string
	AllowedOrigins  []string
	LogLevel        string
	LogJSON         bool
	MaxSessions     int
	SessionIdle     time.Duration
}

var defaults = map[string]any{
	"youtube_api_key":  "",
	"youtube_endpoint": "",
	"video_topic":      "weather",
	"db_path":          "",
	"settings_path":    filepath.Join("data", "preferences.json"),
	"port":             "8080",
	"allowed_origins":  "http://localhost:3000,http://localhost:3001",
	"log_level":        "info",
	"log_json":         false,
	"max_sessions":     100,
	"session_idle":     "30m",
}

// Load reads the configuration from the environment. A missing API key is not
// an error here; the video feature degrades instead.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{
		YouTubeAPIKey:   strings.TrimSpace(v.GetString("youtube_api_key")),
		YouTubeEndpoint: v.GetString("youtube_endpoint"),
		VideoTopic:      strings.TrimSpace(v.GetString("video_topic")),
		DBPath:          v.GetString("db_path"),
		SettingsPath:    v.GetString("settings_path"),
		Port:            v.GetString("port"),
		AllowedOrigins:  splitList(v.GetString("allowed_origins")),
		LogLevel:        v.GetString("log_level"),
		LogJSON:         v.GetBool("log_json"),
		MaxSessions:     v.GetInt("max_sessions"),
		SessionIdle:     v.GetDuration("session_idle"),
	}
	if cfg.VideoTopic == "" {
		cfg.VideoTopic = "weather"
	}
	return cfg, nil
}

// Validate checks if the video configuration is usable
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	return nil
}

// VideoEnabled reports whether the video feature can talk to YouTube.
func (c *Config) VideoEnabled() bool {
	return c.Validate() == nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
