package main

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/weather-insights/internal/api"
	"github.com/weather-insights/internal/config"
	"github.com/weather-insights/internal/logger"
	"github.com/weather-insights/internal/models"
	"github.com/weather-insights/internal/settings"
	"google.golang.org/api/option"
)

var rootCmd = &cobra.Command{
	Use:           "weather-insights",
	Short:         "Weather dashboard backend with a simulated YouTube video player",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), "")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, watchCmd)
}

// app bundles the dependencies shared by every command.
type app struct {
	cfg     *config.Config
	youtube *api.YouTubeAPI
	prefs   settings.Repository
	closer  io.Closer
}

// newApp loads configuration, sets up logging and connects the optional
// services. A missing API key leaves youtube nil instead of failing.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogJSON)

	a := &app{cfg: cfg}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Warn("Video feature disabled")
	} else {
		var opts []option.ClientOption
		if cfg.YouTubeEndpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.YouTubeEndpoint))
		}
		a.youtube, err = api.NewYouTubeAPI(ctx, cfg.YouTubeAPIKey, cfg.VideoTopic, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize YouTube API: %w", err)
		}
	}

	if cfg.DBPath != "" {
		db, err := models.NewDatabase(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.prefs = settings.NewDatabaseRepository(db, settings.DefaultProfile)
		a.closer = db
	} else {
		a.prefs = settings.NewFileRepository(afero.NewOsFs(), cfg.SettingsPath)
	}

	return a, nil
}

func (a *app) Close() {
	if a.closer == nil {
		return
	}
	if err := a.closer.Close(); err != nil {
		log.WithError(err).Warn("Failed to close database")
	}
}
