package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/weather-insights/internal/config"
	"github.com/weather-insights/internal/models"
	"github.com/weather-insights/internal/player"
	"github.com/weather-insights/internal/settings"
	"github.com/weather-insights/internal/weather"
)

const (
	defaultMaxResults = 10
	fetchTimeout      = 30 * time.Second
)

// Server represents the API server
type Server struct {
	router   *gin.Engine
	youtube  *YouTubeAPI
	sessions *Sessions
	prefs    settings.Repository
	weather  *weather.Generator
}

// NewServer creates a new API server. youtube may be nil, in which case every
// video endpoint answers with the "not configured" error.
func NewServer(cfg *config.Config, youtube *YouTubeAPI, prefs settings.Repository) *Server {
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	var catalog player.Catalog
	if youtube != nil {
		catalog = youtube
	}

	server := &Server{
		router:   router,
		youtube:  youtube,
		sessions: NewSessions(catalog, cfg.MaxSessions, cfg.SessionIdle),
		prefs:    prefs,
		weather:  weather.NewGenerator(time.Now().UnixNano()),
	}

	server.setupRoutes()
	return server
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"videoEnabled": s.youtube != nil,
		})
	})

	// Thin proxy endpoints returning the upstream details response
	s.router.GET("/api/youtube-search", s.proxySearch)
	s.router.GET("/api/youtube-trending", s.proxyTrending)
	s.router.GET("/api/youtube-video/:id", s.proxyVideo)

	// Normalized video records
	s.router.GET("/api/videos/search", s.searchVideos)
	s.router.GET("/api/videos/trending", s.trendingVideos)
	s.router.GET("/api/videos/id/:id", s.getVideo)

	// Player sessions
	sessions := s.router.Group("/api/player/sessions")
	sessions.POST("", s.openSession)
	sessions.GET("/:id", s.withPanel(s.getSession))
	sessions.DELETE("/:id", s.closeSession)
	sessions.POST("/:id/search", s.withPanel(s.sessionSearch))
	sessions.POST("/:id/select", s.withPanel(s.sessionSelect))
	sessions.POST("/:id/toggle-play", s.withPanel(s.sessionTogglePlay))
	sessions.POST("/:id/mute", s.withPanel(s.sessionMute))
	sessions.POST("/:id/seek", s.withPanel(s.sessionSeek))
	sessions.POST("/:id/scrub", s.withPanel(s.sessionScrub))

	// Preferences
	prefs := s.router.Group("/api/preferences")
	prefs.GET("", s.getPreferences)
	prefs.PUT("", s.putPreferences)
	prefs.GET("/suggest", s.suggestSearches)
	prefs.POST("/recent", s.addRecentSearch)
	prefs.DELETE("/recent/:term", s.removeRecentSearch)
	prefs.POST("/favorites/toggle", s.toggleFavorite)
	prefs.POST("/unit/toggle", s.toggleUnit)

	s.router.GET("/api/weather", s.getWeather)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the player session registry
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// Close unmounts every open player session
func (s *Server) Close() {
	s.sessions.CloseAll()
}

func (s *Server) requireYouTube(c *gin.Context) bool {
	if s.youtube == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrNotConfigured.Error()})
		return false
	}
	return true
}

func (s *Server) proxySearch(c *gin.Context) {
	if !s.requireYouTube(c) {
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	resp, err := s.youtube.SearchDetails(c.Request.Context(), s.youtube.ScopedQuery(query), intQuery(c, "maxResults", defaultMaxResults))
	if err != nil {
		writeUpstreamError(c, err, "Failed to search YouTube videos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) proxyTrending(c *gin.Context) {
	if !s.requireYouTube(c) {
		return
	}

	resp, err := s.youtube.SearchDetails(c.Request.Context(), s.youtube.TrendingQuery(), intQuery(c, "maxResults", defaultMaxResults))
	if err != nil {
		writeUpstreamError(c, err, "Failed to fetch trending YouTube videos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) proxyVideo(c *gin.Context) {
	if !s.requireYouTube(c) {
		return
	}
	videoID := strings.TrimSpace(c.Param("id"))
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
		return
	}

	resp, err := s.youtube.VideoDetails(c.Request.Context(), videoID)
	if err != nil {
		writeUpstreamError(c, err, "Failed to fetch YouTube video")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) searchVideos(c *gin.Context) {
	if !s.requireYouTube(c) {
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	videos, err := s.youtube.SearchVideos(c.Request.Context(), query, intQuery(c, "limit", player.RelatedLimit))
	if err != nil {
		writeUpstreamError(c, err, "Failed to search videos. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, models.VideoListResponse{Items: videos})
}

func (s *Server) trendingVideos(c *gin.Context) {
	if !s.requireYouTube(c) {
		return
	}

	videos, err := s.youtube.TrendingVideos(c.Request.Context(), intQuery(c, "limit", player.TrendingLimit))
	if err != nil {
		writeUpstreamError(c, err, "Failed to fetch videos. Please try again later.")
		return
	}
	c.JSON(http.StatusOK, models.VideoListResponse{Items: videos})
}

func (s *Server) getVideo(c *gin.Context) {
	if !s.requireYouTube(c) {
		return
	}
	videoID := strings.TrimSpace(c.Param("id"))
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
		return
	}

	video, err := s.youtube.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		writeUpstreamError(c, err, "Failed to fetch YouTube video")
		return
	}
	c.JSON(http.StatusOK, video)
}

// writeUpstreamError maps provider failures onto the proxy error contract
func writeUpstreamError(c *gin.Context, err error, fallback string) {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrVideoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrVideoNotFound.Error()})
	case errors.As(err, &upstream):
		log.WithError(err).WithField("path", c.FullPath()).Warn("YouTube API returned an error")
		c.JSON(upstream.StatusCode(), gin.H{
			"error":   "YouTube API " + upstream.Phase + " error",
			"details": upstream.Details(),
		})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func fetchContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), fetchTimeout)
}
