package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/weather-insights/internal/models"
	"github.com/weather-insights/internal/player"
	"github.com/weather-insights/internal/settings"
	"github.com/weather-insights/internal/weather"
)

type openSessionRequest struct {
	Location string `json:"location" binding:"required"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type selectRequest struct {
	VideoID string `json:"videoId" binding:"required"`
}

type seekRequest struct {
	Delta int `json:"delta"`
}

type scrubRequest struct {
	Fraction *float64 `json:"fraction" binding:"required"`
}

type termRequest struct {
	Term string `json:"term" binding:"required"`
}

type locationRequest struct {
	Location string `json:"location" binding:"required"`
}

type sessionResponse struct {
	ID string `json:"id"`
	player.Snapshot
}

func (s *Server) openSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Location) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location is required"})
		return
	}

	id, panel, err := s.sessions.Open(req.Location)
	if err != nil {
		log.WithError(err).Warn("Rejected player session")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, sessionResponse{ID: id, Snapshot: panel.Snapshot()})
}

// withPanel resolves the :id session before calling next
func (s *Server) withPanel(next func(*gin.Context, string, *player.Panel)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		panel, ok := s.sessions.Get(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player session not found"})
			return
		}
		next(c, id, panel)
	}
}

func (s *Server) getSession(c *gin.Context, id string, panel *player.Panel) {
	c.JSON(http.StatusOK, sessionResponse{ID: id, Snapshot: panel.Snapshot()})
}

func (s *Server) closeSession(c *gin.Context) {
	if !s.sessions.Close(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) sessionSearch(c *gin.Context, id string, panel *player.Panel) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	go func() {
		ctx, cancel := fetchContext()
		defer cancel()
		panel.Search(ctx, req.Query)
	}()
	c.JSON(http.StatusAccepted, sessionResponse{ID: id, Snapshot: panel.Snapshot()})
}

func (s *Server) sessionSelect(c *gin.Context, id string, panel *player.Panel) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video ID is required"})
		return
	}

	if err := panel.Select(req.VideoID); err != nil {
		if errors.Is(err, player.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrVideoNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, Snapshot: panel.Snapshot()})
}

func (s *Server) sessionTogglePlay(c *gin.Context, id string, panel *player.Panel) {
	panel.TogglePlay()
	c.JSON(http.StatusOK, sessionResponse{ID: id, Snapshot: panel.Snapshot()})
}

func (s *Server) sessionMute(c *gin.Context, id string, panel *player.Panel) {
	panel.ToggleMute()
	c.JSON(http.StatusOK, sessionResponse{ID: id, Snapshot: panel.Snapshot()})
}

func (s *Server) sessionSeek(c *gin.Context, id string, panel *player.Panel) {
	var req seekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	panel.SeekRelative(req.Delta)
	c.JSON(http.StatusOK, sessionResponse{ID: id, Snapshot: panel.Snapshot()})
}

func (s *Server) sessionScrub(c *gin.Context, id string, panel *player.Panel) {
	var req scrubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fraction is required"})
		return
	}

	panel.Scrub(*req.Fraction)
	c.JSON(http.StatusOK, sessionResponse{ID: id, Snapshot: panel.Snapshot()})
}

func (s *Server) getPreferences(c *gin.Context) {
	prefs, err := s.prefs.Load(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) putPreferences(c *gin.Context) {
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid preferences"})
		return
	}

	prefs = prefs.Normalize()
	if err := s.prefs.Save(c.Request.Context(), prefs); err != nil {
		log.WithError(err).Error("Failed to store preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) suggestSearches(c *gin.Context) {
	prefs, err := s.prefs.Load(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": settings.Suggest(prefs, c.Query("q"))})
}

func (s *Server) addRecentSearch(c *gin.Context) {
	var req termRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search term is required"})
		return
	}
	s.updatePreferences(c, func(p models.Preferences) models.Preferences {
		return p.WithRecentSearch(req.Term)
	})
}

func (s *Server) removeRecentSearch(c *gin.Context) {
	term := c.Param("term")
	s.updatePreferences(c, func(p models.Preferences) models.Preferences {
		return p.WithoutRecentSearch(term)
	})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location is required"})
		return
	}
	s.updatePreferences(c, func(p models.Preferences) models.Preferences {
		return p.ToggleFavorite(req.Location)
	})
}

func (s *Server) toggleUnit(c *gin.Context) {
	s.updatePreferences(c, models.Preferences.ToggleUnit)
}

func (s *Server) updatePreferences(c *gin.Context, fn func(models.Preferences) models.Preferences) {
	prefs, err := settings.Update(c.Request.Context(), s.prefs, fn)
	if err != nil {
		log.WithError(err).Error("Failed to update preferences")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) getWeather(c *gin.Context) {
	location := strings.TrimSpace(c.Query("location"))
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location is required"})
		return
	}

	unit := models.TemperatureUnit(c.Query("unit"))
	if unit == "" {
		unit = s.preferredUnit(c.Request.Context())
	}

	days := intQuery(c, "days", weather.DefaultDays)
	c.JSON(http.StatusOK, s.weather.Report(location, days, unit))
}

func (s *Server) preferredUnit(ctx context.Context) models.TemperatureUnit {
	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		log.WithError(err).Warn("Falling back to default temperature unit")
		return models.DefaultPreferences().Unit
	}
	return prefs.Unit
}
