package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weather-insights/internal/config"
	"github.com/weather-insights/internal/models"
	"github.com/weather-insights/internal/settings"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, yt *YouTubeAPI) (*Server, *settings.MemoryRepository) {
	t.Helper()
	prefs := settings.NewMemoryRepository()
	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:3000"}}
	server := NewServer(cfg, yt, prefs)
	t.Cleanup(server.Close)
	return server, prefs
}

func serverWithVideos(t *testing.T) (*Server, *fakeUpstream) {
	t.Helper()
	upstream := newFakeUpstream()
	upstream.searchIDs = []string{"a", "b"}
	upstream.addVideo("a", "Storm season", "PT4M13S", "1500000")
	upstream.addVideo("b", "Heat wave", "PT1M", "999")
	server, _ := newTestServer(t, newTestYouTube(t, upstream))
	return server, upstream
}

func doRequest(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["videoEnabled"])
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	server, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestVideoEndpointsWithoutKey(t *testing.T) {
	server, _ := newTestServer(t, nil)

	for _, path := range []string{
		"/api/youtube-search?q=rain",
		"/api/youtube-trending",
		"/api/youtube-video/abc",
		"/api/videos/search?q=rain",
		"/api/videos/trending",
		"/api/videos/id/abc",
	} {
		w := doRequest(t, server, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.JSONEq(t, `{"error":"YouTube API key is not configured"}`, w.Body.String(), path)
	}
}

func TestProxySearch(t *testing.T) {
	server, upstream := serverWithVideos(t)

	w := doRequest(t, server, http.MethodGet, "/api/youtube-search?q=London&maxResults=3", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[map[string]any](t, w)
	items := body["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "a", first["id"])
	assert.Contains(t, first, "statistics")
	assert.Contains(t, first, "contentDetails")

	assert.Equal(t, []string{"London weather"}, upstream.queries)
	assert.Equal(t, []string{"3"}, upstream.maxResults)
}

func TestProxySearchRequiresQuery(t *testing.T) {
	server, _ := serverWithVideos(t)

	w := doRequest(t, server, http.MethodGet, "/api/youtube-search?q=%20", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProxyTrendingDefaultsToTen(t *testing.T) {
	server, upstream := serverWithVideos(t)

	w := doRequest(t, server, http.MethodGet, "/api/youtube-trending?maxResults=nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"trending weather"}, upstream.queries)
	assert.Equal(t, []string{"10"}, upstream.maxResults)
}

func TestProxyVideo(t *testing.T) {
	server, upstream := serverWithVideos(t)

	w := doRequest(t, server, http.MethodGet, "/api/youtube-video/b", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"b"}, upstream.idParams)

	w = doRequest(t, server, http.MethodGet, "/api/youtube-video/zzz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Video not found"}`, w.Body.String())

	w = doRequest(t, server, http.MethodGet, "/api/youtube-video/%20", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProxyForwardsUpstreamStatus(t *testing.T) {
	server, upstream := serverWithVideos(t)
	upstream.searchStatus = http.StatusForbidden

	w := doRequest(t, server, http.MethodGet, "/api/youtube-search?q=rain", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, "YouTube API search error", body["error"])
	details := body["details"].(map[string]any)
	assert.Contains(t, details, "error")
}

func TestNormalizedVideos(t *testing.T) {
	server, _ := serverWithVideos(t)

	w := doRequest(t, server, http.MethodGet, "/api/videos/search?q=storm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.VideoListResponse](t, w)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "1.5M", list.Items[0].ViewCount)
	assert.Equal(t, "4:13", list.Items[0].Duration)

	w = doRequest(t, server, http.MethodGet, "/api/videos/id/b", nil)
	require.Equal(t, http.StatusOK, w.Code)
	video := decode[models.Video](t, w)
	assert.Equal(t, "Heat wave", video.Title)
	assert.Equal(t, "1:00", video.Duration)
}

func TestPlayerSessionLifecycle(t *testing.T) {
	server, _ := serverWithVideos(t)

	w := doRequest(t, server, http.MethodPost, "/api/player/sessions", gin.H{"location": "London"})
	require.Equal(t, http.StatusAccepted, w.Code)
	id := decode[map[string]any](t, w)["id"].(string)
	require.NotEmpty(t, id)
	path := "/api/player/sessions/" + id

	require.Eventually(t, func() bool {
		w := doRequest(t, server, http.MethodGet, path, nil)
		return decode[sessionResponse](t, w).Status == "ready"
	}, 2*time.Second, 10*time.Millisecond)

	session := decode[sessionResponse](t, doRequest(t, server, http.MethodGet, path, nil))
	assert.Len(t, session.Related, 2)
	assert.Len(t, session.Trending, 2)
	require.NotNil(t, session.Playback.Selected)
	assert.Equal(t, "a", session.Playback.Selected.ID)
	assert.False(t, session.Playback.IsPlaying)

	w = doRequest(t, server, http.MethodPost, path+"/select", gin.H{"videoId": "a"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[sessionResponse](t, w).Playback.IsPlaying)

	w = doRequest(t, server, http.MethodPost, path+"/toggle-play", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[sessionResponse](t, w).Playback.IsPlaying)

	w = doRequest(t, server, http.MethodPost, path+"/scrub", gin.H{"fraction": 0.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 126, decode[sessionResponse](t, w).Playback.ElapsedSeconds)

	w = doRequest(t, server, http.MethodPost, path+"/seek", gin.H{"delta": -6})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2:00", decode[sessionResponse](t, w).Playback.Elapsed)

	w = doRequest(t, server, http.MethodPost, path+"/mute", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[sessionResponse](t, w).Playback.IsMuted)

	w = doRequest(t, server, http.MethodPost, path+"/select", gin.H{"videoId": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, server, http.MethodPost, path+"/scrub", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, server, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(t, server, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlayerSessionWithoutKey(t *testing.T) {
	server, _ := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/player/sessions", gin.H{"location": "Oslo"})
	require.Equal(t, http.StatusAccepted, w.Code)
	id := decode[map[string]any](t, w)["id"].(string)

	require.Eventually(t, func() bool {
		w := doRequest(t, server, http.MethodGet, "/api/player/sessions/"+id, nil)
		s := decode[sessionResponse](t, w)
		return s.Status == "unconfigured" && s.Error == "YouTube API key is missing"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOpenSessionRequiresLocation(t *testing.T) {
	server, _ := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodPost, "/api/player/sessions", gin.H{"location": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, server.sessions.Len())
}

func TestPreferencesEndpoints(t *testing.T) {
	server, _ := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodGet, "/api/preferences", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DefaultPreferences(), decode[models.Preferences](t, w))

	for _, term := range []string{"London", "Lisbon", "Paris"} {
		w = doRequest(t, server, http.MethodPost, "/api/preferences/recent", gin.H{"term": term})
		require.Equal(t, http.StatusOK, w.Code)
	}
	prefs := decode[models.Preferences](t, w)
	assert.Equal(t, []string{"Paris", "Lisbon", "London"}, prefs.RecentSearches)

	w = doRequest(t, server, http.MethodGet, "/api/preferences/suggest?q=lon", nil)
	require.Equal(t, http.StatusOK, w.Code)
	suggestions := decode[map[string][]string](t, w)["suggestions"]
	assert.Contains(t, suggestions, "London")
	assert.NotContains(t, suggestions, "Paris")

	w = doRequest(t, server, http.MethodDelete, "/api/preferences/recent/Lisbon", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Paris", "London"}, decode[models.Preferences](t, w).RecentSearches)

	w = doRequest(t, server, http.MethodPost, "/api/preferences/favorites/toggle", gin.H{"location": "Oslo"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Oslo"}, decode[models.Preferences](t, w).Favorites)

	w = doRequest(t, server, http.MethodPost, "/api/preferences/unit/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.Fahrenheit, decode[models.Preferences](t, w).Unit)

	w = doRequest(t, server, http.MethodPut, "/api/preferences", gin.H{"unit": "kelvin", "favorites": []string{"Rome", "Rome"}})
	require.Equal(t, http.StatusOK, w.Code)
	prefs = decode[models.Preferences](t, w)
	assert.Equal(t, models.Celsius, prefs.Unit)
	assert.Equal(t, []string{"Rome"}, prefs.Favorites)
}

func TestWeatherEndpoint(t *testing.T) {
	server, prefs := newTestServer(t, nil)

	w := doRequest(t, server, http.MethodGet, "/api/weather", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, server, http.MethodGet, "/api/weather?location=London&days=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[models.WeatherReport](t, w)
	assert.Equal(t, "London", report.Location)
	assert.Equal(t, models.Celsius, report.Unit)
	assert.Len(t, report.Days, 3)

	stored := models.DefaultPreferences()
	stored.Unit = models.Fahrenheit
	require.NoError(t, prefs.Save(t.Context(), stored))

	w = doRequest(t, server, http.MethodGet, "/api/weather?location=London&days=99", nil)
	report = decode[models.WeatherReport](t, w)
	assert.Equal(t, models.Fahrenheit, report.Unit)
	assert.Len(t, report.Days, 14)

	w = doRequest(t, server, http.MethodGet, "/api/weather?location=London&unit=celsius", nil)
	report = decode[models.WeatherReport](t, w)
	assert.Equal(t, models.Celsius, report.Unit)
	assert.Len(t, report.Days, 7)
}
