package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeUpstream serves the two YouTube endpoints the client uses.
type fakeUpstream struct {
	mu           sync.Mutex
	searchIDs    []string
	videos       map[string]map[string]any
	searchStatus int
	videosStatus int

	searchCalls int
	videosCalls int
	queries     []string
	maxResults  []string
	idParams    []string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{videos: make(map[string]map[string]any)}
}

func (f *fakeUpstream) addVideo(id, title, duration, views string) {
	f.videos[id] = map[string]any{
		"id": id,
		"snippet": map[string]any{
			"title":        title,
			"channelTitle": "Weather Channel",
			"description":  "About " + title,
			"publishedAt":  "2024-03-08T12:00:00Z",
			"thumbnails": map[string]any{
				"default": map[string]any{"url": "https://img/" + id + "/default.jpg"},
				"medium":  map[string]any{"url": "https://img/" + id + "/medium.jpg"},
			},
		},
		"contentDetails": map[string]any{"duration": duration},
		"statistics": map[string]any{
			"viewCount":    views,
			"likeCount":    "1200",
			"commentCount": "7",
		},
	}
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/search":
		f.searchCalls++
		f.queries = append(f.queries, r.URL.Query().Get("q"))
		f.maxResults = append(f.maxResults, r.URL.Query().Get("maxResults"))
		if f.searchStatus != 0 {
			writeGoogleError(w, f.searchStatus)
			return
		}
		items := make([]map[string]any, 0, len(f.searchIDs))
		for _, id := range f.searchIDs {
			items = append(items, map[string]any{
				"id": map[string]any{"kind": "youtube#video", "videoId": id},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	case "/videos":
		f.videosCalls++
		param := r.URL.Query().Get("id")
		f.idParams = append(f.idParams, param)
		if f.videosStatus != 0 {
			writeGoogleError(w, f.videosStatus)
			return
		}
		items := []map[string]any{}
		for _, id := range strings.Split(param, ",") {
			if v, ok := f.videos[id]; ok {
				items = append(items, v)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	default:
		http.NotFound(w, r)
	}
}

func writeGoogleError(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": "The request cannot be completed because you have exceeded your quota.",
			"errors": []map[string]any{
				{"reason": "quotaExceeded", "domain": "youtube.quota"},
			},
		},
	})
}

func (f *fakeUpstream) calls() (search, videos int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls, f.videosCalls
}

func newTestYouTube(t *testing.T, upstream *fakeUpstream) *YouTubeAPI {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	yt, err := NewYouTubeAPI(context.Background(), "test-key", "weather",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	yt.now = func() time.Time { return testNow }
	return yt
}

func TestNewYouTubeAPIRequiresKey(t *testing.T) {
	yt, err := NewYouTubeAPI(context.Background(), "  ", "weather")
	assert.Nil(t, yt)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestScopedQuery(t *testing.T) {
	yt := &YouTubeAPI{topic: "weather"}

	tests := []struct {
		query string
		want  string
	}{
		{"London", "London weather"},
		{"  storm chasing ", "storm chasing weather"},
		{"Weather in Paris", "Weather in Paris"},
		{"", "weather"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, yt.ScopedQuery(tt.query), "query %q", tt.query)
	}
	assert.Equal(t, "trending weather", yt.TrendingQuery())
}

func TestSearchVideosTwoPhase(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.searchIDs = []string{"a", "", "b", "a"}
	upstream.addVideo("a", "Storm season", "PT4M13S", "1500000")
	upstream.addVideo("b", "Heat wave", "PT1H2M3S", "999")
	yt := newTestYouTube(t, upstream)

	videos, err := yt.SearchVideos(context.Background(), "storm chasing", 8)
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, []string{"storm chasing weather"}, upstream.queries)
	assert.Equal(t, []string{"8"}, upstream.maxResults)
	assert.Equal(t, []string{"a,b"}, upstream.idParams)

	first := videos[0]
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "Storm season", first.Title)
	assert.Equal(t, "Weather Channel", first.ChannelTitle)
	assert.Equal(t, "2 days ago", first.PublishedAt)
	assert.Equal(t, "https://img/a/medium.jpg", first.ThumbnailURL)
	assert.Equal(t, "1.5M", first.ViewCount)
	assert.Equal(t, "1.2K", first.LikeCount)
	assert.Equal(t, "7", first.CommentCount)
	assert.Equal(t, "4:13", first.Duration)

	assert.Equal(t, "999", videos[1].ViewCount)
	assert.Equal(t, "1:02:03", videos[1].Duration)
}

func TestSearchLimitIsClamped(t *testing.T) {
	upstream := newFakeUpstream()
	yt := newTestYouTube(t, upstream)

	yt.Search(context.Background(), "rain", 500)
	yt.Search(context.Background(), "rain", 0)

	assert.Equal(t, []string{"50", "1"}, upstream.maxResults)
}

func TestSearchWithoutIDsSkipsDetails(t *testing.T) {
	upstream := newFakeUpstream()
	yt := newTestYouTube(t, upstream)

	videos := yt.Search(context.Background(), "nothing", 8)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)

	search, details := upstream.calls()
	assert.Equal(t, 1, search)
	assert.Equal(t, 0, details)
}

func TestTrendingUsesFixedKeyword(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.searchIDs = []string{"t1"}
	upstream.addVideo("t1", "Top storms", "PT30S", "10")
	yt := newTestYouTube(t, upstream)

	videos := yt.Trending(context.Background(), 5)
	require.Len(t, videos, 1)
	assert.Equal(t, "0:30", videos[0].Duration)
	assert.Equal(t, []string{"trending weather"}, upstream.queries)
	assert.Equal(t, []string{"5"}, upstream.maxResults)
}

func TestSearchFailureCollapsesToEmpty(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.searchStatus = http.StatusForbidden
	yt := newTestYouTube(t, upstream)

	videos := yt.Search(context.Background(), "rain", 8)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)

	_, err := yt.SearchVideos(context.Background(), "rain", 8)
	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, "search", upstreamErr.Phase)
	assert.Equal(t, http.StatusForbidden, upstreamErr.StatusCode())

	details, ok := upstreamErr.Details().(json.RawMessage)
	require.True(t, ok)
	assert.Contains(t, string(details), "quotaExceeded")

	_, videosCalls := upstream.calls()
	assert.Equal(t, 0, videosCalls)
}

func TestDetailsFailureIsReported(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.searchIDs = []string{"a"}
	upstream.videosStatus = http.StatusBadRequest
	yt := newTestYouTube(t, upstream)

	_, err := yt.TrendingVideos(context.Background(), 5)
	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, "videos", upstreamErr.Phase)
	assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode())
}

func TestGetVideo(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.addVideo("abc", "Fog", "PT2M", "42")
	yt := newTestYouTube(t, upstream)

	video, err := yt.GetVideo(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Fog", video.Title)
	assert.Equal(t, "2:00", video.Duration)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", video.WatchURL())

	_, err = yt.GetVideo(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestConvertVideoDefaults(t *testing.T) {
	video := ConvertVideo(&youtube.Video{Id: "bare"}, testNow)

	assert.Equal(t, "bare", video.ID)
	assert.Equal(t, "0", video.ViewCount)
	assert.Equal(t, "0", video.LikeCount)
	assert.Equal(t, "0", video.CommentCount)
	assert.Equal(t, "0:00", video.Duration)
	assert.Empty(t, video.ThumbnailURL)
}

func TestBestThumbnail(t *testing.T) {
	details := &youtube.ThumbnailDetails{
		Default: &youtube.Thumbnail{Url: "d"},
		High:    &youtube.Thumbnail{Url: "h"},
	}
	assert.Equal(t, "h", bestThumbnail(details))

	details.Maxres = &youtube.Thumbnail{Url: "max"}
	assert.Equal(t, "max", bestThumbnail(details))

	assert.Empty(t, bestThumbnail(nil))
}

func TestUpstreamErrorWithoutResponse(t *testing.T) {
	err := &UpstreamError{Phase: "search", Err: errors.New("dial tcp: connection refused")}

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
	assert.Equal(t, "dial tcp: connection refused", err.Details())
	assert.Contains(t, err.Error(), "YouTube API search error")
}
