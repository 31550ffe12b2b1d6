package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/weather-insights/internal/format"
	"github.com/weather-insights/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// maxBatch is the YouTube API ceiling for maxResults and for ids per videos call.
	maxBatch     = 50
	detailParts  = "snippet,contentDetails,statistics"
	defaultTopic = "weather"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("YouTube API key is not configured")
	// ErrVideoNotFound is returned by single-video lookups that match nothing.
	ErrVideoNotFound = errors.New("Video not found")
)

// YouTubeAPI fetches video metadata from the YouTube Data API with the two-phase
// search-then-details shape: the search endpoint omits statistics and duration,
// and the videos endpoint needs explicit ids.
type YouTubeAPI struct {
	service *youtube.Service
	topic   string
	now     func() time.Time
}

// NewYouTubeAPI creates a new YouTube API client scoped to topic
func NewYouTubeAPI(ctx context.Context, apiKey, topic string, opts ...option.ClientOption) (*YouTubeAPI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(topic) == "" {
		topic = defaultTopic
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &YouTubeAPI{
		service: service,
		topic:   topic,
		now:     time.Now,
	}, nil
}

// Topic returns the keyword searches are scoped to.
func (y *YouTubeAPI) Topic() string {
	return y.topic
}

// ScopedQuery appends the topic to query unless the query already mentions it.
func (y *YouTubeAPI) ScopedQuery(query string) string {
	query = strings.TrimSpace(query)
	if strings.Contains(strings.ToLower(query), strings.ToLower(y.topic)) {
		return query
	}
	if query == "" {
		return y.topic
	}
	return query + " " + y.topic
}

// TrendingQuery is the fixed keyword used for the trending collection.
func (y *YouTubeAPI) TrendingQuery() string {
	return "trending " + y.topic
}

// Search returns normalized videos for query. Failures are logged and collapse
// to an empty result, so callers cannot tell them apart from "no matches";
// use SearchVideos when the difference matters.
func (y *YouTubeAPI) Search(ctx context.Context, query string, limit int) []models.Video {
	videos, err := y.SearchVideos(ctx, query, limit)
	if err != nil {
		log.WithError(err).WithField("query", query).Error("Error fetching YouTube videos")
		return []models.Video{}
	}
	return videos
}

// Trending is Search for the fixed trending keyword.
func (y *YouTubeAPI) Trending(ctx context.Context, limit int) []models.Video {
	videos, err := y.TrendingVideos(ctx, limit)
	if err != nil {
		log.WithError(err).Error("Error fetching trending YouTube videos")
		return []models.Video{}
	}
	return videos
}

// SearchVideos is Search with the failure reported.
func (y *YouTubeAPI) SearchVideos(ctx context.Context, query string, limit int) ([]models.Video, error) {
	resp, err := y.SearchDetails(ctx, y.ScopedQuery(query), limit)
	if err != nil {
		return nil, err
	}
	return y.convertAll(resp.Items), nil
}

// TrendingVideos is Trending with the failure reported.
func (y *YouTubeAPI) TrendingVideos(ctx context.Context, limit int) ([]models.Video, error) {
	resp, err := y.SearchDetails(ctx, y.TrendingQuery(), limit)
	if err != nil {
		return nil, err
	}
	return y.convertAll(resp.Items), nil
}

// GetVideo returns one normalized video or ErrVideoNotFound.
func (y *YouTubeAPI) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	resp, err := y.VideoDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	video := ConvertVideo(resp.Items[0], y.now())
	return &video, nil
}

// SearchDetails runs both phases for query and returns the raw details
// response. A search without video ids yields an empty response and no
// details call.
func (y *YouTubeAPI) SearchDetails(ctx context.Context, query string, limit int) (*youtube.VideoListResponse, error) {
	ids, err := y.searchIDs(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &youtube.VideoListResponse{Items: []*youtube.Video{}}, nil
	}
	return y.videoDetails(ctx, ids)
}

// VideoDetails returns the raw details response for a single id.
func (y *YouTubeAPI) VideoDetails(ctx context.Context, id string) (*youtube.VideoListResponse, error) {
	resp, err := y.videoDetails(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrVideoNotFound
	}
	return resp, nil
}

func (y *YouTubeAPI) searchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	call := y.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(lo.Clamp(limit, 1, maxBatch))).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, &UpstreamError{Phase: "search", Err: err}
	}
	if response == nil {
		return nil, nil
	}

	ids := lo.FilterMap(response.Items, func(item *youtube.SearchResult, _ int) (string, bool) {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			return "", false
		}
		return item.Id.VideoId, true
	})
	return lo.Uniq(ids), nil
}

func (y *YouTubeAPI) videoDetails(ctx context.Context, ids []string) (*youtube.VideoListResponse, error) {
	call := y.service.Videos.List([]string{detailParts}).
		Id(strings.Join(ids, ",")).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, &UpstreamError{Phase: "videos", Err: err}
	}
	if response == nil {
		response = &youtube.VideoListResponse{}
	}
	if response.Items == nil {
		response.Items = []*youtube.Video{}
	}
	return response, nil
}

func (y *YouTubeAPI) convertAll(items []*youtube.Video) []models.Video {
	now := y.now()
	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		videos = append(videos, ConvertVideo(item, now))
	}
	return videos
}

// ConvertVideo normalizes a provider record into a display-ready video.
func ConvertVideo(item *youtube.Video, now time.Time) models.Video {
	video := models.Video{
		ID:           item.Id,
		ViewCount:    "0",
		LikeCount:    "0",
		CommentCount: "0",
		Duration:     format.FormatDuration(0),
	}

	if s := item.Snippet; s != nil {
		video.Title = s.Title
		video.ChannelTitle = s.ChannelTitle
		video.Description = s.Description
		video.PublishedAt = format.RelativeAgeString(s.PublishedAt, now)
		video.ThumbnailURL = bestThumbnail(s.Thumbnails)
	}
	if st := item.Statistics; st != nil {
		video.ViewCount = format.Count(st.ViewCount)
		video.LikeCount = format.Count(st.LikeCount)
		video.CommentCount = format.Count(st.CommentCount)
	}
	if cd := item.ContentDetails; cd != nil {
		video.Duration = format.FormatDuration(format.ParseDuration(cd.Duration))
	}
	return video
}

// bestThumbnail picks the highest resolution available: maxres, standard, high,
// medium, then default.
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// UpstreamError reports a failed call to the YouTube API.
type UpstreamError struct {
	Phase string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("YouTube API %s error: %v", e.Phase, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusCode is the upstream HTTP status, or 500 when the call never got one.
func (e *UpstreamError) StatusCode() int {
	var gerr *googleapi.Error
	if errors.As(e.Err, &gerr) && gerr.Code >= 400 {
		return gerr.Code
	}
	return 500
}

// Details is the upstream error body, when there is one.
func (e *UpstreamError) Details() any {
	var gerr *googleapi.Error
	if errors.As(e.Err, &gerr) {
		if json.Valid([]byte(gerr.Body)) {
			return json.RawMessage(gerr.Body)
		}
		if gerr.Body != "" {
			return gerr.Body
		}
		return gerr.Message
	}
	return e.Err.Error()
}
