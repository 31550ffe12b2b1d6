package models

// Video is the display-ready record of one provider video. Counts, duration and
// publish age are formatted once at ingestion and never re-derived.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Description  string `json:"description,omitempty"`
	PublishedAt  string `json:"publishedAt"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
	Duration     string `json:"duration"`
}

// WatchURL links to the video on YouTube.
func (v Video) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// VideoListResponse is the envelope returned by the normalized video endpoints.
type VideoListResponse struct {
	Items []Video `json:"items"`
}
