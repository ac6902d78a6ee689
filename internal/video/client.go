package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"libreria-be/internal/logger"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Video is a single upload of the parish channel as shown on the site.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
}

// Client lists recent uploads of a YouTube channel. It is a read-only
// collaborator; failures surface to the caller and never affect the store.
type Client struct {
	apiKey     string
	channelID  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, channelID string) *Client {
	if apiKey == "" {
		logger.L().Warn("YouTube API key is empty, video listing will fail")
	}

	return &Client{
		apiKey:    apiKey,
		channelID: channelID,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string    `json:"title"`
			Description string    `json:"description"`
			PublishedAt time.Time `json:"publishedAt"`
			Thumbnails  struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// ListLatest returns the channel's most recent uploads, newest first.
func (c *Client) ListLatest(ctx context.Context, limit int) ([]*Video, error) {
	log := logger.FromCtx(ctx).With(zap.String("channel_id", c.channelID))

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("channelId", c.channelID)
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("order", "date")
	q.Set("maxResults", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("youtube request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read youtube response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("youtube returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("youtube error: %s", string(bodyBytes))
	}

	var res searchResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return nil, err
	}

	videos := make([]*Video, 0, len(res.Items))
	for _, item := range res.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, &Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
			PublishedAt: item.Snippet.PublishedAt,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
		})
	}

	return videos, nil
}
