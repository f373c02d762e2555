package youtube

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

// Client searches YouTube for classroom-safe teaching videos.
type Client interface {
	Search(ctx context.Context, query string, language string, limit int) ([]types.Video, error)
}

type client struct {
	log    *logger.Logger
	svc    *yt.Service
	region string
}

func NewClient(ctx context.Context, log *logger.Logger, apiKey string) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing YOUTUBE_API_KEY")
	}

	svc, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}

	return &client{
		log:    log.With("service", "YouTubeClient"),
		svc:    svc,
		region: "IN",
	}, nil
}

func (c *client) Search(ctx context.Context, query string, language string, limit int) ([]types.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query required")
	}
	if limit <= 0 {
		limit = 3
	}
	if language == "" {
		language = "hi"
	}

	call := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(limit)).
		RegionCode(c.region).
		RelevanceLanguage(language).
		SafeSearch("strict").
		VideoEmbeddable("true")

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	out := make([]types.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		v := types.Video{
			ID:       item.Id.VideoId,
			Title:    item.Snippet.Title,
			Channel:  item.Snippet.ChannelTitle,
			EmbedURL: "https://www.youtube.com/embed/" + item.Id.VideoId,
			Language: language,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			v.Thumbnail = item.Snippet.Thumbnails.Medium.Url
		}
		out = append(out, v)
	}
	return out, nil
}
