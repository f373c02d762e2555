package services

import (
	"context"
	"sort"

	"github.com/sahayakai/sahayak-backend/internal/clients/youtube"
	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

// VideoService finds short teaching videos for a classroom problem. Search
// never fails: when the YouTube API is missing or errors, the curated list
// answers instead.
type VideoService interface {
	Search(ctx context.Context, query string, grade *int, language string, limit int) []types.Video
}

type videoService struct {
	log     *logger.Logger
	client  youtube.Client
	curated []types.Video
}

// NewVideoService wires the video search. A nil client means curated-only.
func NewVideoService(log *logger.Logger, client youtube.Client, curated []types.Video) VideoService {
	return &videoService{
		log:     log.With("service", "VideoService"),
		client:  client,
		curated: curated,
	}
}

func (vs *videoService) Search(ctx context.Context, query string, grade *int, language string, limit int) []types.Video {
	if limit <= 0 {
		limit = 3
	}
	if language == "" {
		language = "hi"
	}

	if vs.client != nil {
		videos, err := vs.client.Search(ctx, query, language, limit)
		if err == nil && len(videos) > 0 {
			return videos
		}
		if err != nil {
			vs.log.Warn("YouTube search failed; using curated videos", "error", err.Error())
		}
	}

	return vs.searchCurated(query, grade, language, limit)
}

func (vs *videoService) searchCurated(query string, grade *int, language string, limit int) []types.Video {
	scored := make([]types.Video, 0, len(vs.curated))
	for _, v := range vs.curated {
		score := ScoreVideo(query, v, grade, language)
		if score <= 0 {
			continue
		}
		v.RelevanceScore = score
		v.EmbedURL = "https://www.youtube.com/embed/" + v.ID
		scored = append(scored, v)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
