package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Murari17/Clipverse-video/internal/api/dto"
	infraRedis "github.com/Murari17/Clipverse-video/internal/infra/redis"
	"github.com/Murari17/Clipverse-video/internal/model"
	"github.com/Murari17/Clipverse-video/internal/repository"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"gorm.io/gorm"
)

var ErrVideoNotFound = errors.New("视频不存在")

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

type VideoService struct {
	videoStore repository.VideoStore
	feedCache  *infraRedis.FeedCache // 可为 nil，降级直查 DB
}

func NewVideoService(videoStore repository.VideoStore, feedCache *infraRedis.FeedCache) *VideoService {
	return &VideoService{videoStore: videoStore, feedCache: feedCache}
}

// List 视频流，最新优先，limit/skip 分页，excludeID>0 时排除该视频（相关视频推荐）
func (s *VideoService) List(ctx context.Context, limit, skip int, excludeID int64) ([]dto.VideoInfo, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if skip < 0 {
		skip = 0
	}

	if data, ok := s.feedCache.Get(ctx, limit, skip, excludeID); ok {
		var items []dto.VideoInfo
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		logger.Warn("Corrupted feed cache entry, refetching from DB")
	}

	videos, err := s.videoStore.List(limit, skip, excludeID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i]))
	}

	if data, err := json.Marshal(items); err == nil {
		s.feedCache.Set(ctx, limit, skip, excludeID, data)
	}

	return items, nil
}

// Get 获取单个视频
func (s *VideoService) Get(id int64) (*dto.VideoInfo, error) {
	video, err := s.videoStore.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return toVideoInfo(video), nil
}

// AddView 播放量 +1，返回最新播放量
// 自增在存储层原子完成，并发调用不会丢失计数
func (s *VideoService) AddView(id int64) (int64, error) {
	views, err := s.videoStore.IncrementViews(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrVideoNotFound
		}
		return 0, err
	}
	return views, nil
}

// toVideoInfo 将 model.Video 转换为 dto.VideoInfo
func toVideoInfo(video *model.Video) *dto.VideoInfo {
	tags := video.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.VideoInfo{
		ID:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		Uploader:     video.Uploader,
		UploaderID:   video.UploaderID,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		Views:        video.Views,
		Tags:         tags,
		Category:     video.Category,
		CreatedAt:    video.CreatedAt,
	}
}
