package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Murari17/Clipverse-video/internal/api/dto"
	infraKafka "github.com/Murari17/Clipverse-video/internal/infra/kafka"
	infraRedis "github.com/Murari17/Clipverse-video/internal/infra/redis"
	"github.com/Murari17/Clipverse-video/internal/model"
	"github.com/Murari17/Clipverse-video/internal/repository"
	"github.com/Murari17/Clipverse-video/internal/storage"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoFileRequired = errors.New("缺少视频文件")
	ErrThumbnailRequired = errors.New("缺少缩略图文件")
)

// 归一化缺省值
const (
	defaultTitle    = "Untitled Video"
	defaultCategory = "Other"
)

// DurationProber 视频时长探测接口，探测失败返回 0 而非错误
type DurationProber interface {
	Duration(ctx context.Context, videoPath string) int
}

// UploadService 上传编排：文件落盘、时长探测、元数据入库串成一次逻辑操作
// 入库失败时尽力删除已写入的文件；探测失败不中断上传
type UploadService struct {
	videoStore repository.VideoStore
	userStore  repository.UserStore
	storage    *storage.LocalStorage
	prober     DurationProber
	producer   *infraKafka.Producer  // 可为 nil
	feedCache  *infraRedis.FeedCache // 可为 nil
}

func NewUploadService(
	videoStore repository.VideoStore,
	userStore repository.UserStore,
	store *storage.LocalStorage,
	prober DurationProber,
	producer *infraKafka.Producer,
	feedCache *infraRedis.FeedCache,
) *UploadService {
	return &UploadService{
		videoStore: videoStore,
		userStore:  userStore,
		storage:    store,
		prober:     prober,
		producer:   producer,
		feedCache:  feedCache,
	}
}

// SubmitVideo 提交一个视频上传
// 两个文件 part 都通过校验之前不写任何文件；缩略图缺失时不会用占位图建记录
func (s *UploadService) SubmitVideo(
	ctx context.Context,
	userID int64,
	req *dto.UploadVideoRequest,
	videoFile, thumbFile *multipart.FileHeader,
) (*dto.VideoInfo, error) {
	uploader, err := s.userStore.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if videoFile == nil {
		return nil, ErrVideoFileRequired
	}
	if thumbFile == nil {
		return nil, ErrThumbnailRequired
	}

	// 先校验两个 part，再落盘，保证被拒绝的请求零文件写入
	if err := s.storage.ValidateUpload(videoFile, storage.FieldVideo); err != nil {
		return nil, err
	}
	if err := s.storage.ValidateUpload(thumbFile, storage.FieldThumbnail); err != nil {
		return nil, err
	}

	storedVideo, err := s.storage.SaveUpload(videoFile, storage.FieldVideo)
	if err != nil {
		return nil, err
	}

	storedThumb, err := s.storage.SaveUpload(thumbFile, storage.FieldThumbnail)
	if err != nil {
		s.storage.Remove(storedVideo)
		return nil, err
	}

	// 探测失败降级为时长 0，不中断上传
	duration := s.prober.Duration(ctx, storedVideo.Path)

	video := &model.Video{
		Title:        normalizeTitle(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Uploader:     uploader.Username,
		UploaderID:   uploader.ID,
		VideoURL:     storedVideo.URL,
		ThumbnailURL: storedThumb.URL,
		Duration:     duration,
		Category:     normalizeCategory(req.Category),
		Tags:         NormalizeTags(req.Tags),
	}

	if err := s.videoStore.Create(video); err != nil {
		// 元数据入库失败：尽力删除两个已写入的文件，删除失败只记日志
		s.storage.Remove(storedVideo)
		s.storage.Remove(storedThumb)
		return nil, err
	}

	logger.Info("Video uploaded",
		zap.Int64("video_id", video.ID),
		zap.Int64("uploader_id", uploader.ID),
		zap.String("title", video.Title),
		zap.Int("duration", video.Duration),
	)

	s.feedCache.Invalidate(ctx)
	s.publishUploaded(ctx, video)

	return toVideoInfo(video), nil
}

// publishUploaded 发布上传事件（尽力而为，失败不影响上传结果）
func (s *UploadService) publishUploaded(ctx context.Context, video *model.Video) {
	if s.producer == nil {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event := &infraKafka.VideoUploadedEvent{
		VideoID:    video.ID,
		UploaderID: video.UploaderID,
		Title:      video.Title,
		Category:   video.Category,
		Tags:       video.Tags,
		Duration:   video.Duration,
		CreatedAt:  video.CreatedAt,
	}
	if err := s.producer.SendVideoUploaded(sendCtx, event); err != nil {
		logger.Warn("Publish video uploaded event failed",
			zap.Int64("video_id", video.ID),
			zap.Error(err),
		)
	}
}

// NormalizeTags 将逗号分隔的标签串切分为有序标签集
// 每段去首尾空白，纯空白的段被丢弃
func NormalizeTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func normalizeTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return defaultTitle
}

func normalizeCategory(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c
	}
	return defaultCategory
}
