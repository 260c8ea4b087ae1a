package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Murari17/Clipverse-video/internal/api/dto"
	infraES "github.com/Murari17/Clipverse-video/internal/infra/elasticsearch"
	"github.com/Murari17/Clipverse-video/internal/model"
	"github.com/Murari17/Clipverse-video/internal/repository"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"go.uber.org/zap"
)

// SearchService 视频全文检索，ES 优先，失败时降级到数据库模糊匹配
type SearchService struct {
	videoStore repository.VideoStore
	es         *infraES.Client // 可为 nil，此时只走 DB
}

func NewSearchService(videoStore repository.VideoStore, es *infraES.Client) *SearchService {
	return &SearchService{videoStore: videoStore, es: es}
}

// SearchVideos 搜索视频，覆盖标题、描述、标签
func (s *SearchService) SearchVideos(req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	if s.es != nil {
		data, err := s.searchFromES(req)
		if err == nil {
			return data, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}

	return s.searchFromDB(req)
}

// SyncVideo 将单个视频同步进 ES 索引（上传事件消费者调用）
func (s *SearchService) SyncVideo(videoID int64) error {
	if s.es == nil {
		return nil
	}

	video, err := s.videoStore.GetByID(videoID)
	if err != nil {
		return fmt.Errorf("load video %d for index sync: %w", videoID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.es.IndexVideo(ctx, video)
}

func (s *SearchService) searchFromES(req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	query := buildESQuery(req)
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.es.Search(ctx, bytes.NewReader(queryJSON))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	videoIDs := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		videoIDs = append(videoIDs, h.Source.ID)
	}

	total := esResp.Hits.Total.Value
	if len(videoIDs) == 0 {
		return buildSearchData(nil, total, req.Page, req.PageSize), nil
	}

	// ES 只回 ID，完整记录从 DB 回填并保持 ES 排序
	videos, err := s.videoStore.GetByIDs(videoIDs)
	if err != nil {
		return nil, err
	}

	videoMap := make(map[int64]*model.Video, len(videos))
	for i := range videos {
		videoMap[videos[i].ID] = &videos[i]
	}

	ordered := make([]model.Video, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := videoMap[id]; ok {
			ordered = append(ordered, *v)
		}
	}

	return buildSearchData(ordered, total, req.Page, req.PageSize), nil
}

func (s *SearchService) searchFromDB(req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	skip := (req.Page - 1) * req.PageSize
	videos, total, err := s.videoStore.Search(strings.TrimSpace(req.Q), req.PageSize, skip)
	if err != nil {
		return nil, err
	}
	return buildSearchData(videos, total, req.Page, req.PageSize), nil
}

func buildESQuery(req *dto.SearchVideoRequest) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    strings.TrimSpace(req.Q),
				"fields":   []string{"title^3", "tags^2", "description"},
				"type":     "best_fields",
				"operator": "or",
			},
		},
		"_source": []string{"id"},
		"from":    (req.Page - 1) * req.PageSize,
		"size":    req.PageSize,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
		},
	}
}

func buildSearchData(videos []model.Video, total int64, page, pageSize int) *dto.SearchVideoData {
	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i]))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	return &dto.SearchVideoData{
		Videos:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
