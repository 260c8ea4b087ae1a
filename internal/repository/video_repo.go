package repository

import (
	"strings"

	"github.com/Murari17/Clipverse-video/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create 创建视频记录
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// GetByID 根据 ID 获取视频
func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDs 批量查询视频（搜索结果回填用）
func (r *VideoRepository) GetByIDs(ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.Where("id IN ?", ids).Find(&videos).Error
	return videos, err
}

// List 视频列表查询，最新优先，可排除一个 ID（相关视频推荐用）
func (r *VideoRepository) List(limit, skip int, excludeID int64) ([]model.Video, error) {
	query := r.db.Model(&model.Video{})
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}

	var videos []model.Video
	err := query.Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// IncrementViews 播放量 +1（存储层原子自增，避免并发丢失更新）并返回最新值
func (r *VideoRepository) IncrementViews(id int64) (int64, error) {
	result := r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var views int64
	if err := r.db.Model(&model.Video{}).Where("id = ?", id).
		Pluck("views", &views).Error; err != nil {
		return 0, err
	}
	return views, nil
}

// Search 数据库全文检索降级路径，匹配标题、描述、标签
func (r *VideoRepository) Search(q string, limit, skip int) ([]model.Video, int64, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	query := r.db.Model(&model.Video{}).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?", pattern, pattern, pattern).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var videos []model.Video
	if err := query.Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&videos).Error; err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}
