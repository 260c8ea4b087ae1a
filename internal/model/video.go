package model

import "time"

// Video 视频模型
// VideoURL/ThumbnailURL 为存储相对路径（/uploads/...），创建后仅 Views 会变化
type Video struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:视频标识" json:"id"`
	Title        string    `gorm:"size:100;not null;comment:视频标题" json:"title"`
	Description  string    `gorm:"size:1000;comment:视频描述" json:"description"`
	Uploader     string    `gorm:"size:30;not null;comment:上传者用户名" json:"uploader"`
	UploaderID   int64     `gorm:"not null;index:idx_uploader_id;comment:上传者ID" json:"uploader_id"`
	VideoURL     string    `gorm:"size:500;not null;comment:视频文件地址" json:"video_url"`
	ThumbnailURL string    `gorm:"size:500;not null;comment:缩略图地址" json:"thumbnail"`
	Duration     int       `gorm:"not null;default:0;comment:视频时长（秒，0 表示未知）" json:"duration"`
	Views        int64     `gorm:"not null;default:0;comment:播放量" json:"views"`
	Tags         []string  `gorm:"serializer:json;comment:标签列表" json:"tags"`
	Category     string    `gorm:"size:50;not null;default:'General';comment:分类" json:"category"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_videos_created_at;comment:上传时间" json:"created_at"`
}

func (Video) TableName() string {
	return "videos"
}
