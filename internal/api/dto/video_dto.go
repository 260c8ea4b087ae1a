package dto

import "time"

// UploadVideoRequest 视频上传请求（multipart/form-data 文本字段）
// 所有字段可缺省，缺省值在 Service 层归一化
type UploadVideoRequest struct {
	Title       string `form:"title" binding:"omitempty,max=100"`
	Description string `form:"description" binding:"omitempty,max=1000"`
	Category    string `form:"category" binding:"omitempty,max=50"`
	Tags        string `form:"tags" binding:"omitempty,max=500"` // 逗号分隔
}

// VideoInfo 视频详情
type VideoInfo struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Uploader     string    `json:"uploader"`
	UploaderID   int64     `json:"uploader_id"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     int       `json:"duration"`
	Views        int64     `json:"views"`
	Tags         []string  `json:"tags"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
}

// ViewCountData 播放量更新响应
type ViewCountData struct {
	Views int64 `json:"views"`
}

// SearchVideoRequest 视频搜索请求
type SearchVideoRequest struct {
	Q        string `form:"q" binding:"required,min=1,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SearchVideoData 视频搜索响应数据
type SearchVideoData struct {
	Videos     []VideoInfo `json:"videos"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}
