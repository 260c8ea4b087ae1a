package handler

import (
	"errors"
	"strconv"

	"github.com/Murari17/Clipverse-video/internal/api/dto"
	"github.com/Murari17/Clipverse-video/internal/api/response"
	"github.com/Murari17/Clipverse-video/internal/service"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// List GET /videos?limit&skip&exclude
func (h *VideoHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))

	// exclude 解析失败视为未提供
	var excludeID int64
	if v := c.Query("exclude"); v != "" {
		excludeID, _ = strconv.ParseInt(v, 10, 64)
	}

	items, err := h.videoService.List(c.Request.Context(), limit, skip, excludeID)
	if err != nil {
		logger.Error("List videos failed", zap.Error(err))
		response.InternalError(c, "获取视频列表失败")
		return
	}

	response.OK(c, "获取视频列表成功", items)
}

// Get GET /videos/:id
func (h *VideoHandler) Get(c *gin.Context) {
	// 非法 ID 与不存在的记录同样返回 404
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, service.ErrVideoNotFound.Error())
		return
	}

	info, err := h.videoService.Get(videoID)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "获取视频成功", info)
}

// AddView POST /videos/:id/view
func (h *VideoHandler) AddView(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, service.ErrVideoNotFound.Error())
		return
	}

	views, err := h.videoService.AddView(videoID)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "播放量已更新", dto.ViewCountData{Views: views})
}

func handleVideoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Video operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
