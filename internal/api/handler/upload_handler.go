package handler

import (
	"errors"
	"mime/multipart"

	"github.com/Murari17/Clipverse-video/internal/api/dto"
	"github.com/Murari17/Clipverse-video/internal/api/middleware"
	"github.com/Murari17/Clipverse-video/internal/api/response"
	"github.com/Murari17/Clipverse-video/internal/service"
	"github.com/Murari17/Clipverse-video/internal/storage"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadHandler struct {
	uploadService *service.UploadService
	storage       *storage.LocalStorage
}

func NewUploadHandler(uploadService *service.UploadService, store *storage.LocalStorage) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, storage: store}
}

// Upload POST /upload/video
// multipart 字段：video（必填）、thumbnail（必填）、title、description、category、tags
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "缺少认证信息")
		return
	}

	var req dto.UploadVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	videoFile := formFile(c, storage.FieldVideo)
	thumbFile := formFile(c, storage.FieldThumbnail)

	info, err := h.uploadService.SubmitVideo(c.Request.Context(), userID, &req, videoFile, thumbFile)
	if err != nil {
		handleUploadError(c, err)
		return
	}

	response.Created(c, "视频上传成功", gin.H{"video": info})
}

// GetVideoFile GET /upload/video/:filename
func (h *UploadHandler) GetVideoFile(c *gin.Context) {
	path, err := h.storage.ResolveVideo(c.Param("filename"))
	if err != nil {
		response.NotFound(c, "视频文件不存在")
		return
	}
	c.File(path)
}

// GetThumbnailFile GET /upload/thumbnail/:filename
func (h *UploadHandler) GetThumbnailFile(c *gin.Context) {
	path, err := h.storage.ResolveThumbnail(c.Param("filename"))
	if err != nil {
		response.NotFound(c, "缩略图文件不存在")
		return
	}
	c.File(path)
}

// formFile 取一个 multipart 文件 part，缺失时返回 nil（由 Service 层判定必填）
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

func handleUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoFileRequired),
		errors.Is(err, service.ErrThumbnailRequired),
		errors.Is(err, storage.ErrNotVideo),
		errors.Is(err, storage.ErrNotImage),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrUnknownField):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.Unauthorized(c, err.Error())
	default:
		logger.Error("Upload video failed", zap.Error(err))
		response.InternalError(c, "上传视频失败，请稍后重试")
	}
}
