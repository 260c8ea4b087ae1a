package handler

import (
	"github.com/Murari17/Clipverse-video/internal/api/dto"
	"github.com/Murari17/Clipverse-video/internal/api/response"
	"github.com/Murari17/Clipverse-video/internal/service"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search GET /videos/search?q&page&page_size
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchVideoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.searchService.SearchVideos(&req)
	if err != nil {
		logger.Error("Search videos failed", zap.Error(err), zap.String("q", req.Q))
		response.InternalError(c, "搜索失败，请稍后重试")
		return
	}

	response.OK(c, "搜索成功", data)
}
