package router

import (
	"github.com/Murari17/Clipverse-video/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
// authRequired 为 JWT 认证中间件，上传与读取接口均要求登录
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	videoHandler *handler.VideoHandler,
	uploadHandler *handler.UploadHandler,
	searchHandler *handler.SearchHandler,
	authRequired gin.HandlerFunc,
) {
	// --- 认证模块 ---
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.Google)

		auth.GET("/verify", authRequired, authHandler.Verify)
	}

	// --- 视频模块 ---
	videos := r.Group("/videos", authRequired)
	{
		videos.GET("", videoHandler.List)
		videos.GET("/search", searchHandler.Search)
		videos.GET("/:id", videoHandler.Get)
		videos.POST("/:id/view", videoHandler.AddView)
	}

	// --- 上传模块 ---
	upload := r.Group("/upload")
	{
		upload.POST("/video", authRequired, uploadHandler.Upload)

		// 文件读取接口不要求登录，与静态挂载行为一致
		upload.GET("/video/:filename", uploadHandler.GetVideoFile)
		upload.GET("/thumbnail/:filename", uploadHandler.GetThumbnailFile)
	}
}
