package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Murari17/Clipverse-video/internal/api/handler"
	"github.com/Murari17/Clipverse-video/internal/api/middleware"
	"github.com/Murari17/Clipverse-video/internal/api/router"
	"github.com/Murari17/Clipverse-video/internal/config"
	"github.com/Murari17/Clipverse-video/internal/infra/database"
	infraES "github.com/Murari17/Clipverse-video/internal/infra/elasticsearch"
	infraKafka "github.com/Murari17/Clipverse-video/internal/infra/kafka"
	infraRedis "github.com/Murari17/Clipverse-video/internal/infra/redis"
	"github.com/Murari17/Clipverse-video/internal/model"
	"github.com/Murari17/Clipverse-video/internal/probe"
	"github.com/Murari17/Clipverse-video/internal/repository"
	"github.com/Murari17/Clipverse-video/internal/service"
	"github.com/Murari17/Clipverse-video/internal/storage"
	"github.com/Murari17/Clipverse-video/pkg/logger"
	"github.com/Murari17/Clipverse-video/pkg/utils"

	_ "github.com/Murari17/Clipverse-video/api/openapi"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Clipverse API
// @version 1.0
// @description 视频分享平台 API 服务

// @contact.name API Support
// @contact.email support@clipverse.com

// @host 127.0.0.1:5000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}

func main() {
	// 加载配置文件
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close(db)

	// 自动迁移数据库表
	if err := database.AutoMigrate(
		db,
		&model.User{},
		&model.Video{},
	); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化本地文件存储
	store, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.MaxUploadSize)
	if err != nil {
		logger.Fatal("Failed to init local storage", zap.Error(err))
	}

	// 初始化Redis（可选，失败则视频流缓存降级为直查 DB）
	var feedCache *infraRedis.FeedCache
	redisClient, err := infraRedis.New(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis init failed, feed cache disabled", zap.Error(err))
	} else {
		defer infraRedis.Close(redisClient)
		feedCache = infraRedis.NewFeedCache(redisClient, cfg.Redis.FeedTTLDuration())
	}

	// 初始化Kafka生产者（异步事件，发送失败不影响上传）
	producer := infraKafka.NewProducer(&cfg.Kafka)
	defer producer.Close()

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	var esClient *infraES.Client
	esClient, err = infraES.New(&cfg.Elasticsearch)
	if err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
		esClient = nil
	} else {
		ensureCtx, ensureCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := esClient.EnsureIndex(ensureCtx); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
		ensureCancel()
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 创建Gin路由器（不使用默认中间件）
	r := gin.New()

	// 使用自定义中间件
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// 初始化依赖（Repository -> Service -> Handler）
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	tokens := utils.NewTokenMaker(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.ExpireDuration())
	prober := probe.NewProber(&cfg.Probe)

	authService := service.NewAuthService(userRepo, tokens)
	videoService := service.NewVideoService(videoRepo, feedCache)
	uploadService := service.NewUploadService(videoRepo, userRepo, store, prober, producer, feedCache)
	searchService := service.NewSearchService(videoRepo, esClient)

	// 启动上传事件消费者（后台 goroutine，同步 ES 索引）
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	if topic, ok := cfg.Kafka.Topics["video_uploaded"]; ok && esClient != nil {
		eventHandler := func(event *infraKafka.VideoUploadedEvent) error {
			return searchService.SyncVideo(event.VideoID)
		}
		go infraKafka.StartVideoUploadedConsumer(
			consumerCtx,
			cfg.Kafka.Brokers,
			topic,
			"clipverse-video-uploaded",
			eventHandler,
		)
	}

	authHandler := handler.NewAuthHandler(authService)
	videoHandler := handler.NewVideoHandler(videoService)
	uploadHandler := handler.NewUploadHandler(uploadService, store)
	searchHandler := handler.NewSearchHandler(searchService)

	// 注册基础路由
	r.GET("/health", healthCheckHandler(cfg))
	r.GET("/", rootHandler(cfg))

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 上传目录静态挂载（与专用文件读取接口并存）
	r.Static("/uploads", cfg.Storage.UploadDir)

	// 注册业务路由
	router.Setup(r, authHandler, videoHandler, uploadHandler, searchHandler, middleware.AuthRequired(tokens))

	// 启动服务器
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("upload_dir", cfg.Storage.UploadDir),
	)

	// 启动HTTP服务器
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Debug("Health check requested", zap.String("ip", c.ClientIP()))

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"message":   "Service is healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mode":      cfg.App.Mode,
		})
	}
}

// rootHandler 根路径处理器
func rootHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
			"project": cfg.App.Name,
			"version": cfg.App.Version,
			"mode":    cfg.App.Mode,
			"docs":    fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.App.Port),
		})
	}
}
