package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Murari17/Clipverse-video/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const feedVersionKey = "feed:ver"

// FeedCache 视频流列表缓存
// 采用版本号失效：新视频入库时递增版本号，旧版本键等 TTL 自然过期，
// 无需 SCAN 删除。client 为 nil 时所有方法退化为未命中/空操作
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache 创建视频流缓存，client 可为 nil（Redis 不可用时降级直查 DB）
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

// Get 按查询参数取缓存的 JSON 列表，未命中返回 found=false
func (c *FeedCache) Get(ctx context.Context, limit, skip int, exclude int64) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	key, err := c.pageKey(ctx, limit, skip, exclude)
	if err != nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Feed cache get failed", zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// Set 写入一页视频流缓存
func (c *FeedCache) Set(ctx context.Context, limit, skip int, exclude int64, data []byte) {
	if c == nil || c.client == nil {
		return
	}

	key, err := c.pageKey(ctx, limit, skip, exclude)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("Feed cache set failed", zap.Error(err))
	}
}

// Invalidate 使全部视频流缓存失效（新视频入库后调用，尽力而为）
func (c *FeedCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Incr(ctx, feedVersionKey).Err(); err != nil {
		logger.Warn("Feed cache invalidate failed", zap.Error(err))
	}
}

func (c *FeedCache) pageKey(ctx context.Context, limit, skip int, exclude int64) (string, error) {
	ver, err := c.client.Get(ctx, feedVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("feed:v%d:l%d:s%d:x%d", ver, limit, skip, exclude), nil
}
