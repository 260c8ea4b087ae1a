package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Murari17/Clipverse-video/pkg/logger"

	"go.uber.org/zap"
)

// videosIndexMapping 视频索引 mapping，全文检索覆盖标题、描述、标签
const videosIndexMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"uploader_id": {"type": "long"},
			"uploader": {"type": "keyword"},
			"title": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 100}}
			},
			"description": {"type": "text"},
			"tags": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 50}}
			},
			"category": {"type": "keyword"},
			"views": {"type": "long"},
			"duration": {"type": "integer"},
			"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// EnsureIndex 确保视频索引存在，不存在则创建（启动时调用）
func (c *Client) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := c.es.Indices.Exists(
		[]string{c.index},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if !resp.IsError() && resp.StatusCode == 200 {
		logger.Info("Elasticsearch videos index already exists", zap.String("index", c.index))
		return nil
	}

	createResp, err := c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(videosIndexMapping))),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer createResp.Body.Close()

	if createResp.IsError() {
		return fmt.Errorf("create index failed: %s", createResp.String())
	}

	logger.Info("Elasticsearch videos index created", zap.String("index", c.index))
	return nil
}
