package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Murari17/Clipverse-video/internal/config"
	"github.com/Murari17/Clipverse-video/internal/model"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// Client Elasticsearch 客户端，持有视频索引名
type Client struct {
	es    *elasticsearch.Client
	index string
}

// New 建立 Elasticsearch 连接
func New(cfg *config.ElasticsearchConfig) (*Client, error) {
	hosts := make([]string, 0, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		h = strings.TrimSpace(h)
		if h != "" && !strings.HasPrefix(h, "http") {
			h = "http://" + h
		}
		hosts = append(hosts, h)
	}

	if len(hosts) == 0 {
		return nil, fmt.Errorf("elasticsearch hosts is empty")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     hosts,
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    3,
		RetryBackoff:  func(i int) time.Duration { return time.Duration(i) * time.Second },
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("elasticsearch ping failed: %s", resp.String())
	}

	logger.Info("Elasticsearch connected", zap.Strings("hosts", hosts))
	return &Client{es: es, index: cfg.VideosIndex()}, nil
}

// Search 在视频索引上执行搜索（body 为查询 JSON）
func (c *Client) Search(ctx context.Context, body io.Reader) (*esapi.Response, error) {
	return c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(body),
	)
}

// videoDocument 视频索引文档
type videoDocument struct {
	ID          int64    `json:"id"`
	UploaderID  int64    `json:"uploader_id"`
	Uploader    string   `json:"uploader"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Views       int64    `json:"views"`
	Duration    int      `json:"duration"`
	CreatedAt   int64    `json:"created_at"`
}

// IndexVideo 写入/覆盖单个视频文档
func (c *Client) IndexVideo(ctx context.Context, video *model.Video) error {
	doc := videoDocument{
		ID:          video.ID,
		UploaderID:  video.UploaderID,
		Uploader:    video.Uploader,
		Title:       video.Title,
		Description: video.Description,
		Tags:        video.Tags,
		Category:    video.Category,
		Views:       video.Views,
		Duration:    video.Duration,
		CreatedAt:   video.CreatedAt.UnixMilli(),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal video document: %w", err)
	}

	resp, err := c.es.Index(
		c.index,
		bytes.NewReader(payload),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(strconv.FormatInt(video.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("index video %d: %w", video.ID, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index video %d failed: %s", video.ID, resp.String())
	}
	return nil
}
