package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Murari17/Clipverse-video/internal/config"
	"github.com/Murari17/Clipverse-video/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// VideoUploadedEvent 视频上传完成事件消息体
// 元数据入库成功后发布，供搜索同步等下游消费
type VideoUploadedEvent struct {
	VideoID    int64     `json:"video_id"`
	UploaderID int64     `json:"uploader_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags,omitempty"`
	Duration   int       `json:"duration"`
	CreatedAt  time.Time `json:"created_at"`
}

// Producer Kafka 生产者
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return &Producer{
		writer: writer,
		topic:  cfg.Topics["video_uploaded"],
	}
}

// SendVideoUploaded 发布视频上传事件
func (p *Producer) SendVideoUploaded(ctx context.Context, event *VideoUploadedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal video uploaded event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(fmt.Sprintf("video-%d", event.VideoID)),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send video uploaded event: %w", err)
	}

	logger.Info("Video uploaded event sent",
		zap.Int64("video_id", event.VideoID),
		zap.String("topic", p.topic),
	)

	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
