package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Murari17/Clipverse-video/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler 处理视频上传事件的回调函数
type EventHandler func(event *VideoUploadedEvent) error

// StartVideoUploadedConsumer 启动视频上传事件消费者（阻塞，需在 goroutine 中运行）
// ctx 取消后会自动停止
func StartVideoUploadedConsumer(ctx context.Context, brokers []string, topic, groupID string, handler EventHandler) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka video uploaded consumer stopped")
	}()

	logger.Info("Kafka video uploaded consumer started",
		zap.String("topic", topic),
		zap.String("group", groupID),
	)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var event VideoUploadedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("Failed to unmarshal video uploaded event",
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		logger.Info("Received video uploaded event",
			zap.Int64("video_id", event.VideoID),
		)

		if err := handler(&event); err != nil {
			logger.Error("Failed to handle video uploaded event",
				zap.Int64("video_id", event.VideoID),
				zap.Error(err),
			)
		}
	}
}
