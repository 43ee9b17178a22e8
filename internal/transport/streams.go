// Package transport Redis Streams 消息传输
// 队列和主题统一建模为命名 Stream：队列用单消费者组消费，主题由
// 各自的消费者组扇出；发布方不感知差别。
package transport

import (
	"context"
	"time"

	"feedback-pipeline/internal/apperrors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Publisher 发布端接口（各阶段只依赖这个接口）
type Publisher interface {
	Publish(ctx context.Context, destination string, payload string) error
}

// StreamPublisher 基于 Redis Streams 的发布端
type StreamPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStreamPublisher 创建发布端
func NewStreamPublisher(client *redis.Client, logger *zap.Logger) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		logger: logger,
	}
}

// Publish 发布 JSON 载荷到指定 Stream
func (p *StreamPublisher) Publish(ctx context.Context, destination string, payload string) error {
	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: destination,
		Values: map[string]interface{}{
			"data":      payload,
			"timestamp": time.Now().Unix(),
		},
	}).Result()
	if err != nil {
		return &apperrors.TransportError{Destination: destination, Err: err}
	}

	p.logger.Debug("Message published",
		zap.String("stream", destination),
		zap.String("message_id", id),
	)

	return nil
}
