package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Handler 消息处理函数
// 返回错误时消息不确认，留在 pending 列表等待传输层重投递
type Handler func(ctx context.Context, payload string) error

// Consumer Stream 消费者（每个阶段一个实例）
type Consumer struct {
	client    *redis.Client
	stream    string
	group     string
	name      string
	batchSize int64
	handler   Handler
	logger    *zap.Logger
}

// NewConsumer 创建消费者
func NewConsumer(
	client *redis.Client,
	stream string,
	group string,
	name string,
	batchSize int64,
	handler Handler,
	logger *zap.Logger,
) *Consumer {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Consumer{
		client:    client,
		stream:    stream,
		group:     group,
		name:      name,
		batchSize: batchSize,
		handler:   handler,
		logger:    logger,
	}
}

// Start 启动消费循环，阻塞直到 ctx 取消
func (c *Consumer) Start(ctx context.Context) error {
	result, err := EnsureGroup(ctx, c.client, c.stream, c.group)
	if err != nil {
		return fmt.Errorf("failed to ensure consumer group for %s: %w", c.stream, err)
	}

	c.logger.Info("Stream consumer started",
		zap.String("stream", c.stream),
		zap.String("consumer_group", c.group),
		zap.String("consumer_name", c.name),
		zap.String("group_provisioning", result.String()),
	)

	backoffDuration := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.consumeBatch(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error("Failed to consume stream",
					zap.String("stream", c.stream),
					zap.Error(err),
					zap.Duration("backoff", backoffDuration),
				)

				// 指数退避，等待后重试
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(backoffDuration):
					backoffDuration *= 2
					if backoffDuration > maxBackoff {
						backoffDuration = maxBackoff
					}
				}
			} else {
				backoffDuration = time.Second
			}
		}
	}
}

// consumeBatch 读取并处理一批消息
func (c *Consumer) consumeBatch(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, ">"},
		Count:    c.batchSize,
		Block:    time.Second * 5,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to read from stream %s: %w", c.stream, err)
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			payload, _ := msg.Values["data"].(string)

			if err := c.handler(ctx, payload); err != nil {
				c.logger.Error("Failed to process message",
					zap.String("stream", c.stream),
					zap.String("message_id", msg.ID),
					zap.Error(err),
				)
				// 不 ack，等待重投递；继续处理下一条
				continue
			}

			if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
				c.logger.Warn("Failed to ack message",
					zap.String("stream", c.stream),
					zap.String("message_id", msg.ID),
					zap.Error(err),
				)
			}
		}
	}

	return nil
}
