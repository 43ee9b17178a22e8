package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"feedback-pipeline/internal/apperrors"
	"feedback-pipeline/internal/models"
	"feedback-pipeline/internal/transport"

	"go.uber.org/zap"
)

// ObjectStore 发布器需要的对象存储能力
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Bucket() string
}

// Announcer 可选的广播镜像（如 MQTT 桥），失败只记日志
type Announcer interface {
	Announce(payload []byte) error
}

// Publisher 报表发布器：上传文档并广播完成事件
type Publisher struct {
	store     ObjectStore
	publisher transport.Publisher
	topic     string
	announcer Announcer
	logger    *zap.Logger
}

// NewPublisher 创建报表发布器（announcer 可为 nil）
func NewPublisher(store ObjectStore, publisher transport.Publisher, topic string, announcer Announcer, logger *zap.Logger) *Publisher {
	return &Publisher{
		store:     store,
		publisher: publisher,
		topic:     topic,
		announcer: announcer,
		logger:    logger,
	}
}

// Publish 上传报表并发布完成事件
// 上传失败在任何 announce 之前终止整个周期；完成事件发布失败同样
// 让周期整体失败，不做内部重试。
func (p *Publisher) Publish(ctx context.Context, document []byte, key, contentType string, metrics *models.ReportMetrics, generatedAt time.Time) error {
	if p.topic == "" {
		return &apperrors.ConfigurationError{Key: "STREAM_REPORT_READY"}
	}

	location, err := p.store.Put(ctx, key, document, contentType)
	if err != nil {
		return err
	}

	event := &models.ReportReadyEvent{
		EventType:      "WEEKLY_REPORT_GENERATED",
		Message:        "Relatório semanal de feedbacks disponível",
		ReportLink:     location,
		BucketName:     p.store.Bucket(),
		S3Key:          key,
		TotalFeedbacks: metrics.TotalCount,
		AverageScore:   metrics.AverageRating,
		GeneratedAt:    generatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode report ready event: %w", err)
	}

	if err := p.publisher.Publish(ctx, p.topic, string(payload)); err != nil {
		return err
	}

	p.logger.Info("Report published",
		zap.String("key", key),
		zap.String("location", location),
		zap.Int64("total_feedbacks", metrics.TotalCount),
	)

	if p.announcer != nil {
		if err := p.announcer.Announce(payload); err != nil {
			p.logger.Warn("Failed to mirror report ready event to broadcast bridge", zap.Error(err))
		}
	}

	return nil
}
