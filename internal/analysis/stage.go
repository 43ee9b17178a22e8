// Package analysis 紧急度分析阶段
package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"feedback-pipeline/internal/envelope"
	"feedback-pipeline/internal/models"
	"feedback-pipeline/internal/transport"

	"go.uber.org/zap"
)

// Stage 分析阶段：消费入库事件，把 CRITICAL 的转发到告警主题
type Stage struct {
	publisher  transport.Publisher
	alertTopic string
	logger     *zap.Logger
}

// NewStage 创建分析阶段
func NewStage(publisher transport.Publisher, alertTopic string, logger *zap.Logger) *Stage {
	return &Stage{
		publisher:  publisher,
		alertTopic: alertTopic,
		logger:     logger,
	}
}

// HandleMessage 处理一条入库事件
// 告警发布失败只记日志不返回错误：记录已经落库，告警丢失不应触发
// 队列重投递风暴。
func (s *Stage) HandleMessage(ctx context.Context, payload string) error {
	var event models.FeedbackEvent
	result, err := envelope.Decode(payload, &event)
	if err != nil {
		return fmt.Errorf("failed to decode ingestion event: %w", err)
	}
	if result == envelope.Skipped {
		s.logger.Debug("Skipping non-event payload")
		return nil
	}

	if event.Status != models.UrgencyCritical {
		s.logger.Debug("Feedback is not critical, no alert",
			zap.Int64("feedback_id", event.ID),
			zap.Int("rating", event.Rating),
		)
		return nil
	}

	if s.alertTopic == "" {
		s.logger.Warn("Critical alert topic is not configured, skipping alert publish",
			zap.Int64("feedback_id", event.ID),
		)
		return nil
	}

	alertPayload, err := json.Marshal(&event)
	if err != nil {
		s.logger.Error("Failed to encode critical alert event",
			zap.Int64("feedback_id", event.ID),
			zap.Error(err),
		)
		return nil
	}

	if err := s.publisher.Publish(ctx, s.alertTopic, string(alertPayload)); err != nil {
		s.logger.Error("Failed to publish critical alert",
			zap.Int64("feedback_id", event.ID),
			zap.String("topic", s.alertTopic),
			zap.Error(err),
		)
		return nil
	}

	s.logger.Info("Critical alert published",
		zap.Int64("feedback_id", event.ID),
		zap.Int("rating", event.Rating),
		zap.String("topic", s.alertTopic),
	)

	return nil
}
