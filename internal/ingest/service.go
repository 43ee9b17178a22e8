// Package ingest 反馈接收阶段
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"feedback-pipeline/internal/apperrors"
	"feedback-pipeline/internal/classifier"
	"feedback-pipeline/internal/models"
	"feedback-pipeline/internal/transport"

	"go.uber.org/zap"
)

// RecordStore 接收阶段需要的持久化能力
type RecordStore interface {
	Save(ctx context.Context, record *models.FeedbackRecord) (*models.FeedbackRecord, error)
}

// Service 反馈接收服务
type Service struct {
	store       RecordStore
	publisher   transport.Publisher
	queueStream string
	logger      *zap.Logger
}

// NewService 创建接收服务
func NewService(store RecordStore, publisher transport.Publisher, queueStream string, logger *zap.Logger) *Service {
	return &Service{
		store:       store,
		publisher:   publisher,
		queueStream: queueStream,
		logger:      logger,
	}
}

// Submit 校验并持久化一条反馈，然后把入库事件发布到队列
// 持久化和发布是两次独立 I/O：发布失败时记录保留在库里，错误向上传播，
// 不做补偿回滚（接受这一不一致窗口，由外部对账）。
func (s *Service) Submit(ctx context.Context, description string, rating *int) (*models.FeedbackRecord, error) {
	if rating == nil {
		return nil, &apperrors.ValidationError{Field: "rating", Reason: "rating is required"}
	}
	if *rating < 0 || *rating > 10 {
		return nil, &apperrors.ValidationError{Field: "rating", Reason: fmt.Sprintf("rating must be between 0 and 10, got %d", *rating)}
	}
	if s.queueStream == "" {
		return nil, &apperrors.ConfigurationError{Key: "STREAM_FEEDBACK_QUEUE"}
	}

	now := time.Now().UTC()
	record := &models.FeedbackRecord{
		Description: description,
		Rating:      *rating,
		Status:      classifier.Classify(rating),
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	saved, err := s.store.Save(ctx, record)
	if err != nil {
		return nil, err
	}

	event := models.NewFeedbackEvent(saved)
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ingestion event: %w", err)
	}

	if err := s.publisher.Publish(ctx, s.queueStream, string(payload)); err != nil {
		s.logger.Warn("Feedback persisted but ingestion event not published",
			zap.Int64("feedback_id", saved.ID),
			zap.String("stream", s.queueStream),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Feedback submitted",
		zap.Int64("feedback_id", saved.ID),
		zap.Int("rating", saved.Rating),
		zap.String("status", string(saved.Status)),
	)

	return saved, nil
}
