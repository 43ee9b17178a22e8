package report

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Service 报表周期编排：聚合 → 渲染 → 上传 → 广播
type Service struct {
	engine    *Engine
	publisher *Publisher
	logger    *zap.Logger
}

// NewService 创建报表服务
func NewService(engine *Engine, publisher *Publisher, logger *zap.Logger) *Service {
	return &Service{
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// Run 执行一次完整的报表周期
// 任一步失败整轮失败，返回单个终止错误，由触发方（调度器）决定重试
func (s *Service) Run(ctx context.Context) error {
	generatedAt := time.Now().UTC()

	metrics, err := s.engine.ComputeMetrics(ctx)
	if err != nil {
		return err
	}

	document, key, contentType := Render(metrics, generatedAt)

	if err := s.publisher.Publish(ctx, document, key, contentType, metrics, generatedAt); err != nil {
		return err
	}

	s.logger.Info("Report cycle completed",
		zap.String("key", key),
		zap.Int64("total_feedbacks", metrics.TotalCount),
	)

	return nil
}
