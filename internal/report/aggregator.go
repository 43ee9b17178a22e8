// Package report 周报聚合与发布
package report

import (
	"context"
	"math"

	"feedback-pipeline/internal/classifier"
	"feedback-pipeline/internal/models"

	"go.uber.org/zap"
)

// Store 聚合引擎需要的查询能力
type Store interface {
	CountAll(ctx context.Context) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
	FindAllForReport(ctx context.Context) ([]*models.FeedbackRecord, error)
}

// Engine 聚合引擎：一次读取、一次计算，整体成功或整体失败
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine 创建聚合引擎
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
	}
}

// ComputeMetrics 计算报表指标
// 无创建时间的记录不进入按天分组；任一查询失败整体失败，不返回部分指标
func (e *Engine) ComputeMetrics(ctx context.Context) (*models.ReportMetrics, error) {
	total, err := e.store.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	average, err := e.store.AverageRating(ctx)
	if err != nil {
		return nil, err
	}

	records, err := e.store.FindAllForReport(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &models.ReportMetrics{
		TotalCount:    total,
		AverageRating: roundHalfUp(average),
		CountByDay:    make(map[string]int),
		CountByBucket: make(map[models.Bucket]int),
		Details:       make([]models.DetailRow, 0, len(records)),
	}

	for _, record := range records {
		bucket := classifier.BucketFor(record.Status, record.Rating)
		metrics.CountByBucket[bucket]++

		var createdAt string
		if record.CreatedAt != nil {
			metrics.CountByDay[record.CreatedAt.UTC().Format("2006-01-02")]++
			createdAt = record.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
		}

		metrics.Details = append(metrics.Details, models.DetailRow{
			Description: record.Description,
			Bucket:      bucket,
			CreatedAt:   createdAt,
		})
	}

	e.logger.Info("Report metrics computed",
		zap.Int64("total", metrics.TotalCount),
		zap.Float64("average", metrics.AverageRating),
		zap.Int("days", len(metrics.CountByDay)),
	)

	return metrics, nil
}

// roundHalfUp 四舍五入保留两位小数
func roundHalfUp(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
