package report

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler 按 cron 表达式触发报表周期
type Scheduler struct {
	cron    *cron.Cron
	svc     *Service
	logger  *zap.Logger
	running atomic.Bool
}

// NewScheduler 创建调度器
func NewScheduler(expr string, svc *Service, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{
		cron:   c,
		svc:    svc,
		logger: logger,
	}
	if _, err := c.AddFunc(expr, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

func (s *Scheduler) run() {
	// 上一轮还在跑就跳过本次触发
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Info("Report cycle already in flight, skipping trigger")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.svc.Run(ctx); err != nil {
		s.logger.Error("Report cycle failed", zap.Error(err))
	}
}
