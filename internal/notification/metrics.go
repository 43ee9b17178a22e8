package notification

import "sync/atomic"

// MetricsSink 通知阶段指标接收器
// 构造时注入，阶段通过显式调用计数，不使用进程级单例
type MetricsSink interface {
	IncAlertsReceived()
	IncEmailsSent()
	IncEmailsFailed()
	IncBypassed()
}

// CounterSink 进程内计数实现
type CounterSink struct {
	alertsReceived atomic.Int64
	emailsSent     atomic.Int64
	emailsFailed   atomic.Int64
	bypassed       atomic.Int64
}

func NewCounterSink() *CounterSink { return &CounterSink{} }

func (s *CounterSink) IncAlertsReceived() { s.alertsReceived.Add(1) }
func (s *CounterSink) IncEmailsSent()     { s.emailsSent.Add(1) }
func (s *CounterSink) IncEmailsFailed()   { s.emailsFailed.Add(1) }
func (s *CounterSink) IncBypassed()       { s.bypassed.Add(1) }

func (s *CounterSink) AlertsReceived() int64 { return s.alertsReceived.Load() }
func (s *CounterSink) EmailsSent() int64     { return s.emailsSent.Load() }
func (s *CounterSink) EmailsFailed() int64   { return s.emailsFailed.Load() }
func (s *CounterSink) Bypassed() int64       { return s.bypassed.Load() }

// NopSink 空实现
type NopSink struct{}

func (NopSink) IncAlertsReceived() {}
func (NopSink) IncEmailsSent()     {}
func (NopSink) IncEmailsFailed()   {}
func (NopSink) IncBypassed()       {}
