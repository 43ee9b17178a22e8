package report

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingReportStore parks the first cycle inside CountAll until released,
// so a second trigger can arrive while the first is still in flight.
type blockingReportStore struct {
	fakeReportStore

	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingReportStore) CountAll(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	s.once.Do(func() { close(s.started) })
	<-s.release
	return s.fakeReportStore.CountAll(ctx)
}

func TestSchedulerRun_SkipsOverlappingTrigger(t *testing.T) {
	store := &blockingReportStore{
		fakeReportStore: fakeReportStore{count: 1, average: 5, records: nil},
		started:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	engine := NewEngine(store, zap.NewNop())
	publisher := NewPublisher(&fakeObjectStore{}, newFakeTransport(), "feedback:reports:stream", nil, zap.NewNop())
	svc := NewService(engine, publisher, zap.NewNop())

	scheduler, err := NewScheduler("@weekly", svc, zap.NewNop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		scheduler.run()
		close(done)
	}()
	<-store.started

	// Second trigger while the first cycle is still running must be a no-op.
	scheduler.run()
	assert.Equal(t, int32(1), store.calls.Load())

	close(store.release)
	<-done
	require.Equal(t, int32(1), store.calls.Load())

	// After the cycle finishes the guard resets and a new trigger runs.
	scheduler.run()
	assert.Equal(t, int32(2), store.calls.Load())
}
