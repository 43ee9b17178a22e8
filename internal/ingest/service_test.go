package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"feedback-pipeline/internal/apperrors"
	"feedback-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore assigns ids in memory
type fakeStore struct {
	saved  []*models.FeedbackRecord
	nextID int64
	err    error
}

func (s *fakeStore) Save(ctx context.Context, record *models.FeedbackRecord) (*models.FeedbackRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	record.ID = s.nextID
	s.saved = append(s.saved, record)
	return record, nil
}

type fakePublisher struct {
	published map[string][]string
	err       error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(map[string][]string)}
}

func (p *fakePublisher) Publish(ctx context.Context, destination string, payload string) error {
	if p.err != nil {
		return p.err
	}
	p.published[destination] = append(p.published[destination], payload)
	return nil
}

func intPtr(v int) *int { return &v }

func TestSubmit_PersistsAndPublishes(t *testing.T) {
	store := &fakeStore{}
	publisher := newFakePublisher()
	svc := NewService(store, publisher, "feedback:events:stream", zap.NewNop())

	record, err := svc.Submit(context.Background(), "checkout is broken", intPtr(2))

	require.NoError(t, err)
	assert.Equal(t, int64(1), record.ID)
	assert.Equal(t, models.UrgencyCritical, record.Status)
	require.NotNil(t, record.CreatedAt)
	assert.Equal(t, *record.CreatedAt, *record.UpdatedAt)

	payloads := publisher.published["feedback:events:stream"]
	require.Len(t, payloads, 1)

	var event models.FeedbackEvent
	require.NoError(t, json.Unmarshal([]byte(payloads[0]), &event))
	assert.Equal(t, int64(1), event.ID)
	assert.Equal(t, models.UrgencyCritical, event.Status)
	assert.Equal(t, "checkout is broken", event.Description)
}

func TestSubmit_RatingTwoIsCriticalOnTheWire(t *testing.T) {
	store := &fakeStore{}
	publisher := newFakePublisher()
	svc := NewService(store, publisher, "feedback:events:stream", zap.NewNop())

	_, err := svc.Submit(context.Background(), "bad", intPtr(2))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(publisher.published["feedback:events:stream"][0]), &raw))
	assert.Equal(t, "CRITICAL", raw["status"])
}

func TestSubmit_MissingRating(t *testing.T) {
	svc := NewService(&fakeStore{}, newFakePublisher(), "feedback:events:stream", zap.NewNop())

	_, err := svc.Submit(context.Background(), "no rating", nil)

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "rating", validationErr.Field)
}

func TestSubmit_RatingOutOfRange(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, newFakePublisher(), "feedback:events:stream", zap.NewNop())

	for _, rating := range []int{-1, 11} {
		_, err := svc.Submit(context.Background(), "x", intPtr(rating))
		var validationErr *apperrors.ValidationError
		require.ErrorAs(t, err, &validationErr, "rating %d", rating)
	}
	// nothing persisted on validation failure
	assert.Empty(t, store.saved)
}

func TestSubmit_EmptyDescriptionAllowed(t *testing.T) {
	svc := NewService(&fakeStore{}, newFakePublisher(), "feedback:events:stream", zap.NewNop())

	record, err := svc.Submit(context.Background(), "", intPtr(8))

	require.NoError(t, err)
	assert.Equal(t, models.UrgencyNormal, record.Status)
}

func TestSubmit_MissingQueueDestination(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, newFakePublisher(), "", zap.NewNop())

	_, err := svc.Submit(context.Background(), "x", intPtr(5))

	var configErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	// fails fast, nothing persisted
	assert.Empty(t, store.saved)
}

func TestSubmit_PublishFailureKeepsRecord(t *testing.T) {
	store := &fakeStore{}
	publisher := newFakePublisher()
	publisher.err = errors.New("stream unavailable")
	svc := NewService(store, publisher, "feedback:events:stream", zap.NewNop())

	_, err := svc.Submit(context.Background(), "x", intPtr(1))

	require.Error(t, err)
	// record stays persisted, no compensating rollback
	require.Len(t, store.saved, 1)
	assert.Equal(t, int64(1), store.saved[0].ID)
}

func TestSubmit_SaveFailurePropagates(t *testing.T) {
	store := &fakeStore{err: &apperrors.DataAccessError{Op: "save feedback", Err: errors.New("down")}}
	publisher := newFakePublisher()
	svc := NewService(store, publisher, "feedback:events:stream", zap.NewNop())

	_, err := svc.Submit(context.Background(), "x", intPtr(1))

	var dataErr *apperrors.DataAccessError
	require.ErrorAs(t, err, &dataErr)
	// nothing published after a failed save
	assert.Empty(t, publisher.published)
}
