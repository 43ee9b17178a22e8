package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"feedback-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

func criticalEventPayload(t *testing.T) string {
	t.Helper()
	payload, err := json.Marshal(&models.FeedbackEvent{
		ID:          7,
		Description: "app crashes on login",
		Rating:      1,
		Status:      models.UrgencyCritical,
	})
	require.NoError(t, err)
	return string(payload)
}

func TestHandleMessage_CriticalRepublishesAlert(t *testing.T) {
	publisher := newFakePublisher()
	stage := NewStage(publisher, "feedback:critical:stream", zap.NewNop())

	err := stage.HandleMessage(context.Background(), criticalEventPayload(t))

	require.NoError(t, err)
	alerts := publisher.published["feedback:critical:stream"]
	require.Len(t, alerts, 1)

	var alert models.FeedbackEvent
	require.NoError(t, json.Unmarshal([]byte(alerts[0]), &alert))
	assert.Equal(t, int64(7), alert.ID)
	assert.Equal(t, models.UrgencyCritical, alert.Status)
}

func TestHandleMessage_NormalProducesNoAlert(t *testing.T) {
	publisher := newFakePublisher()
	stage := NewStage(publisher, "feedback:critical:stream", zap.NewNop())

	payload, err := json.Marshal(&models.FeedbackEvent{ID: 8, Rating: 9, Status: models.UrgencyNormal})
	require.NoError(t, err)

	require.NoError(t, stage.HandleMessage(context.Background(), string(payload)))
	assert.Empty(t, publisher.published)
}

func TestHandleMessage_EnvelopedEvent(t *testing.T) {
	publisher := newFakePublisher()
	stage := NewStage(publisher, "feedback:critical:stream", zap.NewNop())

	wrapped, err := json.Marshal(map[string]string{"Message": criticalEventPayload(t)})
	require.NoError(t, err)

	require.NoError(t, stage.HandleMessage(context.Background(), string(wrapped)))
	assert.Len(t, publisher.published["feedback:critical:stream"], 1)
}

func TestHandleMessage_PublishFailureIsSwallowed(t *testing.T) {
	publisher := newFakePublisher()
	publisher.err = errors.New("topic unavailable")
	stage := NewStage(publisher, "feedback:critical:stream", zap.NewNop())

	// record is already durable, alert loss must not fail the consume
	err := stage.HandleMessage(context.Background(), criticalEventPayload(t))
	require.NoError(t, err)
}

func TestHandleMessage_MissingTopicSkipsPublish(t *testing.T) {
	publisher := newFakePublisher()
	stage := NewStage(publisher, "", zap.NewNop())

	require.NoError(t, stage.HandleMessage(context.Background(), criticalEventPayload(t)))
	assert.Empty(t, publisher.published)
}

func TestHandleMessage_NonEventPayloadIsNoOp(t *testing.T) {
	publisher := newFakePublisher()
	stage := NewStage(publisher, "feedback:critical:stream", zap.NewNop())

	require.NoError(t, stage.HandleMessage(context.Background(), "healthcheck probe"))
	assert.Empty(t, publisher.published)
}

func TestHandleMessage_MalformedJSONFailsConsume(t *testing.T) {
	publisher := newFakePublisher()
	stage := NewStage(publisher, "feedback:critical:stream", zap.NewNop())

	err := stage.HandleMessage(context.Background(), "{invalid")
	require.Error(t, err)
}
