package classifier

import (
	"testing"

	"feedback-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestClassify_LowRatingsAreCritical(t *testing.T) {
	for rating := 0; rating <= 4; rating++ {
		assert.Equal(t, models.UrgencyCritical, Classify(intPtr(rating)), "rating %d", rating)
	}
}

func TestClassify_HighRatingsAreNormal(t *testing.T) {
	for rating := 5; rating <= 10; rating++ {
		assert.Equal(t, models.UrgencyNormal, Classify(intPtr(rating)), "rating %d", rating)
	}
}

func TestClassify_AbsentRatingIsNormal(t *testing.T) {
	assert.Equal(t, models.UrgencyNormal, Classify(nil))
}

func TestClassify_Idempotent(t *testing.T) {
	rating := intPtr(3)
	first := Classify(rating)
	second := Classify(rating)
	assert.Equal(t, first, second)
}

func TestBucketFor_RatingThresholds(t *testing.T) {
	tests := []struct {
		name     string
		status   models.Urgency
		rating   int
		expected models.Bucket
	}{
		{"rating 0 is high", models.UrgencyCritical, 0, models.BucketHigh},
		{"rating 2 is high", models.UrgencyCritical, 2, models.BucketHigh},
		{"rating 3 critical is still high", models.UrgencyCritical, 3, models.BucketHigh},
		{"rating 3 normal is medium", models.UrgencyNormal, 3, models.BucketMedium},
		{"rating 4 normal is medium", models.UrgencyNormal, 4, models.BucketMedium},
		{"rating 5 normal is low", models.UrgencyNormal, 5, models.BucketLow},
		{"rating 10 normal is low", models.UrgencyNormal, 10, models.BucketLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BucketFor(tt.status, tt.rating))
		})
	}
}

// critical flag wins over the rating-only thresholds even above 2
func TestBucketFor_CriticalFlagForcesHigh(t *testing.T) {
	assert.Equal(t, models.BucketHigh, BucketFor(models.UrgencyCritical, 9))
}

func TestBucketFor_Idempotent(t *testing.T) {
	first := BucketFor(models.UrgencyNormal, 4)
	second := BucketFor(models.UrgencyNormal, 4)
	assert.Equal(t, first, second)
}
