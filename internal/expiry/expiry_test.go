package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

func mustEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(DefaultThresholds())
	require.NoError(t, err)
	return e
}

func datePtr(t time.Time) *time.Time { return &t }

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())

	err := Thresholds{Critical: 0, Warning: 30}.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))

	err = Thresholds{Critical: 31, Warning: 30}.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))

	_, err = NewEvaluator(Thresholds{Critical: -1, Warning: -1})
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := mustEvaluator(t)

	tests := []struct {
		name     string
		date     *time.Time
		expired  bool
		wantDays int
		wantBkt  Bucket
	}{
		{"no expiry date", nil, false, 0, BucketNone},
		{"five days out is critical", datePtr(now.AddDate(0, 0, 5)), false, 5, BucketCritical},
		{"exactly at critical threshold", datePtr(now.AddDate(0, 0, 7)), false, 7, BucketCritical},
		{"eight days out is warning", datePtr(now.AddDate(0, 0, 8)), false, 8, BucketWarning},
		{"exactly at warning threshold", datePtr(now.AddDate(0, 0, 30)), false, 30, BucketWarning},
		{"beyond warning is valid", datePtr(now.AddDate(0, 0, 31)), false, 31, BucketValid},
		{"past date is expired", datePtr(now.AddDate(0, 0, -1)), false, 0, BucketExpired},
		{"same instant is expired", datePtr(now), false, 0, BucketExpired},
		{"partial day rounds up", datePtr(now.Add(25 * time.Hour)), false, 2, BucketCritical},
		{"already expired status wins", datePtr(now.AddDate(0, 0, 10)), true, 10, BucketExpired},
		{"already expired without date", nil, true, 0, BucketExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := e.Classify(tt.date, tt.expired, now)
			assert.Equal(t, tt.wantDays, cls.DaysRemaining)
			assert.Equal(t, tt.wantBkt, cls.Bucket)
		})
	}
}

// Advancing the clock never increases the days remaining.
func TestClassifyMonotonic(t *testing.T) {
	e := mustEvaluator(t)
	expiry := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	prev := int(^uint(0) >> 1)
	for now := expiry.AddDate(0, 0, -40); now.Before(expiry.AddDate(0, 0, 2)); now = now.Add(12 * time.Hour) {
		cls := e.Classify(&expiry, false, now)
		assert.LessOrEqual(t, cls.DaysRemaining, prev)
		assert.GreaterOrEqual(t, cls.DaysRemaining, 0)
		prev = cls.DaysRemaining
	}
}

func TestIsExpiringSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := mustEvaluator(t)

	assert.False(t, e.IsExpiringSoon(nil, 30, now))
	assert.True(t, e.IsExpiringSoon(datePtr(now.AddDate(0, 0, 10)), 30, now))
	assert.False(t, e.IsExpiringSoon(datePtr(now.AddDate(0, 0, 31)), 30, now))
	// Already past never counts as expiring soon.
	assert.False(t, e.IsExpiringSoon(datePtr(now.AddDate(0, 0, -1)), 30, now))
}

func TestIsPast(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.False(t, IsPast(nil, now))
	assert.True(t, IsPast(datePtr(now.Add(-time.Minute)), now))
	assert.False(t, IsPast(datePtr(now.Add(time.Hour)), now))
}
