package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendDoesNotMutateOriginal(t *testing.T) {
	now := time.Now()
	var h History
	h1 := h.Append(Entry{Status: "uploaded"}, now)
	h2 := h1.Append(Entry{Status: "pending"}, now.Add(time.Minute))

	assert.Len(t, h, 0)
	assert.Len(t, h1, 1)
	require.Len(t, h2, 2)
	assert.Equal(t, "uploaded", h2[0].Status)
	assert.Equal(t, "pending", h2[1].Status)
}

func TestAppendFillsZeroTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := History{}.Append(Entry{Status: "uploaded"}, now)
	assert.Equal(t, now, h[0].Timestamp)

	explicit := now.Add(-time.Hour)
	h = h.Append(Entry{Status: "pending", Timestamp: explicit}, now)
	assert.Equal(t, explicit, h[1].Timestamp)
}

func TestNewestOrdersByTimestampDescending(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := History{}.
		Append(Entry{Status: "uploaded"}, base).
		Append(Entry{Status: "pending"}, base.Add(time.Hour)).
		Append(Entry{Status: "underReview"}, base.Add(2*time.Hour))

	newest := h.Newest()
	require.Len(t, newest, 3)
	assert.Equal(t, "underReview", newest[0].Status)
	assert.Equal(t, "uploaded", newest[2].Status)

	// Original insertion order is untouched.
	assert.Equal(t, "uploaded", h[0].Status)
}

func TestNewestKeepsInsertionOrderOnTies(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := History{}.
		Append(Entry{Status: "first"}, now).
		Append(Entry{Status: "second"}, now)

	newest := h.Newest()
	assert.Equal(t, "first", newest[0].Status)
	assert.Equal(t, "second", newest[1].Status)
}

func TestLatest(t *testing.T) {
	_, ok := History{}.Latest()
	assert.False(t, ok)

	now := time.Now()
	h := History{}.Append(Entry{Status: "uploaded"}, now).Append(Entry{Status: "pending"}, now)
	last, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "pending", last.Status)
}
