package station

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goasterix/internal/asterix"
)

// TestTracker_Observe tests first sighting and counting
func TestTracker_Observe(t *testing.T) {
	tracker := NewTracker(time.Minute, nil)
	src := asterix.DataSource{SAC: 25, SIC: 12}
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, tracker.Observe(34, src, t0))
	assert.False(t, tracker.Observe(34, src, t0.Add(time.Second)))
	assert.True(t, tracker.Observe(21, src, t0), "same source in another category is a new station")

	stations := tracker.Stations()
	require.Len(t, stations, 2)
	assert.Equal(t, uint8(21), stations[0].Category)
	assert.Equal(t, Station{
		Category:  34,
		Source:    src,
		FirstSeen: t0,
		LastSeen:  t0.Add(time.Second),
		Records:   2,
	}, stations[1])
	assert.Equal(t, 2, tracker.Len())
}

// TestTracker_Order tests station ordering
func TestTracker_Order(t *testing.T) {
	tracker := NewTracker(0, nil)
	now := time.Now()

	tracker.Observe(34, asterix.DataSource{SAC: 2, SIC: 1}, now)
	tracker.Observe(34, asterix.DataSource{SAC: 1, SIC: 9}, now)
	tracker.Observe(34, asterix.DataSource{SAC: 1, SIC: 3}, now)

	var got []string
	for _, st := range tracker.Stations() {
		got = append(got, st.Source.String())
	}
	assert.Equal(t, []string{"1/3", "1/9", "2/1"}, got)
}

// TestTracker_Expiry tests that silent stations are forgotten
func TestTracker_Expiry(t *testing.T) {
	tracker := NewTracker(50*time.Millisecond, nil)
	src := asterix.DataSource{SAC: 1, SIC: 1}

	assert.True(t, tracker.Observe(21, src, time.Now()))
	time.Sleep(120 * time.Millisecond)

	assert.Empty(t, tracker.Stations())
	assert.True(t, tracker.Observe(21, src, time.Now()))
}
