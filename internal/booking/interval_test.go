package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntervalValidation(t *testing.T) {
	cases := []struct {
		name  string
		date  string
		start string
		end   string
		ok    bool
	}{
		{"valid", "2024-06-01", "09:00", "10:00", true},
		{"one minute", "2024-06-01", "09:00", "09:01", true},
		{"end equals start", "2024-06-01", "09:00", "09:00", false},
		{"end before start", "2024-06-01", "10:00", "09:00", false},
		{"bad date", "2024-13-01", "09:00", "10:00", false},
		{"bad date form", "01.06.2024", "09:00", "10:00", false},
		{"bad clock", "2024-06-01", "9:00", "10:00", false},
		{"clock out of range", "2024-06-01", "09:00", "24:00", false},
		{"garbage clock", "2024-06-01", "ab:cd", "10:00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			iv, err := NewInterval(tc.date, tc.start, tc.end)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidInterval)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.date, iv.Date)
			assert.Equal(t, tc.start, iv.Start())
			assert.Equal(t, tc.end, iv.End())
		})
	}
}

func mustInterval(t *testing.T, date, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(date, start, end)
	require.NoError(t, err)
	return iv
}

func TestIntervalOverlapBoundaries(t *testing.T) {
	base := mustInterval(t, "2024-06-01", "09:00", "10:00")

	// Back-to-back ranges share a boundary but do not overlap.
	assert.False(t, base.Overlaps(mustInterval(t, "2024-06-01", "10:00", "11:00")))
	assert.False(t, base.Overlaps(mustInterval(t, "2024-06-01", "08:00", "09:00")))

	// One-minute intrusion on either side does overlap.
	assert.True(t, base.Overlaps(mustInterval(t, "2024-06-01", "09:59", "10:01")))
	assert.True(t, base.Overlaps(mustInterval(t, "2024-06-01", "08:30", "09:01")))

	// Containment and identity.
	assert.True(t, base.Overlaps(mustInterval(t, "2024-06-01", "09:15", "09:45")))
	assert.True(t, base.Overlaps(mustInterval(t, "2024-06-01", "08:00", "12:00")))
	assert.True(t, base.Overlaps(base))

	// Same clock range on another date never collides.
	assert.False(t, base.Overlaps(mustInterval(t, "2024-06-02", "09:00", "10:00")))
}

func TestIntervalOverlapIsSymmetric(t *testing.T) {
	a := mustInterval(t, "2024-06-01", "09:00", "10:00")
	b := mustInterval(t, "2024-06-01", "09:30", "11:00")
	assert.Equal(t, a.Overlaps(b), b.Overlaps(a))
}

func TestIntervalString(t *testing.T) {
	iv := mustInterval(t, "2024-06-01", "09:05", "10:30")
	assert.Equal(t, "2024-06-01 09:05-10:30", iv.String())
}
