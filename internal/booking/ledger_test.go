package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAddRejectsOverlap(t *testing.T) {
	var l Ledger
	require.NoError(t, l.Add(Entry{Interval: mustInterval(t, "2024-06-01", "09:00", "10:00"), HolderID: 7}))

	err := l.Add(Entry{Interval: mustInterval(t, "2024-06-01", "09:30", "09:45"), HolderID: 8})
	assert.ErrorIs(t, err, ErrScheduleConflict)
	assert.Equal(t, 1, l.Len())

	// Adjacent slot is admitted under the half-open rule.
	require.NoError(t, l.Add(Entry{Interval: mustInterval(t, "2024-06-01", "10:00", "11:00"), HolderID: 8}))
	assert.Equal(t, 2, l.Len())
}

func TestLedgerInvariantNoPairOverlaps(t *testing.T) {
	var l Ledger
	slots := [][2]string{{"09:00", "10:00"}, {"10:00", "10:30"}, {"11:00", "12:00"}, {"08:00", "09:00"}}
	for _, s := range slots {
		require.NoError(t, l.Add(Entry{Interval: mustInterval(t, "2024-06-01", s[0], s[1]), HolderID: 1}))
	}
	entries := l.Entries()
	for i := range entries {
		for j := range entries {
			if i == j {
				continue
			}
			assert.False(t, entries[i].Interval.Overlaps(entries[j].Interval),
				"entries %s and %s overlap", entries[i].Interval, entries[j].Interval)
		}
	}
}

func TestLedgerRemoveMatchesAllFourFields(t *testing.T) {
	var l Ledger
	require.NoError(t, l.Add(Entry{Interval: mustInterval(t, "2024-06-01", "09:00", "10:00"), HolderID: 7}))

	// Wrong holder, wrong date, wrong bounds: all misses, all silent.
	assert.False(t, l.Remove("2024-06-01", "09:00", "10:00", 8))
	assert.False(t, l.Remove("2024-06-02", "09:00", "10:00", 7))
	assert.False(t, l.Remove("2024-06-01", "09:00", "10:30", 7))
	assert.Equal(t, 1, l.Len())

	assert.True(t, l.Remove("2024-06-01", "09:00", "10:00", 7))
	assert.Equal(t, 0, l.Len())

	// Removing again is an idempotent no-op.
	assert.False(t, l.Remove("2024-06-01", "09:00", "10:00", 7))
}

func TestLedgerEntriesReturnsCopy(t *testing.T) {
	var l Ledger
	require.NoError(t, l.Add(Entry{Interval: mustInterval(t, "2024-06-01", "09:00", "10:00"), HolderID: 7}))
	got := l.Entries()
	got[0].HolderID = 99
	assert.Equal(t, uint64(7), l.Entries()[0].HolderID)
}

func TestLedgerConflictsAfterRemove(t *testing.T) {
	var l Ledger
	iv := mustInterval(t, "2024-06-01", "09:00", "10:00")
	require.NoError(t, l.Add(Entry{Interval: iv, HolderID: 7}))
	assert.True(t, l.Conflicts(mustInterval(t, "2024-06-01", "09:30", "09:45")))

	l.Remove("2024-06-01", "09:00", "10:00", 7)
	assert.False(t, l.Conflicts(mustInterval(t, "2024-06-01", "09:30", "09:45")))
}
