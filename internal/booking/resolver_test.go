package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roomWithLedger(t *testing.T, slots ...[3]string) *Room {
	t.Helper()
	var l Ledger
	for _, s := range slots {
		require.NoError(t, l.Add(Entry{Interval: mustInterval(t, s[0], s[1], s[2]), HolderID: 1}))
	}
	return &Room{ID: 1, Code: "A101", Active: true, Ledger: l}
}

func TestResolverCheckLedger(t *testing.T) {
	var res Resolver
	room := roomWithLedger(t, [3]string{"2024-06-01", "09:00", "10:00"})

	assert.ErrorIs(t, res.CheckLedger(room, mustInterval(t, "2024-06-01", "09:30", "09:45")), ErrScheduleConflict)
	assert.NoError(t, res.CheckLedger(room, mustInterval(t, "2024-06-01", "10:00", "11:00")))
	assert.NoError(t, res.CheckLedger(room, mustInterval(t, "2024-06-02", "09:00", "10:00")))
}

func TestResolverCheckRequests(t *testing.T) {
	var res Resolver
	others := []Request{
		{ID: 1, Code: "BK00001", Status: StatusPending, Interval: mustInterval(t, "2024-06-01", "09:00", "10:00")},
		{ID: 2, Code: "BK00002", Status: StatusAccepted, Interval: mustInterval(t, "2024-06-01", "11:00", "12:00")},
		{ID: 3, Code: "BK00003", Status: StatusRejected, Interval: mustInterval(t, "2024-06-01", "13:00", "14:00")},
	}

	// Collides with a pending request.
	err := res.CheckRequests(mustInterval(t, "2024-06-01", "09:30", "09:45"), others, 0)
	assert.ErrorIs(t, err, ErrPendingConflict)

	// Collides with an accepted request.
	err = res.CheckRequests(mustInterval(t, "2024-06-01", "11:30", "11:45"), others, 0)
	assert.ErrorIs(t, err, ErrPendingConflict)

	// Rejected requests no longer block the slot.
	assert.NoError(t, res.CheckRequests(mustInterval(t, "2024-06-01", "13:00", "14:00"), others, 0))

	// A request never conflicts with itself during re-validation.
	assert.NoError(t, res.CheckRequests(mustInterval(t, "2024-06-01", "09:00", "10:00"), others, 1))
}

func TestResolverAdmissibleLedgerTakesPrecedence(t *testing.T) {
	var res Resolver
	room := roomWithLedger(t, [3]string{"2024-06-01", "09:00", "10:00"})
	others := []Request{
		{ID: 5, Code: "BK00005", Status: StatusPending, Interval: mustInterval(t, "2024-06-01", "09:00", "10:00")},
	}
	// Both the ledger and a pending request collide; the ledger wins.
	err := res.Admissible(room, others, mustInterval(t, "2024-06-01", "09:30", "09:45"))
	assert.ErrorIs(t, err, ErrScheduleConflict)
	assert.True(t, IsConflict(err))
}

func TestRoomIsAvailable(t *testing.T) {
	room := roomWithLedger(t, [3]string{"2024-06-01", "09:00", "10:00"})

	assert.False(t, RoomIsAvailable(room, mustInterval(t, "2024-06-01", "09:30", "10:30")))
	assert.True(t, RoomIsAvailable(room, mustInterval(t, "2024-06-01", "10:00", "11:00")))

	room.Active = false
	assert.False(t, RoomIsAvailable(room, mustInterval(t, "2024-06-01", "10:00", "11:00")))
}
