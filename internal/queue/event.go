// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingDecidedEvent is published when an admin accepts or rejects a
// booking request. It carries enough context for downstream consumers to
// log or notify without querying the primary database.
type BookingDecidedEvent struct {
	BookingCode string `json:"booking_code"`
	RequesterID uint64 `json:"requester_id"`
	RoomID      uint64 `json:"room_id"`
	RoomCode    string `json:"room_code"`
	RoomName    string `json:"room_name"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	AdminNote   string `json:"admin_note,omitempty"`
	DecidedAt   string `json:"decided_at"`
}
