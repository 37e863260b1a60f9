package domain

import "time"

type EventParticipant struct {
	ID        uint      `json:"id"`
	TicketID  uint      `json:"ticket_id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EventReserve is a FIFO waitlist entry. Entries are ordered by
// QueueingSince ascending; the order is advisory only and never reserves
// a slot.
type EventReserve struct {
	ID            uint      `json:"id"`
	EventID       uint      `json:"event_id"`
	UserID        uint      `json:"user_id"`
	QueueingSince time.Time `json:"queueing_since"`
}
