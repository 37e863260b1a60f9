package domain

import "time"

type Event struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	MaxParticipants int       `json:"max_participants"`
	HostID          uint      `json:"host_id"`
	Tickets         []Ticket  `json:"tickets,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Overlaps reports whether the half-open window [start, end) intersects
// the event's own time window.
func (e Event) Overlaps(start, end time.Time) bool {
	return start.Before(e.EndsAt) && end.After(e.StartsAt)
}
