package domain

import "time"

// Ticket is a purchasable product for an event. Stock is the event's
// shared remaining-capacity pool, mirrored on every non-unlimited ticket
// of the same event, not a per-ticket-type counter.
type Ticket struct {
	ID             uint      `json:"id"`
	EventID        uint      `json:"event_id"`
	Name           string    `json:"name"`
	Price          int64     `json:"price"` // in öre
	Stock          int       `json:"stock"`
	UnlimitedStock bool      `json:"unlimited_stock"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
