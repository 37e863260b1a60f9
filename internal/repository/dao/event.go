package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrAlreadyParticipant = errors.New("user is already a participant")
	ErrEventSoldOut       = errors.New("event is already sold out")
	ErrNotParticipant     = errors.New("user is not a participant")
	ErrEventNotSoldOut    = errors.New("event is not sold out")
	ErrAlreadyReserved    = errors.New("user is already on the reserve list")
	ErrNotReserved        = errors.New("user is not on the reserve list")
)

type Event struct {
	ID              uint      `gorm:"primaryKey"`
	Title           string    `gorm:"not null"`
	Description     string
	Location        string
	StartsAt        time.Time `gorm:"not null;index"`
	EndsAt          time.Time `gorm:"not null"`
	MaxParticipants int       `gorm:"not null"`
	HostID          uint      `gorm:"not null;index"`
	Tickets         []Ticket  `gorm:"foreignKey:EventID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Ticket struct {
	ID             uint   `gorm:"primaryKey"`
	EventID        uint   `gorm:"not null;index"`
	Name           string `gorm:"not null"`
	Price          int64  `gorm:"not null"` // in öre
	Stock          int    `gorm:"not null;default:0"`
	UnlimitedStock bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type EventParticipant struct {
	ID        uint `gorm:"primaryKey"`
	TicketID  uint `gorm:"not null;uniqueIndex:idx_participant_ticket_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_participant_ticket_user"`
	CreatedAt time.Time
}

type EventReserve struct {
	ID            uint      `gorm:"primaryKey"`
	EventID       uint      `gorm:"not null;uniqueIndex:idx_reserve_event_user"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_reserve_event_user"`
	QueueingSince time.Time `gorm:"not null;index"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).Preload("Tickets").First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Preload("Tickets").Order("starts_at ASC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) InsertTicket(ctx context.Context, ticket Ticket) (Ticket, error) {
	result := d.db.WithContext(ctx).Create(&ticket)
	if result.Error != nil {
		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *EventDAO) FindTicketByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// AddParticipant runs the whole join as one transaction. The event row is
// locked FOR UPDATE so two users racing for the last slot are serialized;
// the loser observes the committed participant count and gets
// ErrEventSoldOut. Any pending reserve entry for the user is removed
// unconditionally, and the shared stock pool is decremented on every
// non-unlimited ticket of the event.
func (d *EventDAO) AddParticipant(ctx context.Context, ticketID, userID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket Ticket
		if err := tx.First(&ticket, ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}

			return err
		}

		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, ticket.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		count, existing, err := countParticipants(tx, event.ID, userID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyParticipant
		}
		if count >= int64(event.MaxParticipants) {
			return ErrEventSoldOut
		}

		// Unconditional; a missing reserve entry is fine.
		if err := tx.Where("event_id = ? AND user_id = ?", event.ID, userID).
			Delete(&EventReserve{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&Ticket{}).
			Where("event_id = ? AND unlimited_stock = ?", event.ID, false).
			UpdateColumn("stock", gorm.Expr("stock - 1")).Error; err != nil {
			return err
		}

		participant := EventParticipant{TicketID: ticketID, UserID: userID}
		if err := tx.Create(&participant).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrAlreadyParticipant
			}

			return err
		}

		return nil
	})
}

// RemoveParticipant deletes the user's participant row, returns the stock
// to every non-unlimited ticket of the event, and unassigns the user from
// all tasks whose window overlaps the event window. It returns the event
// so the caller can notify the reserve list after the commit.
func (d *EventDAO) RemoveParticipant(ctx context.Context, eventID, userID uint) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		var participant EventParticipant
		if err := tx.
			Joins("JOIN tickets ON tickets.id = event_participants.ticket_id").
			Where("tickets.event_id = ? AND event_participants.user_id = ?", eventID, userID).
			First(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipant
			}

			return err
		}

		if err := tx.Delete(&EventParticipant{}, participant.ID).Error; err != nil {
			return err
		}

		if err := tx.Model(&Ticket{}).
			Where("event_id = ? AND unlimited_stock = ?", eventID, false).
			UpdateColumn("stock", gorm.Expr("stock + 1")).Error; err != nil {
			return err
		}

		// A user leaving an event should not stay on the hook for
		// volunteer tasks happening during it.
		if err := tx.Model(&Task{}).
			Where("assignee_id = ? AND starts_at < ? AND ends_at > ?",
				userID, event.EndsAt, event.StartsAt).
			Update("assignee_id", nil).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindParticipantsByEventID(ctx context.Context, eventID uint) ([]EventParticipant, error) {
	var participants []EventParticipant

	result := d.db.WithContext(ctx).
		Joins("JOIN tickets ON tickets.id = event_participants.ticket_id").
		Where("tickets.event_id = ?", eventID).
		Order("event_participants.created_at ASC").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

func (d *EventDAO) CountParticipants(ctx context.Context, eventID uint) (int64, error) {
	count, _, err := countParticipants(d.db.WithContext(ctx), eventID, 0)

	return count, err
}

// AddReserve appends the user to the event's FIFO reserve list. Joining
// the reserve list is only allowed once the event is sold out, and only
// when the user holds neither a participant slot nor a reserve entry.
func (d *EventDAO) AddReserve(ctx context.Context, eventID, userID uint) (EventReserve, error) {
	var reserve EventReserve

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		count, existing, err := countParticipants(tx, eventID, userID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyParticipant
		}
		if count < int64(event.MaxParticipants) {
			return ErrEventNotSoldOut
		}

		reserve = EventReserve{
			EventID:       eventID,
			UserID:        userID,
			QueueingSince: time.Now().UTC(),
		}
		if err := tx.Create(&reserve).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrAlreadyReserved
			}

			return err
		}

		return nil
	})
	if err != nil {
		return EventReserve{}, err
	}

	return reserve, nil
}

func (d *EventDAO) DeleteReserve(ctx context.Context, eventID, userID uint) error {
	return d.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&EventReserve{}).Error
}

// FindReservesByEventID returns the reserve list in promotion order,
// queueing_since ascending.
func (d *EventDAO) FindReservesByEventID(ctx context.Context, eventID uint) ([]EventReserve, error) {
	var reserves []EventReserve

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("queueing_since ASC").
		Find(&reserves)
	if result.Error != nil {
		return nil, result.Error
	}

	return reserves, nil
}

// countParticipants counts active participants across all tickets of the
// event; ticket types share one capacity pool. When userID is non-zero it
// also reports how many of those rows belong to that user.
func countParticipants(tx *gorm.DB, eventID, userID uint) (total, mine int64, err error) {
	base := tx.Model(&EventParticipant{}).
		Joins("JOIN tickets ON tickets.id = event_participants.ticket_id").
		Where("tickets.event_id = ?", eventID)

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}

	if userID != 0 {
		if err = base.Session(&gorm.Session{}).
			Where("event_participants.user_id = ?", userID).
			Count(&mine).Error; err != nil {
			return 0, 0, err
		}
	}

	return total, mine, nil
}
