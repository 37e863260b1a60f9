package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errEventEndsBeforeStart = errors.New("the event must end after it starts")

type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	MaxParticipants int       `json:"max_participants"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Location, validation.Length(0, 200)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.EndsAt, validation.Required),
		validation.Field(&req.MaxParticipants, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if !req.EndsAt.After(req.StartsAt) {
		return errEventEndsBeforeStart
	}

	return nil
}

type CreateTicketRequest struct {
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	Stock          int    `json:"stock"`
	UnlimitedStock bool   `json:"unlimited_stock"`
}

func (req *CreateTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Price, validation.Min(int64(0))),
		validation.Field(&req.Stock, validation.Min(0)),
	)
}
