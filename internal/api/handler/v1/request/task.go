package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errTaskEndsBeforeStart = errors.New("the task must end after it starts")

type CreateTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

func (req *CreateTaskRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.EndsAt, validation.Required),
	)
	if err != nil {
		return err
	}

	if !req.EndsAt.After(req.StartsAt) {
		return errTaskEndsBeforeStart
	}

	return nil
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

func (req *UpdateTaskStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In("to_do", "in_progress", "done")),
	)
}
