package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateNewsletterRequest struct {
	Subject      string   `json:"subject"`
	HTML         string   `json:"html"`
	Recipients   []string `json:"recipients"`
	BatchSize    int      `json:"batch_size"`
	PerRecipient bool     `json:"per_recipient"`
}

func (req *CreateNewsletterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.HTML, validation.Required),
		validation.Field(&req.Recipients, validation.Required, validation.Each(is.Email)),
		validation.Field(&req.BatchSize, validation.Min(0)),
	)
}

// ProcessNewsletterRequest names a specific job to run. Without a job id
// the dispatcher picks the oldest pending or running job on its own.
type ProcessNewsletterRequest struct {
	JobID *uint `json:"job_id"`
}

func (req *ProcessNewsletterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.JobID, validation.Min(uint(1))),
	)
}
