package domain

import "time"

type NewsletterStatus string

const (
	NewsletterPending NewsletterStatus = "pending"
	NewsletterRunning NewsletterStatus = "running"
	NewsletterFailed  NewsletterStatus = "failed"
)

const (
	MinNewsletterBatchSize = 1
	MaxNewsletterBatchSize = 250
)

// NewsletterJob tracks a batched send. Recipients is an immutable
// snapshot taken at creation; Cursor only ever advances. Completed jobs
// are deleted, not retained, so there is no "completed" status.
type NewsletterJob struct {
	ID           uint             `json:"id"`
	Subject      string           `json:"subject"`
	HTML         string           `json:"html"`
	Recipients   []string         `json:"recipients"`
	BatchSize    int              `json:"batch_size"`
	Cursor       int              `json:"cursor"`
	Status       NewsletterStatus `json:"status"`
	PerRecipient bool             `json:"per_recipient"`
	LastRunAt    *time.Time       `json:"last_run_at,omitempty"`
	LastError    string           `json:"last_error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (j NewsletterJob) Total() int {
	return len(j.Recipients)
}

func (j NewsletterJob) Done() bool {
	return j.Cursor >= len(j.Recipients)
}
