package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/mailer"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository"
)

var (
	ErrNewsletterJobNotFound = repository.ErrNewsletterJobNotFound
	ErrNoPendingJobs         = repository.ErrNoPendingJobs
	ErrMailRateLimited       = mailer.ErrRateLimited
	ErrNoRecipients          = errors.New("newsletter has no recipients")
)

type NewsletterRepository interface {
	Create(ctx context.Context, job domain.NewsletterJob) (domain.NewsletterJob, error)
	FindByID(ctx context.Context, id uint) (domain.NewsletterJob, error)
	FindOldestActive(ctx context.Context) (domain.NewsletterJob, error)
	AdvanceCursor(ctx context.Context, id uint, cursor int) error
	MarkFailed(ctx context.Context, id uint, message string) error
	Delete(ctx context.Context, id uint) error
}

type BatchMailer interface {
	SendBatch(subject, html string, recipients []string, perRecipient bool) error
}

// BatchResult reports one dispatcher invocation: the half-open recipient
// range [Start, End) that was sent, or Processed == 0 when the job was
// already complete.
type BatchResult struct {
	JobID     uint `json:"jobId"`
	Processed int  `json:"processed"`
	Start     int  `json:"start"`
	End       int  `json:"end"`
	Total     int  `json:"total"`
	Done      bool `json:"done"`
}

type NewsletterService struct {
	repo             NewsletterRepository
	mailer           BatchMailer
	defaultBatchSize int
}

func NewNewsletterService(repo NewsletterRepository, mailer BatchMailer, defaultBatchSize int) *NewsletterService {
	return &NewsletterService{
		repo:             repo,
		mailer:           mailer,
		defaultBatchSize: defaultBatchSize,
	}
}

// CreateJob snapshots the recipient list (deduplicated, empty entries
// dropped) and persists a pending job. The snapshot is immutable from
// here on; only the cursor advances.
func (s *NewsletterService) CreateJob(ctx context.Context, subject, html string, recipients []string, batchSize int, perRecipient bool) (domain.NewsletterJob, error) {
	snapshot := dedupeRecipients(recipients)
	if len(snapshot) == 0 {
		return domain.NewsletterJob{}, ErrNoRecipients
	}

	if batchSize == 0 {
		batchSize = s.defaultBatchSize
	}
	if batchSize < domain.MinNewsletterBatchSize {
		batchSize = domain.MinNewsletterBatchSize
	}
	if batchSize > domain.MaxNewsletterBatchSize {
		batchSize = domain.MaxNewsletterBatchSize
	}

	job := domain.NewsletterJob{
		Subject:      subject,
		HTML:         html,
		Recipients:   snapshot,
		BatchSize:    batchSize,
		Status:       domain.NewsletterPending,
		PerRecipient: perRecipient,
	}

	created, err := s.repo.Create(ctx, job)
	if err != nil {
		return domain.NewsletterJob{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// ProcessNext runs exactly one batch. With a jobID the named job is
// processed regardless of status, which is how a failed job is retried;
// without one the oldest pending/running job is picked. Exactly one
// outbound send happens per invocation, so catching up after scheduler
// downtime takes one invocation per outstanding batch.
//
// A rate-limited send leaves the job completely untouched: the same
// slice is retried on the next trigger (at-least-once delivery for that
// batch). Any other send error marks the job failed and parks it until
// an explicit retry by id.
func (s *NewsletterService) ProcessNext(ctx context.Context, jobID *uint) (BatchResult, error) {
	var (
		job domain.NewsletterJob
		err error
	)

	if jobID != nil {
		job, err = s.repo.FindByID(ctx, *jobID)
	} else {
		job, err = s.repo.FindOldestActive(ctx)
	}
	if err != nil {
		return BatchResult{}, err
	}

	total := job.Total()

	if job.Done() {
		if err = s.repo.Delete(ctx, job.ID); err != nil {
			return BatchResult{}, fmt.Errorf("s.repo.Delete -> %w", err)
		}

		return BatchResult{
			JobID: job.ID,
			Start: job.Cursor,
			End:   job.Cursor,
			Total: total,
			Done:  true,
		}, nil
	}

	end := job.Cursor + job.BatchSize
	if end > total {
		end = total
	}
	slice := job.Recipients[job.Cursor:end]

	if err = s.mailer.SendBatch(job.Subject, job.HTML, slice, job.PerRecipient); err != nil {
		if errors.Is(err, mailer.ErrRateLimited) {
			// Leave cursor and status untouched; the same batch is
			// retried on the next trigger.
			zap.L().Warn("newsletter batch rate limited",
				zap.Uint("job_id", job.ID),
				zap.Int("cursor", job.Cursor))

			return BatchResult{}, err
		}

		if markErr := s.repo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			zap.L().Error("failed to mark newsletter job failed",
				zap.Uint("job_id", job.ID), zap.Error(markErr))
		}

		return BatchResult{}, fmt.Errorf("s.mailer.SendBatch -> %w", err)
	}

	result := BatchResult{
		JobID:     job.ID,
		Processed: end - job.Cursor,
		Start:     job.Cursor,
		End:       end,
		Total:     total,
		Done:      end >= total,
	}

	if result.Done {
		if err = s.repo.Delete(ctx, job.ID); err != nil {
			return BatchResult{}, fmt.Errorf("s.repo.Delete -> %w", err)
		}

		return result, nil
	}

	if err = s.repo.AdvanceCursor(ctx, job.ID, end); err != nil {
		return BatchResult{}, fmt.Errorf("s.repo.AdvanceCursor -> %w", err)
	}

	return result, nil
}

func dedupeRecipients(recipients []string) []string {
	seen := make(map[string]struct{}, len(recipients))
	out := make([]string, 0, len(recipients))

	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			continue
		}
		if _, ok := seen[recipient]; ok {
			continue
		}
		seen[recipient] = struct{}{}
		out = append(out, recipient)
	}

	return out
}
