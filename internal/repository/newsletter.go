package repository

import (
	"context"
	"fmt"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository/dao"
)

var (
	ErrNewsletterJobNotFound = dao.ErrNewsletterJobNotFound
	ErrNoPendingJobs         = dao.ErrNoPendingJobs
)

type NewsletterDAO interface {
	Insert(ctx context.Context, job dao.NewsletterJob) (dao.NewsletterJob, error)
	FindByID(ctx context.Context, id uint) (dao.NewsletterJob, error)
	FindOldestActive(ctx context.Context) (dao.NewsletterJob, error)
	AdvanceCursor(ctx context.Context, id uint, cursor int) error
	MarkFailed(ctx context.Context, id uint, message string) error
	Delete(ctx context.Context, id uint) error
}

type NewsletterRepository struct {
	dao NewsletterDAO
}

func NewNewsletterRepository(dao NewsletterDAO) *NewsletterRepository {
	return &NewsletterRepository{
		dao: dao,
	}
}

func (r *NewsletterRepository) Create(ctx context.Context, job domain.NewsletterJob) (domain.NewsletterJob, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(job))
	if err != nil {
		return domain.NewsletterJob{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *NewsletterRepository) FindByID(ctx context.Context, id uint) (domain.NewsletterJob, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.NewsletterJob{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *NewsletterRepository) FindOldestActive(ctx context.Context) (domain.NewsletterJob, error) {
	found, err := r.dao.FindOldestActive(ctx)
	if err != nil {
		return domain.NewsletterJob{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *NewsletterRepository) AdvanceCursor(ctx context.Context, id uint, cursor int) error {
	return r.dao.AdvanceCursor(ctx, id, cursor)
}

func (r *NewsletterRepository) MarkFailed(ctx context.Context, id uint, message string) error {
	return r.dao.MarkFailed(ctx, id, message)
}

func (r *NewsletterRepository) Delete(ctx context.Context, id uint) error {
	return r.dao.Delete(ctx, id)
}

func (r *NewsletterRepository) domainToDao(j domain.NewsletterJob) dao.NewsletterJob {
	return dao.NewsletterJob{
		ID:           j.ID,
		Subject:      j.Subject,
		HTML:         j.HTML,
		Recipients:   j.Recipients,
		BatchSize:    j.BatchSize,
		Cursor:       j.Cursor,
		Status:       string(j.Status),
		PerRecipient: j.PerRecipient,
		LastRunAt:    j.LastRunAt,
		LastError:    j.LastError,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func (r *NewsletterRepository) daoToDomain(j dao.NewsletterJob) domain.NewsletterJob {
	return domain.NewsletterJob{
		ID:           j.ID,
		Subject:      j.Subject,
		HTML:         j.HTML,
		Recipients:   j.Recipients,
		BatchSize:    j.BatchSize,
		Cursor:       j.Cursor,
		Status:       domain.NewsletterStatus(j.Status),
		PerRecipient: j.PerRecipient,
		LastRunAt:    j.LastRunAt,
		LastError:    j.LastError,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}
