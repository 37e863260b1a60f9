package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNewsletterJobNotFound = errors.New("newsletter job not found")
	ErrNoPendingJobs         = errors.New("no pending newsletter jobs")
)

type NewsletterJob struct {
	ID           uint     `gorm:"primaryKey"`
	Subject      string   `gorm:"not null"`
	HTML         string   `gorm:"not null"`
	Recipients   []string `gorm:"serializer:json;not null"`
	BatchSize    int      `gorm:"not null"`
	Cursor       int      `gorm:"not null;default:0"`
	Status       string   `gorm:"not null;index"`
	PerRecipient bool     `gorm:"not null;default:false"`
	LastRunAt    *time.Time
	LastError    string
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

type NewsletterDAO struct {
	db *gorm.DB
}

func NewNewsletterDAO(db *gorm.DB) *NewsletterDAO {
	return &NewsletterDAO{
		db: db,
	}
}

func (d *NewsletterDAO) Insert(ctx context.Context, job NewsletterJob) (NewsletterJob, error) {
	result := d.db.WithContext(ctx).Create(&job)
	if result.Error != nil {
		return NewsletterJob{}, result.Error
	}

	return job, nil
}

func (d *NewsletterDAO) FindByID(ctx context.Context, id uint) (NewsletterJob, error) {
	var job NewsletterJob

	result := d.db.WithContext(ctx).First(&job, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return NewsletterJob{}, ErrNewsletterJobNotFound
		}

		return NewsletterJob{}, result.Error
	}

	return job, nil
}

// FindOldestActive picks the next job for the scheduler: oldest first,
// pending or running only. Failed jobs need an explicit retry by id.
func (d *NewsletterDAO) FindOldestActive(ctx context.Context) (NewsletterJob, error) {
	var job NewsletterJob

	result := d.db.WithContext(ctx).
		Where("status IN ?", []string{"pending", "running"}).
		Order("created_at ASC").
		First(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return NewsletterJob{}, ErrNoPendingJobs
		}

		return NewsletterJob{}, result.Error
	}

	return job, nil
}

// AdvanceCursor persists a successfully sent batch: cursor moved forward,
// status running, lastRunAt stamped.
func (d *NewsletterDAO) AdvanceCursor(ctx context.Context, id uint, cursor int) error {
	now := time.Now().UTC()

	result := d.db.WithContext(ctx).Model(&NewsletterJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cursor":      cursor,
			"status":      "running",
			"last_run_at": now,
			"last_error":  "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsletterJobNotFound
	}

	return nil
}

func (d *NewsletterDAO) MarkFailed(ctx context.Context, id uint, message string) error {
	result := d.db.WithContext(ctx).Model(&NewsletterJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     "failed",
			"last_error": message,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNewsletterJobNotFound
	}

	return nil
}

func (d *NewsletterDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&NewsletterJob{}, id).Error
}
