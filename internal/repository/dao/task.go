package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskAlreadyTaken = errors.New("task already has an assignee")
)

type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	EventID     *uint     `gorm:"index"`
	StartsAt    time.Time `gorm:"not null;index"`
	EndsAt      time.Time `gorm:"not null"`
	AssigneeID  *uint     `gorm:"index"`
	Status      string    `gorm:"not null;default:to_do"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskDAO struct {
	db *gorm.DB
}

func NewTaskDAO(db *gorm.DB) *TaskDAO {
	return &TaskDAO{
		db: db,
	}
}

func (d *TaskDAO) Insert(ctx context.Context, task Task) (Task, error) {
	result := d.db.WithContext(ctx).Create(&task)
	if result.Error != nil {
		return Task{}, result.Error
	}

	return task, nil
}

func (d *TaskDAO) FindByID(ctx context.Context, id uint) (Task, error) {
	var task Task

	result := d.db.WithContext(ctx).First(&task, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Task{}, ErrTaskNotFound
		}

		return Task{}, result.Error
	}

	return task, nil
}

func (d *TaskDAO) FindByEventID(ctx context.Context, eventID uint) ([]Task, error) {
	var tasks []Task

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("starts_at ASC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}

	return tasks, nil
}

func (d *TaskDAO) FindByIDs(ctx context.Context, ids []uint) ([]Task, error) {
	var tasks []Task

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}

	return tasks, nil
}

// Assign claims the task for the user; a task with an assignee cannot be
// claimed again until it is unassigned.
func (d *TaskDAO) Assign(ctx context.Context, taskID, userID uint) error {
	result := d.db.WithContext(ctx).Model(&Task{}).
		Where("id = ? AND assignee_id IS NULL", taskID).
		Update("assignee_id", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var task Task
		if err := d.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}

			return err
		}

		return ErrTaskAlreadyTaken
	}

	return nil
}

func (d *TaskDAO) Unassign(ctx context.Context, taskID uint) error {
	result := d.db.WithContext(ctx).Model(&Task{}).
		Where("id = ?", taskID).
		Update("assignee_id", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (d *TaskDAO) UpdateStatus(ctx context.Context, taskID uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Task{}).
		Where("id = ?", taskID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (d *TaskDAO) CountAssignedForEvent(ctx context.Context, eventID, userID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Task{}).
		Where("event_id = ? AND assignee_id = ?", eventID, userID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
