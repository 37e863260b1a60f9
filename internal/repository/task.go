package repository

import (
	"context"
	"fmt"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository/dao"
)

var (
	ErrTaskNotFound     = dao.ErrTaskNotFound
	ErrTaskAlreadyTaken = dao.ErrTaskAlreadyTaken
)

type TaskDAO interface {
	Insert(ctx context.Context, task dao.Task) (dao.Task, error)
	FindByID(ctx context.Context, id uint) (dao.Task, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Task, error)
	FindByIDs(ctx context.Context, ids []uint) ([]dao.Task, error)
	Assign(ctx context.Context, taskID, userID uint) error
	Unassign(ctx context.Context, taskID uint) error
	UpdateStatus(ctx context.Context, taskID uint, status string) error
	CountAssignedForEvent(ctx context.Context, eventID, userID uint) (int64, error)
}

type TaskRepository struct {
	dao TaskDAO
}

func NewTaskRepository(dao TaskDAO) *TaskRepository {
	return &TaskRepository{
		dao: dao,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(task))
	if err != nil {
		return domain.Task{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (domain.Task, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TaskRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Task, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TaskRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Task, error) {
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TaskRepository) Assign(ctx context.Context, taskID, userID uint) error {
	return r.dao.Assign(ctx, taskID, userID)
}

func (r *TaskRepository) Unassign(ctx context.Context, taskID uint) error {
	return r.dao.Unassign(ctx, taskID)
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, taskID uint, status domain.TaskStatus) error {
	return r.dao.UpdateStatus(ctx, taskID, string(status))
}

func (r *TaskRepository) CountAssignedForEvent(ctx context.Context, eventID, userID uint) (int64, error) {
	count, err := r.dao.CountAssignedForEvent(ctx, eventID, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountAssignedForEvent -> %w", err)
	}

	return count, nil
}

func (r *TaskRepository) domainToDao(t domain.Task) dao.Task {
	return dao.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		EventID:     t.EventID,
		StartsAt:    t.StartsAt,
		EndsAt:      t.EndsAt,
		AssigneeID:  t.AssigneeID,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r *TaskRepository) daoToDomain(t dao.Task) domain.Task {
	return domain.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		EventID:     t.EventID,
		StartsAt:    t.StartsAt,
		EndsAt:      t.EndsAt,
		AssigneeID:  t.AssigneeID,
		Status:      domain.TaskStatus(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r *TaskRepository) daosToDomain(tasks []dao.Task) []domain.Task {
	result := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		result[i] = r.daoToDomain(t)
	}

	return result
}
