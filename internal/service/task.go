package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository"
)

var (
	ErrTaskNotFound     = repository.ErrTaskNotFound
	ErrTaskAlreadyTaken = repository.ErrTaskAlreadyTaken
	ErrNotTaskAssignee  = errors.New("user is not the task assignee")
)

type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	FindByID(ctx context.Context, id uint) (domain.Task, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Task, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Task, error)
	Assign(ctx context.Context, taskID, userID uint) error
	Unassign(ctx context.Context, taskID uint) error
	UpdateStatus(ctx context.Context, taskID uint, status domain.TaskStatus) error
	CountAssignedForEvent(ctx context.Context, eventID, userID uint) (int64, error)
}

type TicketFinder interface {
	FindTicketByID(ctx context.Context, id uint) (domain.Ticket, error)
}

type TaskService struct {
	repo    TaskRepository
	tickets TicketFinder

	// taskBurden is the configured number of volunteer tasks equal to a
	// full ticket discount.
	taskBurden int
}

func NewTaskService(repo TaskRepository, tickets TicketFinder, taskBurden int) *TaskService {
	return &TaskService{
		repo:       repo,
		tickets:    tickets,
		taskBurden: taskBurden,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.Status == "" {
		task.Status = domain.TaskToDo
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return domain.Task{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *TaskService) GetTasksForEvent(ctx context.Context, eventID uint) ([]domain.Task, error) {
	tasks, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return tasks, nil
}

func (s *TaskService) Volunteer(ctx context.Context, taskID, userID uint) error {
	return s.repo.Assign(ctx, taskID, userID)
}

// Abandon releases a task, but only for its current assignee.
func (s *TaskService) Abandon(ctx context.Context, taskID, userID uint) error {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if task.AssigneeID == nil || *task.AssigneeID != userID {
		return ErrNotTaskAssignee
	}

	return s.repo.Unassign(ctx, taskID)
}

func (s *TaskService) SetStatus(ctx context.Context, taskID, userID uint, status domain.TaskStatus) error {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if task.AssigneeID == nil || *task.AssigneeID != userID {
		return ErrNotTaskAssignee
	}

	return s.repo.UpdateStatus(ctx, taskID, status)
}

// TicketPriceFor returns the price the user would pay for the ticket
// given the tasks they have already volunteered for on the event.
func (s *TaskService) TicketPriceFor(ctx context.Context, ticketID, userID uint) (int64, error) {
	ticket, err := s.tickets.FindTicketByID(ctx, ticketID)
	if err != nil {
		return 0, fmt.Errorf("s.tickets.FindTicketByID -> %w", err)
	}

	assigned, err := s.repo.CountAssignedForEvent(ctx, ticket.EventID, userID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.CountAssignedForEvent -> %w", err)
	}

	return ReducedPrice(ticket.Price, int(assigned), s.taskBurden), nil
}

func (s *TaskService) TaskBurden() int {
	return s.taskBurden
}
