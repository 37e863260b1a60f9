package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository"
)

type fakeTaskRepo struct {
	tasks map[uint]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uint]*domain.Task)}
}

func (f *fakeTaskRepo) Create(_ context.Context, task domain.Task) (domain.Task, error) {
	task.ID = uint(len(f.tasks) + 1)
	copied := task
	f.tasks[task.ID] = &copied

	return task, nil
}

func (f *fakeTaskRepo) FindByID(_ context.Context, id uint) (domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, repository.ErrTaskNotFound
	}

	return *task, nil
}

func (f *fakeTaskRepo) FindByEventID(_ context.Context, eventID uint) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range f.tasks {
		if task.EventID != nil && *task.EventID == eventID {
			out = append(out, *task)
		}
	}

	return out, nil
}

func (f *fakeTaskRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		if task, ok := f.tasks[id]; ok {
			out = append(out, *task)
		}
	}

	return out, nil
}

func (f *fakeTaskRepo) Assign(_ context.Context, taskID, userID uint) error {
	task, ok := f.tasks[taskID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	if task.AssigneeID != nil {
		return repository.ErrTaskAlreadyTaken
	}
	task.AssigneeID = &userID

	return nil
}

func (f *fakeTaskRepo) Unassign(_ context.Context, taskID uint) error {
	task, ok := f.tasks[taskID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	task.AssigneeID = nil

	return nil
}

func (f *fakeTaskRepo) UpdateStatus(_ context.Context, taskID uint, status domain.TaskStatus) error {
	task, ok := f.tasks[taskID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	task.Status = status

	return nil
}

func (f *fakeTaskRepo) CountAssignedForEvent(_ context.Context, eventID, userID uint) (int64, error) {
	var count int64
	for _, task := range f.tasks {
		if task.EventID != nil && *task.EventID == eventID &&
			task.AssigneeID != nil && *task.AssigneeID == userID {
			count++
		}
	}

	return count, nil
}

type fakeTicketFinder struct {
	tickets map[uint]domain.Ticket
}

func (f *fakeTicketFinder) FindTicketByID(_ context.Context, id uint) (domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}

	return ticket, nil
}

func TestTaskService_Volunteer(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeTicketFinder{}, 4)

	eventID := uint(1)
	task, err := svc.CreateTask(context.Background(), domain.Task{Title: "Bar shift", EventID: &eventID})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskToDo, task.Status)

	require.NoError(t, svc.Volunteer(context.Background(), task.ID, 5))

	// Second volunteer loses the race.
	err = svc.Volunteer(context.Background(), task.ID, 6)
	assert.ErrorIs(t, err, ErrTaskAlreadyTaken)
}

func TestTaskService_Abandon(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeTicketFinder{}, 4)

	eventID := uint(1)
	task, err := svc.CreateTask(context.Background(), domain.Task{Title: "Door", EventID: &eventID})
	require.NoError(t, err)
	require.NoError(t, svc.Volunteer(context.Background(), task.ID, 5))

	err = svc.Abandon(context.Background(), task.ID, 6)
	assert.ErrorIs(t, err, ErrNotTaskAssignee)

	require.NoError(t, svc.Abandon(context.Background(), task.ID, 5))

	// Abandoned tasks are open again.
	require.NoError(t, svc.Volunteer(context.Background(), task.ID, 6))
}

func TestTaskService_SetStatus(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, &fakeTicketFinder{}, 4)

	eventID := uint(1)
	task, err := svc.CreateTask(context.Background(), domain.Task{Title: "Cleanup", EventID: &eventID})
	require.NoError(t, err)
	require.NoError(t, svc.Volunteer(context.Background(), task.ID, 5))

	err = svc.SetStatus(context.Background(), task.ID, 9, domain.TaskDone)
	assert.ErrorIs(t, err, ErrNotTaskAssignee)

	require.NoError(t, svc.SetStatus(context.Background(), task.ID, 5, domain.TaskDone))
	stored, err := repo.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, stored.Status)
}

func TestTaskService_TicketPriceFor(t *testing.T) {
	repo := newFakeTaskRepo()
	tickets := &fakeTicketFinder{tickets: map[uint]domain.Ticket{
		10: {ID: 10, EventID: 1, Price: 200},
	}}
	svc := NewTaskService(repo, tickets, 4)

	eventID := uint(1)
	for i := 0; i < 2; i++ {
		task, err := svc.CreateTask(context.Background(), domain.Task{Title: "Shift", EventID: &eventID})
		require.NoError(t, err)
		require.NoError(t, svc.Volunteer(context.Background(), task.ID, 5))
	}

	price, err := svc.TicketPriceFor(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(100), price)

	// A user with no tasks pays full price.
	price, err = svc.TicketPriceFor(context.Background(), 10, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(200), price)

	_, err = svc.TicketPriceFor(context.Background(), 99, 5)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
