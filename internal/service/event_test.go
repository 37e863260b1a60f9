package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KellenSmith/TaskMaster-sub001/internal/cache"
	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository"
)

type fakeEventRepo struct {
	events   map[uint]domain.Event
	tickets  map[uint]domain.Ticket
	reserves map[uint][]domain.EventReserve

	addParticipantErr    error
	removeParticipantErr error
	addReserveErr        error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:   make(map[uint]domain.Event),
		tickets:  make(map[uint]domain.Ticket),
		reserves: make(map[uint][]domain.EventReserve),
	}
}

func (f *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = uint(len(f.events) + 1)
	f.events[event.ID] = event

	return event, nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (f *fakeEventRepo) FindAll(_ context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(f.events))
	for _, event := range f.events {
		out = append(out, event)
	}

	return out, nil
}

func (f *fakeEventRepo) CreateTicket(_ context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	ticket.ID = uint(len(f.tickets) + 1)
	f.tickets[ticket.ID] = ticket

	return ticket, nil
}

func (f *fakeEventRepo) FindTicketByID(_ context.Context, id uint) (domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}

	return ticket, nil
}

func (f *fakeEventRepo) AddParticipant(_ context.Context, _, _ uint) error {
	return f.addParticipantErr
}

func (f *fakeEventRepo) RemoveParticipant(_ context.Context, eventID, _ uint) (domain.Event, error) {
	if f.removeParticipantErr != nil {
		return domain.Event{}, f.removeParticipantErr
	}

	return f.events[eventID], nil
}

func (f *fakeEventRepo) FindParticipantsByEventID(_ context.Context, _ uint) ([]domain.EventParticipant, error) {
	return nil, nil
}

func (f *fakeEventRepo) CountParticipants(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

func (f *fakeEventRepo) AddReserve(_ context.Context, eventID, userID uint) (domain.EventReserve, error) {
	if f.addReserveErr != nil {
		return domain.EventReserve{}, f.addReserveErr
	}

	reserve := domain.EventReserve{
		ID:            uint(len(f.reserves[eventID]) + 1),
		EventID:       eventID,
		UserID:        userID,
		QueueingSince: time.Now().UTC(),
	}
	f.reserves[eventID] = append(f.reserves[eventID], reserve)

	return reserve, nil
}

func (f *fakeEventRepo) DeleteReserve(_ context.Context, eventID, userID uint) error {
	entries := f.reserves[eventID]
	for i, reserve := range entries {
		if reserve.UserID == userID {
			f.reserves[eventID] = append(entries[:i], entries[i+1:]...)

			return nil
		}
	}

	return nil
}

func (f *fakeEventRepo) FindReservesByEventID(_ context.Context, eventID uint) ([]domain.EventReserve, error) {
	return f.reserves[eventID], nil
}

type fakeUserRepo struct {
	users map[uint]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user

	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, user)
		}
	}

	return out, nil
}

type fakeEventCache struct {
	mu           sync.Mutex
	events       map[uint]domain.Event
	invalidated  []cache.Tag
	invalidCalls int
}

func newFakeEventCache() *fakeEventCache {
	return &fakeEventCache{events: make(map[uint]domain.Event)}
}

func (f *fakeEventCache) GetEvent(_ context.Context, eventID uint) (domain.Event, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]

	return event, ok, nil
}

func (f *fakeEventCache) SetEvent(_ context.Context, event domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.ID] = event

	return nil
}

func (f *fakeEventCache) Invalidate(_ context.Context, eventID uint, tags ...cache.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, eventID)
	f.invalidated = append(f.invalidated, tags...)
	f.invalidCalls++

	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	calls chan struct{}
}

func newFakeNotifier(capacity int) *fakeNotifier {
	return &fakeNotifier{calls: make(chan struct{}, capacity)}
}

func (f *fakeNotifier) Notify(to, _, _ string) error {
	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.mu.Unlock()
	f.calls <- struct{}{}

	return nil
}

func (f *fakeNotifier) waitFor(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notification %d of %d", i+1, n)
		}
	}
}

func TestEventService_GetEvent(t *testing.T) {
	repo := newFakeEventRepo()
	c := newFakeEventCache()
	svc := NewEventService(repo, newFakeUserRepo(), c, newFakeNotifier(1))

	created, err := svc.CreateEvent(context.Background(), domain.Event{Title: "Spring cleanup"}, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), created.HostID)

	// First read misses the cache and fills it.
	got, err := svc.GetEvent(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	// A stale repo copy proves the second read is served from cache.
	repo.events[created.ID] = domain.Event{ID: created.ID, Title: "changed underneath"}
	got, err = svc.GetEvent(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring cleanup", got.Title)
}

func TestEventService_JoinEvent(t *testing.T) {
	t.Run("invalidates all tags on success", func(t *testing.T) {
		repo := newFakeEventRepo()
		c := newFakeEventCache()
		svc := NewEventService(repo, newFakeUserRepo(), c, newFakeNotifier(1))

		event, _ := repo.Create(context.Background(), domain.Event{Title: "Gala"})
		ticket, _ := repo.CreateTicket(context.Background(), domain.Ticket{EventID: event.ID})

		require.NoError(t, svc.JoinEvent(context.Background(), ticket.ID, 1))
		assert.ElementsMatch(t, cache.AllTags, c.invalidated)
	})

	t.Run("sold out conflict passes through untouched", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.addParticipantErr = repository.ErrEventSoldOut
		c := newFakeEventCache()
		svc := NewEventService(repo, newFakeUserRepo(), c, newFakeNotifier(1))

		event, _ := repo.Create(context.Background(), domain.Event{Title: "Gala"})
		ticket, _ := repo.CreateTicket(context.Background(), domain.Ticket{EventID: event.ID})

		err := svc.JoinEvent(context.Background(), ticket.ID, 1)
		assert.ErrorIs(t, err, ErrEventSoldOut)
		assert.Zero(t, c.invalidCalls)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, newFakeUserRepo(), newFakeEventCache(), newFakeNotifier(1))

		err := svc.JoinEvent(context.Background(), 99, 1)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestEventService_LeaveEvent_NotifiesReserves(t *testing.T) {
	repo := newFakeEventRepo()
	users := newFakeUserRepo()
	notifier := newFakeNotifier(4)
	svc := NewEventService(repo, users, newFakeEventCache(), notifier)

	event, _ := repo.Create(context.Background(), domain.Event{Title: "Midsummer party"})

	first, _ := users.Create(context.Background(), domain.User{Email: "first@x.se"})
	second, _ := users.Create(context.Background(), domain.User{Email: "second@x.se"})
	_, err := repo.AddReserve(context.Background(), event.ID, first.ID)
	require.NoError(t, err)
	_, err = repo.AddReserve(context.Background(), event.ID, second.ID)
	require.NoError(t, err)

	require.NoError(t, svc.LeaveEvent(context.Background(), event.ID, 42))

	// Every reserve gets notified, not just the head of the queue.
	notifier.waitFor(t, 2)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.ElementsMatch(t, []string{"first@x.se", "second@x.se"}, notifier.sent)
}

func TestEventService_ReserveRank(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, newFakeUserRepo(), newFakeEventCache(), newFakeNotifier(1))

	event, _ := repo.Create(context.Background(), domain.Event{Title: "Gala"})
	for userID := uint(1); userID <= 3; userID++ {
		_, err := repo.AddReserve(context.Background(), event.ID, userID)
		require.NoError(t, err)
	}

	rank, err := svc.ReserveRank(context.Background(), event.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	rank, err = svc.ReserveRank(context.Background(), event.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rank)

	_, err = svc.ReserveRank(context.Background(), event.ID, 99)
	assert.ErrorIs(t, err, ErrNotReserved)

	// Ranks compact when someone ahead leaves.
	require.NoError(t, svc.LeaveReserveList(context.Background(), event.ID, 1))
	rank, err = svc.ReserveRank(context.Background(), event.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
}
