package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/KellenSmith/TaskMaster-sub001/internal/cache"
	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository"
)

var (
	ErrEventNotFound      = repository.ErrEventNotFound
	ErrTicketNotFound     = repository.ErrTicketNotFound
	ErrAlreadyParticipant = repository.ErrAlreadyParticipant
	ErrEventSoldOut       = repository.ErrEventSoldOut
	ErrNotParticipant     = repository.ErrNotParticipant
	ErrEventNotSoldOut    = repository.ErrEventNotSoldOut
	ErrAlreadyReserved    = repository.ErrAlreadyReserved
	ErrNotReserved        = repository.ErrNotReserved
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	FindTicketByID(ctx context.Context, id uint) (domain.Ticket, error)
	AddParticipant(ctx context.Context, ticketID, userID uint) error
	RemoveParticipant(ctx context.Context, eventID, userID uint) (domain.Event, error)
	FindParticipantsByEventID(ctx context.Context, eventID uint) ([]domain.EventParticipant, error)
	CountParticipants(ctx context.Context, eventID uint) (int64, error)
	AddReserve(ctx context.Context, eventID, userID uint) (domain.EventReserve, error)
	DeleteReserve(ctx context.Context, eventID, userID uint) error
	FindReservesByEventID(ctx context.Context, eventID uint) ([]domain.EventReserve, error)
}

type EventCache interface {
	GetEvent(ctx context.Context, eventID uint) (domain.Event, bool, error)
	SetEvent(ctx context.Context, event domain.Event) error
	Invalidate(ctx context.Context, eventID uint, tags ...cache.Tag) error
}

// ReserveNotifier delivers the "a spot opened up" message. Failures are
// logged and swallowed; they must never undo a committed leave.
type ReserveNotifier interface {
	Notify(to, subject, html string) error
}

type EventService struct {
	repo     EventRepository
	userRepo UserRepository
	cache    EventCache
	notifier ReserveNotifier
}

func NewEventService(repo EventRepository, userRepo UserRepository, cache EventCache, notifier ReserveNotifier) *EventService {
	return &EventService{
		repo:     repo,
		userRepo: userRepo,
		cache:    cache,
		notifier: notifier,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, hostID uint) (domain.Event, error) {
	event.HostID = hostID

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	cached, hit, err := s.cache.GetEvent(ctx, eventID)
	if err != nil {
		zap.L().Warn("event cache read failed", zap.Uint("event_id", eventID), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.cache.SetEvent(ctx, event); err != nil {
		zap.L().Warn("event cache write failed", zap.Uint("event_id", eventID), zap.Error(err))
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	if _, err := s.repo.FindByID(ctx, ticket.EventID); err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.CreateTicket -> %w", err)
	}

	s.invalidate(ctx, ticket.EventID, cache.TagEvent, cache.TagTicket)

	return created, nil
}

// JoinEvent adds the user as a participant via the ticket. All
// preconditions (not already a participant, capacity remaining) are
// checked inside the repository transaction; this method only resolves
// the event for cache invalidation afterwards.
func (s *EventService) JoinEvent(ctx context.Context, ticketID, userID uint) error {
	ticket, err := s.repo.FindTicketByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("s.repo.FindTicketByID -> %w", err)
	}

	if err = s.repo.AddParticipant(ctx, ticketID, userID); err != nil {
		return err
	}

	s.invalidate(ctx, ticket.EventID, cache.AllTags...)

	return nil
}

// LeaveEvent removes the user's slot and, after the transaction commits,
// notifies the reserve list that a spot is open. Notification is
// fire-and-forget: it runs outside the deletion's atomicity boundary and
// its failure never rolls back the leave.
func (s *EventService) LeaveEvent(ctx context.Context, eventID, userID uint) error {
	event, err := s.repo.RemoveParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}

	s.invalidate(ctx, eventID, cache.AllTags...)

	go s.notifyReserves(event)

	return nil
}

func (s *EventService) GetParticipants(ctx context.Context, eventID uint) ([]domain.EventParticipant, error) {
	participants, err := s.repo.FindParticipantsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindParticipantsByEventID -> %w", err)
	}

	return participants, nil
}

func (s *EventService) JoinReserveList(ctx context.Context, eventID, userID uint) (domain.EventReserve, error) {
	reserve, err := s.repo.AddReserve(ctx, eventID, userID)
	if err != nil {
		return domain.EventReserve{}, err
	}

	s.invalidate(ctx, eventID, cache.TagReserves)

	return reserve, nil
}

func (s *EventService) LeaveReserveList(ctx context.Context, eventID, userID uint) error {
	if err := s.repo.DeleteReserve(ctx, eventID, userID); err != nil {
		return fmt.Errorf("s.repo.DeleteReserve -> %w", err)
	}

	s.invalidate(ctx, eventID, cache.TagReserves)

	return nil
}

// ReserveRank returns the user's 1-based position in the reserve list,
// ordered by queueing_since ascending. The rank is informational only:
// promotion is first-to-act, not rank order.
func (s *EventService) ReserveRank(ctx context.Context, eventID, userID uint) (int, error) {
	reserves, err := s.repo.FindReservesByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.FindReservesByEventID -> %w", err)
	}

	for i, reserve := range reserves {
		if reserve.UserID == userID {
			return i + 1, nil
		}
	}

	return 0, ErrNotReserved
}

// notifyReserves emails every reserve entry of the event that a spot has
// opened up. All reserves are notified, not just the longest-waiting
// one; claiming the spot is a normal join, so the first to act wins.
func (s *EventService) notifyReserves(event domain.Event) {
	ctx := context.Background()

	reserves, err := s.repo.FindReservesByEventID(ctx, event.ID)
	if err != nil {
		zap.L().Error("failed to load reserve list for notification",
			zap.Uint("event_id", event.ID), zap.Error(err))

		return
	}
	if len(reserves) == 0 {
		return
	}

	userIDs := make([]uint, len(reserves))
	for i, reserve := range reserves {
		userIDs[i] = reserve.UserID
	}

	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		zap.L().Error("failed to load reserve users for notification",
			zap.Uint("event_id", event.ID), zap.Error(err))

		return
	}

	subject := fmt.Sprintf("A spot opened up for %s", event.Title)
	body := fmt.Sprintf(
		"<p>A participant has left <strong>%s</strong> and a spot is now open.</p>"+
			"<p>Spots are claimed on a first-come, first-served basis.</p>",
		event.Title,
	)

	for _, user := range users {
		if err := s.notifier.Notify(user.Email, subject, body); err != nil {
			zap.L().Error("reserve notification failed",
				zap.Uint("event_id", event.ID),
				zap.Uint("user_id", user.ID),
				zap.Error(err))
		}
	}
}

func (s *EventService) invalidate(ctx context.Context, eventID uint, tags ...cache.Tag) {
	if err := s.cache.Invalidate(ctx, eventID, tags...); err != nil {
		zap.L().Warn("cache invalidation failed",
			zap.Uint("event_id", eventID), zap.Error(err))
	}
}
