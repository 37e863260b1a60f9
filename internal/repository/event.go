package repository

import (
	"context"
	"fmt"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository/dao"
)

var (
	ErrEventNotFound      = dao.ErrEventNotFound
	ErrTicketNotFound     = dao.ErrTicketNotFound
	ErrAlreadyParticipant = dao.ErrAlreadyParticipant
	ErrEventSoldOut       = dao.ErrEventSoldOut
	ErrNotParticipant     = dao.ErrNotParticipant
	ErrEventNotSoldOut    = dao.ErrEventNotSoldOut
	ErrAlreadyReserved    = dao.ErrAlreadyReserved
	ErrNotReserved        = dao.ErrNotReserved
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	InsertTicket(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	FindTicketByID(ctx context.Context, id uint) (dao.Ticket, error)
	AddParticipant(ctx context.Context, ticketID, userID uint) error
	RemoveParticipant(ctx context.Context, eventID, userID uint) (dao.Event, error)
	FindParticipantsByEventID(ctx context.Context, eventID uint) ([]dao.EventParticipant, error)
	CountParticipants(ctx context.Context, eventID uint) (int64, error)
	AddReserve(ctx context.Context, eventID, userID uint) (dao.EventReserve, error)
	DeleteReserve(ctx context.Context, eventID, userID uint) error
	FindReservesByEventID(ctx context.Context, eventID uint) ([]dao.EventReserve, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = r.daoToDomain(e)
	}

	return events, nil
}

func (r *EventRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.InsertTicket(ctx, r.ticketDomainToDao(ticket))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.InsertTicket -> %w", err)
	}

	return r.ticketDaoToDomain(created), nil
}

func (r *EventRepository) FindTicketByID(ctx context.Context, id uint) (domain.Ticket, error) {
	found, err := r.dao.FindTicketByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindTicketByID -> %w", err)
	}

	return r.ticketDaoToDomain(found), nil
}

func (r *EventRepository) AddParticipant(ctx context.Context, ticketID, userID uint) error {
	return r.dao.AddParticipant(ctx, ticketID, userID)
}

func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID uint) (domain.Event, error) {
	event, err := r.dao.RemoveParticipant(ctx, eventID, userID)
	if err != nil {
		return domain.Event{}, err
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) FindParticipantsByEventID(ctx context.Context, eventID uint) ([]domain.EventParticipant, error) {
	found, err := r.dao.FindParticipantsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParticipantsByEventID -> %w", err)
	}

	participants := make([]domain.EventParticipant, len(found))
	for i, p := range found {
		participants[i] = domain.EventParticipant{
			ID:        p.ID,
			TicketID:  p.TicketID,
			UserID:    p.UserID,
			CreatedAt: p.CreatedAt,
		}
	}

	return participants, nil
}

func (r *EventRepository) CountParticipants(ctx context.Context, eventID uint) (int64, error) {
	count, err := r.dao.CountParticipants(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountParticipants -> %w", err)
	}

	return count, nil
}

func (r *EventRepository) AddReserve(ctx context.Context, eventID, userID uint) (domain.EventReserve, error) {
	reserve, err := r.dao.AddReserve(ctx, eventID, userID)
	if err != nil {
		return domain.EventReserve{}, err
	}

	return r.reserveDaoToDomain(reserve), nil
}

func (r *EventRepository) DeleteReserve(ctx context.Context, eventID, userID uint) error {
	return r.dao.DeleteReserve(ctx, eventID, userID)
}

func (r *EventRepository) FindReservesByEventID(ctx context.Context, eventID uint) ([]domain.EventReserve, error) {
	found, err := r.dao.FindReservesByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindReservesByEventID -> %w", err)
	}

	reserves := make([]domain.EventReserve, len(found))
	for i, res := range found {
		reserves[i] = r.reserveDaoToDomain(res)
	}

	return reserves, nil
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		MaxParticipants: e.MaxParticipants,
		HostID:          e.HostID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		StartsAt:        e.StartsAt,
		EndsAt:          e.EndsAt,
		MaxParticipants: e.MaxParticipants,
		HostID:          e.HostID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}

	for _, t := range e.Tickets {
		event.Tickets = append(event.Tickets, r.ticketDaoToDomain(t))
	}

	return event
}

func (r *EventRepository) ticketDomainToDao(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		ID:             t.ID,
		EventID:        t.EventID,
		Name:           t.Name,
		Price:          t.Price,
		Stock:          t.Stock,
		UnlimitedStock: t.UnlimitedStock,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (r *EventRepository) ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:             t.ID,
		EventID:        t.EventID,
		Name:           t.Name,
		Price:          t.Price,
		Stock:          t.Stock,
		UnlimitedStock: t.UnlimitedStock,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (r *EventRepository) reserveDaoToDomain(res dao.EventReserve) domain.EventReserve {
	return domain.EventReserve{
		ID:            res.ID,
		EventID:       res.EventID,
		UserID:        res.UserID,
		QueueingSince: res.QueueingSince,
	}
}
