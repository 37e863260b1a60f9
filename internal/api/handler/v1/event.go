package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KellenSmith/TaskMaster-sub001/internal/api/handler/v1/request"
	"github.com/KellenSmith/TaskMaster-sub001/internal/api/handler/v1/response"
	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event, hostID uint) (domain.Event, error)
	GetEvent(ctx context.Context, eventID uint) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	JoinEvent(ctx context.Context, ticketID, userID uint) error
	LeaveEvent(ctx context.Context, eventID, userID uint) error
	GetParticipants(ctx context.Context, eventID uint) ([]domain.EventParticipant, error)
	JoinReserveList(ctx context.Context, eventID, userID uint) (domain.EventReserve, error)
	LeaveReserveList(ctx context.Context, eventID, userID uint) error
	ReserveRank(ctx context.Context, eventID, userID uint) (int, error)
}

type PricingService interface {
	TicketPriceFor(ctx context.Context, ticketID, userID uint) (int64, error)
}

type EventHandler struct {
	svc     EventService
	pricing PricingService
	uSvc    UserService
}

func NewEventHandler(svc EventService, pricing PricingService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:     svc,
		pricing: pricing,
		uSvc:    uSvc,
	}
}

// HandleListEvents godoc
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), uint(eventID))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Produce      json
// @Param        request  body       request.CreateEventRequest true "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("only admins can create events")))

		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		MaxParticipants: req.MaxParticipants,
	}, user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleCreateTicket godoc
// @Summary      Create a ticket for an event
// @Tags         events
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Param        request  body       request.CreateTicketRequest true "request body"
// @Success      201      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/tickets [post]
func (h *EventHandler) HandleCreateTicket(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("only admins can create tickets")))

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.CreateTicketRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := h.svc.CreateTicket(ctx.Request.Context(), domain.Ticket{
		EventID:        uint(eventID),
		Name:           req.Name,
		Price:          req.Price,
		Stock:          req.Stock,
		UnlimitedStock: req.UnlimitedStock,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleCreateTicket -> h.svc.CreateTicket -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

// HandleListTickets godoc
// @Summary      List the tickets of an event
// @Tags         events
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Success      200      {array}    domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/tickets [get]
func (h *EventHandler) HandleListTickets(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), uint(eventID))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleListTickets -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, event.Tickets)
}

// HandleJoinEvent godoc
// @Summary      Join an event with a ticket
// @Tags         events
// @Produce      json
// @Param        ticketID  path      int  true "ticket ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /tickets/{ticketID}/join [post]
func (h *EventHandler) HandleJoinEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err = h.svc.JoinEvent(ctx.Request.Context(), uint(ticketID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
		case errors.Is(err, service.ErrAlreadyParticipant), errors.Is(err, service.ErrEventSoldOut):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleJoinEvent -> h.svc.JoinEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleLeaveEvent godoc
// @Summary      Leave an event
// @Tags         events
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/participants [delete]
func (h *EventHandler) HandleLeaveEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err = h.svc.LeaveEvent(ctx.Request.Context(), uint(eventID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotParticipant):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleLeaveEvent -> h.svc.LeaveEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetParticipants godoc
// @Summary      List participants of an event
// @Tags         events
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Success      200      {array}    domain.EventParticipant
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/participants [get]
func (h *EventHandler) HandleGetParticipants(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	participants, err := h.svc.GetParticipants(ctx.Request.Context(), uint(eventID))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetParticipants -> h.svc.GetParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, participants)
}

// HandleJoinReserveList godoc
// @Summary      Join the reserve list of a sold-out event
// @Tags         events
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Success      201      {object}   domain.EventReserve
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/reserve [post]
func (h *EventHandler) HandleJoinReserveList(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	reserve, err := h.svc.JoinReserveList(ctx.Request.Context(), uint(eventID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrEventNotSoldOut),
			errors.Is(err, service.ErrAlreadyParticipant),
			errors.Is(err, service.ErrAlreadyReserved):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleJoinReserveList -> h.svc.JoinReserveList -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, reserve)
}

// HandleLeaveReserveList godoc
// @Summary      Leave the reserve list of an event
// @Tags         events
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/reserve [delete]
func (h *EventHandler) HandleLeaveReserveList(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = h.svc.LeaveReserveList(ctx.Request.Context(), uint(eventID), user.ID); err != nil {
		err = fmt.Errorf("v1.HandleLeaveReserveList -> h.svc.LeaveReserveList -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleReserveRank godoc
// @Summary      Get the caller's position on an event's reserve list
// @Tags         events
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Success      200      {object}   response.ReserveRankResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/reserve/rank [get]
func (h *EventHandler) HandleReserveRank(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	rank, err := h.svc.ReserveRank(ctx.Request.Context(), uint(eventID), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotReserved) {
			response.RenderErr(ctx, response.ErrNotFound("reserve entry", "eventID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleReserveRank -> h.svc.ReserveRank -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ReserveRankResponse{
		EventID: uint(eventID),
		Rank:    rank,
	})
}

// HandleTicketPrice godoc
// @Summary      Get the caller's discounted price for a ticket
// @Tags         events
// @Produce      json
// @Param        ticketID  path      int  true "ticket ID"
// @Success      200      {object}   response.TicketPriceResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /tickets/{ticketID}/price [get]
func (h *EventHandler) HandleTicketPrice(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	price, err := h.pricing.TicketPriceFor(ctx.Request.Context(), uint(ticketID), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))

			return
		}

		err = fmt.Errorf("v1.HandleTicketPrice -> h.pricing.TicketPriceFor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.TicketPriceResponse{
		TicketID: uint(ticketID),
		Price:    price,
	})
}
