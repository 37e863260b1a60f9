package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository"
)

var (
	ErrPaymentNotFound       = repository.ErrPaymentNotFound
	ErrPaymentNotPending     = repository.ErrPaymentNotPending
	ErrPaymentAmountMismatch = errors.New("callback amount does not match the payment request")
	ErrUnknownCallbackStatus = errors.New("unknown payment callback status")
)

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.PaymentRequest) (domain.PaymentRequest, error)
	FindByReference(ctx context.Context, reference string) (domain.PaymentRequest, error)
	MarkStatus(ctx context.Context, id uint, status domain.PaymentStatus) error
}

type EventJoiner interface {
	JoinEvent(ctx context.Context, ticketID, userID uint) error
}

type TaskAssigner interface {
	Volunteer(ctx context.Context, taskID, userID uint) error
}

type PaymentProvider interface {
	CreatePaymentRequest(ctx context.Context, reference string, amount int64, message string) error
}

type PaymentService struct {
	repo     PaymentRepository
	tickets  TicketFinder
	events   EventJoiner
	tasks    TaskAssigner
	provider PaymentProvider

	taskBurden int
}

func NewPaymentService(repo PaymentRepository, tickets TicketFinder, events EventJoiner, tasks TaskAssigner, provider PaymentProvider, taskBurden int) *PaymentService {
	return &PaymentService{
		repo:       repo,
		tickets:    tickets,
		events:     events,
		tasks:      tasks,
		provider:   provider,
		taskBurden: taskBurden,
	}
}

// Checkout creates a payment request for the ticket at the price reduced
// by the tasks the member selected. A fully discounted (zero) amount
// skips the provider and settles immediately.
func (s *PaymentService) Checkout(ctx context.Context, ticketID, userID uint, taskIDs []uint) (domain.PaymentRequest, error) {
	ticket, err := s.tickets.FindTicketByID(ctx, ticketID)
	if err != nil {
		return domain.PaymentRequest{}, fmt.Errorf("s.tickets.FindTicketByID -> %w", err)
	}

	amount := ReducedPrice(ticket.Price, len(taskIDs), s.taskBurden)

	payment := domain.PaymentRequest{
		Reference: newPaymentReference(),
		TicketID:  ticketID,
		UserID:    userID,
		Amount:    amount,
		Currency:  "SEK",
		Status:    domain.PaymentPending,
		TaskIDs:   taskIDs,
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return domain.PaymentRequest{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if amount == 0 {
		if err = s.repo.MarkStatus(ctx, created.ID, domain.PaymentPaid); err != nil {
			return domain.PaymentRequest{}, fmt.Errorf("s.repo.MarkStatus -> %w", err)
		}
		created.Status = domain.PaymentPaid
		s.settle(ctx, created)

		return created, nil
	}

	if err = s.provider.CreatePaymentRequest(ctx, created.Reference, amount, ticket.Name); err != nil {
		if markErr := s.repo.MarkStatus(ctx, created.ID, domain.PaymentErrored); markErr != nil {
			zap.L().Error("failed to mark payment request errored",
				zap.Uint("payment_id", created.ID), zap.Error(markErr))
		}

		return domain.PaymentRequest{}, fmt.Errorf("s.provider.CreatePaymentRequest -> %w", err)
	}

	return created, nil
}

// ConfirmCallback processes the provider's confirmation. The callback
// carries no verifiable provider identity, so acceptance is gated on the
// reference matching a pending payment request this system created, with
// a matching amount; anything else is rejected. On PAID the join and
// task assignments run as a best-effort sequence, deliberately not
// atomic across both operations: a task assignment failure after a
// successful join is logged, not rolled back.
func (s *PaymentService) ConfirmCallback(ctx context.Context, cb domain.SwishCallback) error {
	payment, err := s.repo.FindByReference(ctx, cb.PayeePaymentReference)
	if err != nil {
		return err
	}

	if payment.Status != domain.PaymentPending {
		return ErrPaymentNotPending
	}
	if cb.Amount != payment.Amount {
		return ErrPaymentAmountMismatch
	}

	switch cb.Status {
	case "PAID":
		if err = s.repo.MarkStatus(ctx, payment.ID, domain.PaymentPaid); err != nil {
			return fmt.Errorf("s.repo.MarkStatus -> %w", err)
		}
		s.settle(ctx, payment)

		return nil
	case "DECLINED", "CANCELLED":
		return s.repo.MarkStatus(ctx, payment.ID, domain.PaymentDeclined)
	case "ERROR":
		return s.repo.MarkStatus(ctx, payment.ID, domain.PaymentErrored)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCallbackStatus, cb.Status)
	}
}

// settle performs the post-payment side effects: join the event, then
// assign the selected tasks. Each step is independent and best-effort.
func (s *PaymentService) settle(ctx context.Context, payment domain.PaymentRequest) {
	if err := s.events.JoinEvent(ctx, payment.TicketID, payment.UserID); err != nil {
		zap.L().Error("post-payment event join failed",
			zap.Uint("payment_id", payment.ID),
			zap.Uint("ticket_id", payment.TicketID),
			zap.Uint("user_id", payment.UserID),
			zap.Error(err))
	}

	for _, taskID := range payment.TaskIDs {
		if err := s.tasks.Volunteer(ctx, taskID, payment.UserID); err != nil {
			zap.L().Error("post-payment task assignment failed",
				zap.Uint("payment_id", payment.ID),
				zap.Uint("task_id", taskID),
				zap.Uint("user_id", payment.UserID),
				zap.Error(err))
		}
	}
}

// newPaymentReference builds a provider-safe reference: uppercase
// alphanumeric, at most 35 characters.
func newPaymentReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
