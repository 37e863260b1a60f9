package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository"
)

type fakePaymentRepo struct {
	payments map[uint]*domain.PaymentRequest
	nextID   uint
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[uint]*domain.PaymentRequest),
		nextID:   1,
	}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment domain.PaymentRequest) (domain.PaymentRequest, error) {
	payment.ID = f.nextID
	f.nextID++
	copied := payment
	f.payments[payment.ID] = &copied

	return payment, nil
}

func (f *fakePaymentRepo) FindByReference(_ context.Context, reference string) (domain.PaymentRequest, error) {
	for _, payment := range f.payments {
		if payment.Reference == reference {
			return *payment, nil
		}
	}

	return domain.PaymentRequest{}, repository.ErrPaymentNotFound
}

func (f *fakePaymentRepo) MarkStatus(_ context.Context, id uint, status domain.PaymentStatus) error {
	payment, ok := f.payments[id]
	if !ok {
		return repository.ErrPaymentNotFound
	}
	if payment.Status != domain.PaymentPending {
		return repository.ErrPaymentNotPending
	}
	payment.Status = status

	return nil
}

type fakeJoiner struct {
	joins [][2]uint
	err   error
}

func (f *fakeJoiner) JoinEvent(_ context.Context, ticketID, userID uint) error {
	if f.err != nil {
		return f.err
	}
	f.joins = append(f.joins, [2]uint{ticketID, userID})

	return nil
}

type fakeAssigner struct {
	assigned [][2]uint
	err      error
}

func (f *fakeAssigner) Volunteer(_ context.Context, taskID, userID uint) error {
	if f.err != nil {
		return f.err
	}
	f.assigned = append(f.assigned, [2]uint{taskID, userID})

	return nil
}

type fakeProvider struct {
	requests []string
	err      error
}

func (f *fakeProvider) CreatePaymentRequest(_ context.Context, reference string, _ int64, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, reference)

	return nil
}

func newPaymentFixture() (*fakePaymentRepo, *fakeJoiner, *fakeAssigner, *fakeProvider, *PaymentService) {
	repo := newFakePaymentRepo()
	joiner := &fakeJoiner{}
	assigner := &fakeAssigner{}
	provider := &fakeProvider{}
	tickets := &fakeTicketFinder{tickets: map[uint]domain.Ticket{
		10: {ID: 10, EventID: 1, Name: "Member ticket", Price: 200},
	}}
	svc := NewPaymentService(repo, tickets, joiner, assigner, provider, 4)

	return repo, joiner, assigner, provider, svc
}

func TestPaymentService_Checkout(t *testing.T) {
	t.Run("creates a provider request at the discounted price", func(t *testing.T) {
		repo, joiner, _, provider, svc := newPaymentFixture()

		payment, err := svc.Checkout(context.Background(), 10, 5, []uint{1, 2})
		require.NoError(t, err)

		assert.Equal(t, int64(100), payment.Amount)
		assert.Equal(t, domain.PaymentPending, payment.Status)
		assert.NotEmpty(t, payment.Reference)
		assert.LessOrEqual(t, len(payment.Reference), 35)
		assert.Equal(t, []string{payment.Reference}, provider.requests)

		// No join before the provider confirms.
		assert.Empty(t, joiner.joins)
		stored, err := repo.FindByReference(context.Background(), payment.Reference)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPending, stored.Status)
	})

	t.Run("fully discounted checkout settles immediately", func(t *testing.T) {
		_, joiner, assigner, provider, svc := newPaymentFixture()

		payment, err := svc.Checkout(context.Background(), 10, 5, []uint{1, 2, 3, 4})
		require.NoError(t, err)

		assert.Equal(t, int64(0), payment.Amount)
		assert.Equal(t, domain.PaymentPaid, payment.Status)
		assert.Empty(t, provider.requests)
		assert.Equal(t, [][2]uint{{10, 5}}, joiner.joins)
		assert.Equal(t, [][2]uint{{1, 5}, {2, 5}, {3, 5}, {4, 5}}, assigner.assigned)
	})

	t.Run("provider failure marks the payment errored", func(t *testing.T) {
		repo, _, _, provider, svc := newPaymentFixture()
		provider.err = errors.New("provider unreachable")

		_, err := svc.Checkout(context.Background(), 10, 5, nil)
		require.Error(t, err)

		require.Len(t, repo.payments, 1)
		for _, payment := range repo.payments {
			assert.Equal(t, domain.PaymentErrored, payment.Status)
		}
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, _, _, _, svc := newPaymentFixture()

		_, err := svc.Checkout(context.Background(), 99, 5, nil)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestPaymentService_ConfirmCallback(t *testing.T) {
	paidCallback := func(payment domain.PaymentRequest, status string) domain.SwishCallback {
		return domain.SwishCallback{
			PayeePaymentReference: payment.Reference,
			Status:                status,
			Amount:                payment.Amount,
			Currency:              "SEK",
		}
	}

	t.Run("PAID settles the ticket and the tasks", func(t *testing.T) {
		repo, joiner, assigner, _, svc := newPaymentFixture()

		payment, err := svc.Checkout(context.Background(), 10, 5, []uint{7})
		require.NoError(t, err)

		require.NoError(t, svc.ConfirmCallback(context.Background(), paidCallback(payment, "PAID")))

		stored, err := repo.FindByReference(context.Background(), payment.Reference)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPaid, stored.Status)
		assert.Equal(t, [][2]uint{{10, 5}}, joiner.joins)
		assert.Equal(t, [][2]uint{{7, 5}}, assigner.assigned)
	})

	t.Run("replayed callback is rejected", func(t *testing.T) {
		_, joiner, _, _, svc := newPaymentFixture()

		payment, err := svc.Checkout(context.Background(), 10, 5, nil)
		require.NoError(t, err)

		require.NoError(t, svc.ConfirmCallback(context.Background(), paidCallback(payment, "PAID")))
		err = svc.ConfirmCallback(context.Background(), paidCallback(payment, "PAID"))
		assert.ErrorIs(t, err, ErrPaymentNotPending)
		assert.Len(t, joiner.joins, 1)
	})

	t.Run("amount mismatch is rejected", func(t *testing.T) {
		_, joiner, _, _, svc := newPaymentFixture()

		payment, err := svc.Checkout(context.Background(), 10, 5, nil)
		require.NoError(t, err)

		cb := paidCallback(payment, "PAID")
		cb.Amount = payment.Amount - 1
		err = svc.ConfirmCallback(context.Background(), cb)
		assert.ErrorIs(t, err, ErrPaymentAmountMismatch)
		assert.Empty(t, joiner.joins)
	})

	t.Run("DECLINED and ERROR park the payment without settling", func(t *testing.T) {
		repo, joiner, _, _, svc := newPaymentFixture()

		declined, err := svc.Checkout(context.Background(), 10, 5, nil)
		require.NoError(t, err)
		require.NoError(t, svc.ConfirmCallback(context.Background(), paidCallback(declined, "DECLINED")))

		errored, err := svc.Checkout(context.Background(), 10, 6, nil)
		require.NoError(t, err)
		require.NoError(t, svc.ConfirmCallback(context.Background(), paidCallback(errored, "ERROR")))

		assert.Empty(t, joiner.joins)

		stored, err := repo.FindByReference(context.Background(), declined.Reference)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentDeclined, stored.Status)

		stored, err = repo.FindByReference(context.Background(), errored.Reference)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentErrored, stored.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, _, _, _, svc := newPaymentFixture()

		payment, err := svc.Checkout(context.Background(), 10, 5, nil)
		require.NoError(t, err)

		err = svc.ConfirmCallback(context.Background(), paidCallback(payment, "WAITING"))
		assert.ErrorIs(t, err, ErrUnknownCallbackStatus)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, _, _, _, svc := newPaymentFixture()

		err := svc.ConfirmCallback(context.Background(), domain.SwishCallback{
			PayeePaymentReference: "MISSING",
			Status:                "PAID",
		})
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})
}
