package repository

import (
	"context"
	"fmt"

	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/repository/dao"
)

var (
	ErrPaymentNotFound   = dao.ErrPaymentNotFound
	ErrPaymentNotPending = dao.ErrPaymentNotPending
)

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.PaymentRequest) (dao.PaymentRequest, error)
	FindByReference(ctx context.Context, reference string) (dao.PaymentRequest, error)
	MarkStatus(ctx context.Context, id uint, status string) error
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.PaymentRequest) (domain.PaymentRequest, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(payment))
	if err != nil {
		return domain.PaymentRequest{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (domain.PaymentRequest, error) {
	found, err := r.dao.FindByReference(ctx, reference)
	if err != nil {
		return domain.PaymentRequest{}, err
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) MarkStatus(ctx context.Context, id uint, status domain.PaymentStatus) error {
	return r.dao.MarkStatus(ctx, id, string(status))
}

func (r *PaymentRepository) domainToDao(p domain.PaymentRequest) dao.PaymentRequest {
	return dao.PaymentRequest{
		ID:        p.ID,
		Reference: p.Reference,
		TicketID:  p.TicketID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    string(p.Status),
		TaskIDs:   p.TaskIDs,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *PaymentRepository) daoToDomain(p dao.PaymentRequest) domain.PaymentRequest {
	return domain.PaymentRequest{
		ID:        p.ID,
		Reference: p.Reference,
		TicketID:  p.TicketID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    domain.PaymentStatus(p.Status),
		TaskIDs:   p.TaskIDs,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
