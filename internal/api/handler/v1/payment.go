package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KellenSmith/TaskMaster-sub001/internal/api/handler/v1/request"
	"github.com/KellenSmith/TaskMaster-sub001/internal/api/handler/v1/response"
	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/service"
)

type PaymentService interface {
	Checkout(ctx context.Context, ticketID, userID uint, taskIDs []uint) (domain.PaymentRequest, error)
	ConfirmCallback(ctx context.Context, cb domain.SwishCallback) error
}

type PaymentHandler struct {
	svc  PaymentService
	uSvc UserService
}

func NewPaymentHandler(svc PaymentService, uSvc UserService) *PaymentHandler {
	return &PaymentHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCheckout godoc
// @Summary      Start a ticket checkout
// @Description  Creates a Swish payment request for the ticket at the
// @Description  task-discounted price. A fully discounted ticket settles
// @Description  immediately without contacting the provider.
// @Tags         payments
// @Produce      json
// @Param        request  body       request.CheckoutRequest true "request body"
// @Success      201      {object}   domain.PaymentRequest
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /payments/checkout [post]
func (h *PaymentHandler) HandleCheckout(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	payment, err := h.svc.Checkout(ctx.Request.Context(), req.TicketID, user.ID, req.TaskIDs)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", req.TicketID))

			return
		}

		err = fmt.Errorf("v1.HandleCheckout -> h.svc.Checkout -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, payment)
}

// HandleSwishCallback godoc
// @Summary      Swish payment confirmation callback
// @Description  The provider posts the payment's terminal status here. A
// @Description  callback that does not match a pending payment request
// @Description  with the same amount is rejected.
// @Tags         payments
// @Produce      json
// @Param        request  body       request.SwishCallbackRequest true "request body"
// @Success      200      {object}   map[string]string
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /payments/swish/callback [post]
func (h *PaymentHandler) HandleSwishCallback(ctx *gin.Context) {
	var req request.SwishCallbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err := h.svc.ConfirmCallback(ctx.Request.Context(), domain.SwishCallback{
		ID:                    req.ID,
		PayeePaymentReference: req.PayeePaymentReference,
		PaymentReference:      req.PaymentReference,
		CallbackURL:           req.CallbackURL,
		PayerAlias:            req.PayerAlias,
		PayeeAlias:            req.PayeeAlias,
		Status:                req.Status,
		Amount:                req.AmountInOre(),
		Currency:              req.Currency,
		Message:               req.Message,
		DateCreated:           req.DateCreated,
		DatePaid:              req.DatePaid,
		ErrorCode:             req.ErrorCode,
		ErrorMessage:          req.ErrorMessage,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("payment request", "reference", req.PayeePaymentReference))
		case errors.Is(err, service.ErrPaymentNotPending),
			errors.Is(err, service.ErrPaymentAmountMismatch),
			errors.Is(err, service.ErrUnknownCallbackStatus):
			zap.L().Warn("rejected payment callback",
				zap.String("reference", req.PayeePaymentReference),
				zap.String("status", req.Status),
				zap.Error(err))
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSwishCallback -> h.svc.ConfirmCallback -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "callback processed"})
}
