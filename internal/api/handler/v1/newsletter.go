package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KellenSmith/TaskMaster-sub001/internal/api/handler/v1/request"
	"github.com/KellenSmith/TaskMaster-sub001/internal/api/handler/v1/response"
	"github.com/KellenSmith/TaskMaster-sub001/internal/domain"
	"github.com/KellenSmith/TaskMaster-sub001/internal/service"
)

type NewsletterService interface {
	CreateJob(ctx context.Context, subject, html string, recipients []string, batchSize int, perRecipient bool) (domain.NewsletterJob, error)
	ProcessNext(ctx context.Context, jobID *uint) (service.BatchResult, error)
}

type NewsletterHandler struct {
	svc  NewsletterService
	uSvc UserService
}

func NewNewsletterHandler(svc NewsletterService, uSvc UserService) *NewsletterHandler {
	return &NewsletterHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateNewsletter godoc
// @Summary      Create a newsletter job
// @Tags         newsletters
// @Produce      json
// @Param        request  body       request.CreateNewsletterRequest true "request body"
// @Success      201      {object}   response.CreateNewsletterResponse
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /newsletters [post]
func (h *NewsletterHandler) HandleCreateNewsletter(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("only admins can send newsletters")))

		return
	}

	var req request.CreateNewsletterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	job, err := h.svc.CreateJob(ctx.Request.Context(), req.Subject, req.HTML, req.Recipients, req.BatchSize, req.PerRecipient)
	if err != nil {
		if errors.Is(err, service.ErrNoRecipients) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateNewsletter -> h.svc.CreateJob -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, response.CreateNewsletterResponse{
		ID:        job.ID,
		Total:     job.Total(),
		BatchSize: job.BatchSize,
	})
}

// HandleProcessNewsletter godoc
// @Summary      Send the next batch of the oldest active newsletter job
// @Description  Invoked by the cron scheduler. Without a job id the oldest
// @Description  pending or running job is picked; a job id also retries a
// @Description  failed job.
// @Tags         newsletters
// @Produce      json
// @Param        request  body       request.ProcessNewsletterRequest false "request body"
// @Success      200      {object}   service.BatchResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /newsletters/process [post]
func (h *NewsletterHandler) HandleProcessNewsletter(ctx *gin.Context) {
	var req request.ProcessNewsletterRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		if err := req.Validate(); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}
	}

	result, err := h.svc.ProcessNext(ctx.Request.Context(), req.JobID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPendingJobs):
			ctx.JSON(http.StatusOK, gin.H{"message": "no pending newsletter jobs"})
		case errors.Is(err, service.ErrNewsletterJobNotFound):
			response.RenderErr(ctx, response.ErrNotFound("newsletter job", "ID", req.JobID))
		case errors.Is(err, service.ErrMailRateLimited):
			response.RenderErr(ctx, response.ErrRetryLater(err))
		default:
			err = fmt.Errorf("v1.HandleProcessNewsletter -> h.svc.ProcessNext -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, result)
}
