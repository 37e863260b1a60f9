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

type TaskService interface {
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	GetTasksForEvent(ctx context.Context, eventID uint) ([]domain.Task, error)
	Volunteer(ctx context.Context, taskID, userID uint) error
	Abandon(ctx context.Context, taskID, userID uint) error
	SetStatus(ctx context.Context, taskID, userID uint, status domain.TaskStatus) error
}

type TaskHandler struct {
	svc  TaskService
	uSvc UserService
}

func NewTaskHandler(svc TaskService, uSvc UserService) *TaskHandler {
	return &TaskHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateTask godoc
// @Summary      Create a volunteer task for an event
// @Tags         tasks
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Param        request  body       request.CreateTaskRequest true "request body"
// @Success      201      {object}   domain.Task
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/tasks [post]
func (h *TaskHandler) HandleCreateTask(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("only admins can create tasks")))

		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.CreateTaskRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	id := uint(eventID)
	task, err := h.svc.CreateTask(ctx.Request.Context(), domain.Task{
		Title:       req.Title,
		Description: req.Description,
		EventID:     &id,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateTask -> h.svc.CreateTask -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, task)
}

// HandleGetTasks godoc
// @Summary      List volunteer tasks of an event
// @Tags         tasks
// @Produce      json
// @Param        eventID  path       int  true "event ID"
// @Success      200      {array}    domain.Task
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /events/{eventID}/tasks [get]
func (h *TaskHandler) HandleGetTasks(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	tasks, err := h.svc.GetTasksForEvent(ctx.Request.Context(), uint(eventID))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTasks -> h.svc.GetTasksForEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

// HandleVolunteer godoc
// @Summary      Volunteer for a task
// @Tags         tasks
// @Produce      json
// @Param        taskID   path       int  true "task ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /tasks/{taskID}/volunteer [post]
func (h *TaskHandler) HandleVolunteer(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	taskID, err := strconv.ParseUint(ctx.Param("taskID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err = h.svc.Volunteer(ctx.Request.Context(), uint(taskID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			response.RenderErr(ctx, response.ErrNotFound("task", "ID", taskID))
		case errors.Is(err, service.ErrTaskAlreadyTaken):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleVolunteer -> h.svc.Volunteer -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAbandon godoc
// @Summary      Abandon a task the caller volunteered for
// @Tags         tasks
// @Produce      json
// @Param        taskID   path       int  true "task ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /tasks/{taskID}/volunteer [delete]
func (h *TaskHandler) HandleAbandon(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	taskID, err := strconv.ParseUint(ctx.Param("taskID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err = h.svc.Abandon(ctx.Request.Context(), uint(taskID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			response.RenderErr(ctx, response.ErrNotFound("task", "ID", taskID))
		case errors.Is(err, service.ErrNotTaskAssignee):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleAbandon -> h.svc.Abandon -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUpdateTaskStatus godoc
// @Summary      Update the status of a task
// @Tags         tasks
// @Produce      json
// @Param        taskID   path       int  true "task ID"
// @Param        request  body       request.UpdateTaskStatusRequest true "request body"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerToken
// @Router       /tasks/{taskID}/status [patch]
func (h *TaskHandler) HandleUpdateTaskStatus(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	taskID, err := strconv.ParseUint(ctx.Param("taskID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateTaskStatusRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err = h.svc.SetStatus(ctx.Request.Context(), uint(taskID), user.ID, domain.TaskStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			response.RenderErr(ctx, response.ErrNotFound("task", "ID", taskID))
		case errors.Is(err, service.ErrNotTaskAssignee):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateTaskStatus -> h.svc.SetStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}
