package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nft1025/task/internal/auth"
	"github.com/nft1025/task/internal/domain"
	"github.com/nft1025/task/internal/dto"
	"github.com/nft1025/task/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List godoc
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListTasksResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	sess := auth.SessionFromContext(c)
	list := h.svc.List(c.Request.Context(), sess.UserID)
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	sess := auth.SessionFromContext(c)
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and userId required"})
		return
	}
	task, err := h.svc.Create(c.Request.Context(), *sess, service.CreateInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline.Ptr(),
	})
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(task))
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Task body"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	sess := auth.SessionFromContext(c)
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and userId required"})
		return
	}
	task, err := h.svc.Update(c.Request.Context(), *sess, domain.Task{
		ID:          c.Param("id"),
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline.Ptr(),
		Completed:   req.Completed,
	})
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(task))
}

// Delete godoc
// @Summary      Delete a task (idempotent)
// @Tags         tasks
// @Security     CookieAuth
// @Param        id  path  string  true  "Task ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	sess := auth.SessionFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), *sess, c.Param("id")); err != nil {
		writeTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetStatus godoc
// @Summary      Set a task's completed flag
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.UpdateStatusRequest  true  "Status"
// @Success      200   {object}  dto.TaskResponse
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id}/status [patch]
func (h *TaskHandler) SetStatus(c *gin.Context) {
	sess := auth.SessionFromContext(c)
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completed required"})
		return
	}
	task, err := h.svc.SetCompleted(c.Request.Context(), *sess, c.Param("id"), *req.Completed)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(task))
}

// Bulk godoc
// @Summary      Apply partial updates to many tasks
// @Tags         tasks
// @Accept       json
// @Security     CookieAuth
// @Param        body  body  dto.BulkUpdateRequest  true  "Updates"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /tasks/bulk [post]
func (h *TaskHandler) Bulk(c *gin.Context) {
	sess := auth.SessionFromContext(c)
	var req dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "updates required"})
		return
	}
	patches := make([]service.TaskPatch, 0, len(req.Updates))
	for _, u := range req.Updates {
		p := service.TaskPatch{
			ID:          u.ID,
			Title:       u.Title,
			Description: u.Description,
			Completed:   u.Completed,
		}
		if u.Deadline != nil {
			p.Deadline = u.Deadline.Ptr()
		}
		patches = append(patches, p)
	}
	if err := h.svc.BulkUpdate(c.Request.Context(), *sess, patches); err != nil {
		writeTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeTaskError maps service sentinels to HTTP statuses with generic
// messages; internal detail stays in the logs.
func writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only modify your own tasks"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save tasks"})
	}
}

func taskToResponse(t domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

func tasksToResponses(list []domain.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
