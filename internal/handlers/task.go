package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskstack/todo-api/internal/dto"
	"github.com/taskstack/todo-api/internal/middleware"
	"github.com/taskstack/todo-api/internal/problem"
	"github.com/taskstack/todo-api/internal/services"
)

// TaskHandler coordinates task CRUD HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// List returns the caller's tasks, newest first.
func (h *TaskHandler) List(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		problem.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.List(identity)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// Create creates a task owned by the caller.
func (h *TaskHandler) Create(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		problem.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Validation(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(identity, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// Get returns a single task owned by the caller.
func (h *TaskHandler) Get(c *gin.Context) {
	identity, taskID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(identity, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Update applies a partial update; absent fields keep their values.
func (h *TaskHandler) Update(c *gin.Context) {
	identity, taskID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Validation(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(identity, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Delete permanently removes a task owned by the caller.
func (h *TaskHandler) Delete(c *gin.Context) {
	identity, taskID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(identity, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Toggle flips the completed flag.
func (h *TaskHandler) Toggle(c *gin.Context) {
	identity, taskID, ok := taskRequestContext(c)
	if !ok {
		return
	}

	task, err := h.taskService.Toggle(identity, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// taskRequestContext extracts the identity and the :id path parameter,
// responding with the appropriate problem on failure.
func taskRequestContext(c *gin.Context) (*services.Identity, uuid.UUID, bool) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		problem.Unauthorized(c, "")
		return nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		problem.Validation(c, "Invalid task id")
		return nil, uuid.Nil, false
	}

	return identity, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleTooLong),
		errors.Is(err, services.ErrDescriptionTooLong):
		problem.Validation(c, capitalize(err.Error()))
	case errors.Is(err, services.ErrTaskNotFound):
		problem.NotFound(c, capitalize(err.Error()))
	default:
		problem.Database(c)
	}
}
