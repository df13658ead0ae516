package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskstack/todo-api/internal/models"
	"github.com/taskstack/todo-api/internal/repository"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title cannot be empty or whitespace-only")
	ErrTitleTooLong       = fmt.Errorf("title cannot exceed %d characters", MaxTitleLength)
	ErrDescriptionTooLong = fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)
)

// TaskService handles task business logic. Every operation is scoped to the
// caller's identity; a task owned by another user behaves exactly like a
// missing one.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Completed   bool
}

// UpdateTaskInput represents a partial update; nil fields are left unchanged
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// List returns the identity's tasks ordered newest-first
func (s *TaskService) List(identity *Identity) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByUser(identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create validates the input and creates a task owned by the identity.
// The owner always comes from the verified token, never from the payload.
func (s *TaskService) Create(identity *Identity, input CreateTaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:      identity.UserID,
		Title:       title,
		Description: input.Description,
		Completed:   input.Completed,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// Get returns a task owned by the identity
func (s *TaskService) Get(identity *Identity, taskID uuid.UUID) (*models.Task, error) {
	return s.findOwned(identity, taskID)
}

// Update applies a partial update to a task owned by the identity
func (s *TaskService) Update(identity *Identity, taskID uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwned(identity, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if input.Description != nil {
		if err := validateDescription(*input.Description); err != nil {
			return nil, err
		}
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete permanently removes a task owned by the identity
func (s *TaskService) Delete(identity *Identity, taskID uuid.UUID) error {
	err := s.taskRepo.DeleteForUser(taskID, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Toggle flips the completed flag without the caller needing to know the
// current value
func (s *TaskService) Toggle(identity *Identity, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.findOwned(identity, taskID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return task, nil
}

func (s *TaskService) findOwned(identity *Identity, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDForUser(taskID, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Limits count characters, not bytes, so multibyte titles get the full 200.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
