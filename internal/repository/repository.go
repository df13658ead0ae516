package repository

import (
	"github.com/google/uuid"

	"github.com/taskstack/todo-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user. Unique-constraint violations are returned
	// as gorm.ErrDuplicatedKey.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email, case-insensitively
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username, case-sensitively
	FindByUsername(username string) (*models.User, error)
}

// TaskRepository defines the interface for task data access. Every lookup
// and mutation is scoped to an owner so cross-user access is impossible at
// the query layer.
type TaskRepository interface {
	// Create inserts a new task
	Create(task *models.Task) error

	// FindByIDForUser finds a task by ID owned by the given user
	FindByIDForUser(id, userID uuid.UUID) (*models.Task, error)

	// ListByUser returns the user's tasks ordered newest-first
	ListByUser(userID uuid.UUID) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// DeleteForUser permanently removes a task owned by the given user.
	// Returns gorm.ErrRecordNotFound when no owned row matched.
	DeleteForUser(id, userID uuid.UUID) error
}
