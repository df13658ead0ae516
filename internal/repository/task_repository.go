package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskstack/todo-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByIDForUser finds a task by ID owned by the given user. A task owned
// by someone else is indistinguishable from a missing one.
func (r *GormTaskRepository) FindByIDForUser(id, userID uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser returns the user's tasks ordered newest-first. The ordering is
// part of the API contract.
func (r *GormTaskRepository) ListByUser(userID uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// DeleteForUser permanently removes a task owned by the given user
func (r *GormTaskRepository) DeleteForUser(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
