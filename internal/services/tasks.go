package services

import (
	"strings"
	"time"

	"taskhub/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CreateTaskInput struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskInput is a partial payload: nil fields stay untouched.
type UpdateTaskInput struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type TaskService interface {
	GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error)
	GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error)
	CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error)
	UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, input UpdateTaskInput) (models.Task, error)
	DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func statusFromInput(raw string) (models.TaskStatus, error) {
	status, ok := models.ParseTaskStatus(raw)
	if !ok {
		return "", NewValidationError("Invalid status value: %s", raw)
	}
	return status, nil
}

func priorityFromInput(raw string) (models.TaskPriority, error) {
	priority, ok := models.ParseTaskPriority(raw)
	if !ok {
		return "", NewValidationError("Invalid priority value: %s", raw)
	}
	return priority, nil
}

func (s *TaskServiceImpl) GetTasksByUser(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := db.Where("user_id = ?", ownerID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTaskByID matches on id and owner together, so a task belonging to
// someone else is indistinguishable from one that does not exist.
func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task
	if err := db.Where("id = ? AND user_id = ?", taskID, ownerID).First(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, NewValidationError("title must not be blank")
	}

	status, err := statusFromInput(input.Status)
	if err != nil {
		return models.Task{}, err
	}
	priority, err := priorityFromInput(input.Priority)
	if err != nil {
		return models.Task{}, err
	}

	now := time.Now()
	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      ownerID,
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, input UpdateTaskInput) (models.Task, error) {
	task, err := s.GetTaskByID(db, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return models.Task{}, NewValidationError("title must not be blank")
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		status, err := statusFromInput(*input.Status)
		if err != nil {
			return models.Task{}, err
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority, err := priorityFromInput(*input.Priority)
		if err != nil {
			return models.Task{}, err
		}
		task.Priority = priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	task.UpdatedAt = time.Now()
	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	result := db.Where("id = ? AND user_id = ?", taskID, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
