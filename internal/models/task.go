package models

import (
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParseTaskStatus maps raw client input onto the status enum. Matching is
// case-insensitive and the empty string resolves to the StatusTodo default,
// so create and update can share one code path.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return StatusTodo, true
	case string(StatusTodo):
		return StatusTodo, true
	case string(StatusInProgress):
		return StatusInProgress, true
	case string(StatusDone):
		return StatusDone, true
	}
	return "", false
}

// ParseTaskPriority is the priority counterpart of ParseTaskStatus; the
// empty string resolves to PriorityLow.
func ParseTaskPriority(raw string) (TaskPriority, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return PriorityLow, true
	case string(PriorityLow):
		return PriorityLow, true
	case string(PriorityMedium):
		return PriorityMedium, true
	case string(PriorityHigh):
		return PriorityHigh, true
	}
	return "", false
}

type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	UserID      uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"not null;default:'todo'"`
	Priority    TaskPriority `json:"priority" gorm:"not null;default:'low'"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
