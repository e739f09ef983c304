package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusTodo       = "To-Do"
	TaskStatusInProgress = "In Progress"
	TaskStatusDone       = "Done"
	TaskStatusBlocked    = "Blocked"
)

type Task struct {
	gorm.Model

	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `gorm:"not null;default:To-Do" json:"status"`
	Priority    string     `gorm:"not null;default:Medium" json:"priority"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	Project  Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Comments []Comment `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusBlocked:
		return true
	}
	return false
}
