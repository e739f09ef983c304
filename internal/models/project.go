package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProjectStatusNotStarted = "Not Started"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusOnHold     = "On Hold"
	ProjectStatusCompleted  = "Completed"
	ProjectStatusCancelled  = "Cancelled"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"

	AccessPublic  = "Public"
	AccessPrivate = "Private"
)

type Project struct {
	gorm.Model

	Name             string         `gorm:"uniqueIndex;not null" json:"name"`
	Description      string         `json:"description"`
	StartDate        *time.Time     `json:"start_date"`
	EndDate          *time.Time     `json:"end_date"`
	ProjectManagerID uint           `gorm:"not null;index" json:"project_manager_id"`
	Priority         string         `gorm:"not null;default:Medium" json:"priority"`
	Status           string         `gorm:"not null;default:Not Started" json:"status"`
	Access           string         `gorm:"not null;default:Private" json:"access"`
	Tags             datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	Attachments      datatypes.JSON `gorm:"type:jsonb" json:"attachments"`

	// Relationships
	ProjectManager User   `gorm:"foreignKey:ProjectManagerID" json:"-"`
	TeamMembers    []User `gorm:"many2many:project_members" json:"team_members,omitempty"`
	Tasks          []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusNotStarted, ProjectStatusInProgress, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

func ValidPriority(s string) bool {
	switch s {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ValidAccess(s string) bool {
	return s == AccessPublic || s == AccessPrivate
}
