package models

import "gorm.io/gorm"

const (
	NotificationTypeTask    = "task"
	NotificationTypeComment = "comment"
	NotificationTypeProject = "project"
	NotificationTypeSystem  = "system"
)

type Notification struct {
	gorm.Model

	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Message string `gorm:"not null" json:"message"`
	Type    string `gorm:"not null" json:"type"`
	Link    string `gorm:"not null" json:"link"`
	// ProjectID ties the notification to its project so a project
	// delete can cascade relationally instead of matching on Link.
	ProjectID *uint `gorm:"index" json:"project_id"`
	IsRead    bool  `gorm:"not null;default:false" json:"is_read"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
