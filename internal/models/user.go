package models

import "gorm.io/gorm"

const (
	RoleTeamMember = "team-member"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null;default:team-member" json:"role"`

	// Relationships
	ManagedProjects []Project      `gorm:"foreignKey:ProjectManagerID" json:"-"`
	Notifications   []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
