package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model

	Content         string `gorm:"not null" json:"content"`
	AuthorID        uint   `gorm:"not null;index" json:"author_id"`
	TaskID          uint   `gorm:"not null;index" json:"task_id"`
	ParentCommentID *uint  `json:"parent_comment_id"`

	// Relationships
	Author        User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Task          Task     `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	ParentComment *Comment `gorm:"foreignKey:ParentCommentID" json:"-"`
}
