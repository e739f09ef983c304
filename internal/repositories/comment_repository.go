package repositories

import (
	"errors"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByID(id uint) (*models.Comment, error)
	FindByTask(taskID uint) ([]models.Comment, error)
	UpdateContent(comment *models.Comment, content string) error
	Delete(id uint) error
	DeleteByTask(taskID uint) error
	DeleteByProject(projectID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) FindByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("comment not found")
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByTask(taskID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("Author").Where("task_id = ?", taskID).Order("created_at").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(comment *models.Comment, content string) error {
	return r.db.Model(comment).Update("content", content).Error
}

func (r *commentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

func (r *commentRepository) DeleteByTask(taskID uint) error {
	return r.db.Where("task_id = ?", taskID).Delete(&models.Comment{}).Error
}

func (r *commentRepository) DeleteByProject(projectID uint) error {
	return r.db.Where("task_id IN (?)",
		r.db.Model(&models.Task{}).Select("id").Where("project_id = ?", projectID),
	).Delete(&models.Comment{}).Error
}
