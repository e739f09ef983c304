package repositories

import (
	"errors"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uint) (*models.Project, error)
	FindAll() ([]models.Project, error)
	FindByMember(userID uint) ([]models.Project, error)
	MemberProjectIDs(userID uint) ([]uint, error)
	Update(project *models.Project, patch map[string]interface{}) error
	AddMembers(project *models.Project, users []models.User) error
	Delete(id uint) error
	CountAll() (int64, error)
	CountByMember(userID uint) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *models.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("a project with this name already exists")
		}
		return err
	}
	return nil
}

func (r *projectRepository) FindByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("TeamMembers").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindAll() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("TeamMembers").Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) FindByMember(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Preload("TeamMembers").
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ? OR projects.project_manager_id = ?", userID, userID).
		Distinct().
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) MemberProjectIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Project{}).
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ? OR projects.project_manager_id = ?", userID, userID).
		Distinct().
		Pluck("projects.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *projectRepository) Update(project *models.Project, patch map[string]interface{}) error {
	if err := r.db.Model(project).Updates(patch).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("a project with this name already exists")
		}
		return err
	}
	return nil
}

func (r *projectRepository) AddMembers(project *models.Project, users []models.User) error {
	return r.db.Model(project).Association("TeamMembers").Append(users)
}

func (r *projectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}

func (r *projectRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}

func (r *projectRepository) CountByMember(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ? OR projects.project_manager_id = ?", userID, userID).
		Distinct("projects.id").
		Count(&count).Error
	return count, err
}
