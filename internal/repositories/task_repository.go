package repositories

import (
	"errors"
	"time"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"gorm.io/gorm"
)

// TaskFilter narrows task listings; nil fields are ignored.
type TaskFilter struct {
	Status    *string
	ProjectID *uint
}

type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id uint) (*models.Task, error)
	FindByProject(projectID uint) ([]models.Task, error)
	FindAll(filter TaskFilter) ([]models.Task, error)
	FindForUser(userID uint, projectIDs []uint, filter TaskFilter) ([]models.Task, error)
	Update(task *models.Task, patch map[string]interface{}) error
	Delete(id uint) error
	DeleteByProject(projectID uint) error
	CountByProject(projectID uint) (int64, error)
	StatusCounts(projectID, assigneeID *uint) (map[string]int64, error)
	CountDueToday(assigneeID *uint) (int64, error)
	CountAll() (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

func (r *taskRepository) FindByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByProject(projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Assignee").Where("project_id = ?", projectID).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) FindAll(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Preload("Assignee")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) FindForUser(userID uint, projectIDs []uint, filter TaskFilter) ([]models.Task, error) {
	query := r.db.Preload("Assignee").
		Where("assignee_id = ? OR project_id IN ?", userID, projectIDs)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(task *models.Task, patch map[string]interface{}) error {
	return r.db.Model(task).Updates(patch).Error
}

func (r *taskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Task{}, id).Error
}

func (r *taskRepository) DeleteByProject(projectID uint) error {
	return r.db.Where("project_id = ?", projectID).Delete(&models.Task{}).Error
}

func (r *taskRepository) CountByProject(projectID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

func (r *taskRepository) StatusCounts(projectID, assigneeID *uint) (map[string]int64, error) {
	query := r.db.Model(&models.Task{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if assigneeID != nil {
		query = query.Where("assignee_id = ?", *assigneeID)
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := query.Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *taskRepository) CountDueToday(assigneeID *uint) (int64, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := r.db.Model(&models.Task{}).
		Where("due_date >= ? AND due_date < ?", dayStart, dayEnd).
		Where("status <> ?", models.TaskStatusDone)
	if assigneeID != nil {
		query = query.Where("assignee_id = ?", *assigneeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *taskRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}
