package services

import (
	"fmt"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/authz"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"github.com/vikram-2101/project-manager-app/internal/repositories"
	log "github.com/sirupsen/logrus"
)

type CommentService struct {
	comments repositories.CommentRepository
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	notifier Notifier
}

func NewCommentService(
	comments repositories.CommentRepository,
	tasks repositories.TaskRepository,
	projects repositories.ProjectRepository,
	notifier Notifier,
) *CommentService {
	return &CommentService{
		comments: comments,
		tasks:    tasks,
		projects: projects,
		notifier: notifier,
	}
}

type CreateCommentInput struct {
	TaskID          uint
	Content         string
	ParentCommentID *uint
}

// Create posts a comment on a task in a project the actor belongs to,
// then notifies the task's assignee and the project manager.
func (s *CommentService) Create(actor Actor, input CreateCommentInput) (*models.Comment, error) {
	task, err := s.tasks.FindByID(input.TaskID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireMember, actor.Role); err != nil {
		return nil, err
	}

	if input.ParentCommentID != nil {
		parent, err := s.comments.FindByID(*input.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.TaskID != task.ID {
			return nil, apperrors.Validation("parent comment does not belong to this task")
		}
	}

	comment := &models.Comment{
		Content:         input.Content,
		AuthorID:        actor.ID,
		TaskID:          task.ID,
		ParentCommentID: input.ParentCommentID,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("%s commented on task %q", actor.Name, task.Title)
	link := taskLink(project.ID, task.ID)

	if task.AssigneeID != nil && *task.AssigneeID != actor.ID {
		s.notify(*task.AssigneeID, message, link, &project.ID)
	}
	if project.ProjectManagerID != actor.ID &&
		(task.AssigneeID == nil || project.ProjectManagerID != *task.AssigneeID) {
		s.notify(project.ProjectManagerID, message, link, &project.ID)
	}

	return comment, nil
}

// Update edits the content. Only the author or a global admin may
// edit, and the editor must still be a member of the task's project.
func (s *CommentService) Update(actor Actor, commentID uint, content string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("not authorized to edit this comment")
	}

	task, err := s.tasks.FindByID(comment.TaskID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireMember, actor.Role); err != nil {
		return nil, err
	}

	if err := s.comments.UpdateContent(comment, content); err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

// Delete removes a comment. Allowed for the author, the owning
// project's manager, or a global admin.
func (s *CommentService) Delete(actor Actor, commentID uint) error {
	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actor.ID && actor.Role != models.RoleAdmin {
		task, err := s.tasks.FindByID(comment.TaskID)
		if err != nil {
			return err
		}
		project, err := s.projects.FindByID(task.ProjectID)
		if err != nil {
			return err
		}
		if project.ProjectManagerID != actor.ID {
			return apperrors.Forbidden("not authorized to delete this comment")
		}
	}

	return s.comments.Delete(comment.ID)
}

// ListByTask returns a task's comments for any member of its project.
func (s *CommentService) ListByTask(actor Actor, taskID uint) ([]models.Comment, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireMember, actor.Role); err != nil {
		return nil, err
	}

	return s.comments.FindByTask(task.ID)
}

func (s *CommentService) notify(userID uint, message, link string, projectID *uint) {
	if _, err := s.notifier.Create(userID, message, models.NotificationTypeComment, link, projectID); err != nil {
		log.Errorf("Failed to create notification for user %d: %v", userID, err)
	}
}
