package services

import (
	"fmt"
	"time"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/authz"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"github.com/vikram-2101/project-manager-app/internal/repositories"
	log "github.com/sirupsen/logrus"
)

type TaskService struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
	notifier Notifier
}

func NewTaskService(
	tasks repositories.TaskRepository,
	projects repositories.ProjectRepository,
	comments repositories.CommentRepository,
	users repositories.UserRepository,
	notifier Notifier,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		comments: comments,
		users:    users,
		notifier: notifier,
	}
}

type CreateTaskInput struct {
	ProjectID   uint
	Title       string
	Description string
	AssigneeID  *uint
	DueDate     *time.Time
	Status      string
	Priority    string
}

// Create adds a task to a project the actor belongs to. The assignee
// must exist but is not required to be a project member.
func (s *TaskService) Create(actor Actor, input CreateTaskInput) (*models.Task, error) {
	project, err := s.projects.FindByID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireMember, actor.Role); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, apperrors.Validation("invalid status %q", input.Status)
	}
	if !models.ValidPriority(input.Priority) {
		return nil, apperrors.Validation("invalid priority %q", input.Priority)
	}

	if input.AssigneeID != nil {
		if _, err := s.users.FindByID(*input.AssigneeID); err != nil {
			return nil, apperrors.Validation("assigned user not found")
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   project.ID,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
		Status:      input.Status,
		Priority:    input.Priority,
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}

	if task.AssigneeID != nil && *task.AssigneeID != actor.ID {
		s.notify(*task.AssigneeID,
			fmt.Sprintf("You have been assigned to task %q in project %q", task.Title, project.Name),
			taskLink(project.ID, task.ID),
			&project.ID)
	}

	return task, nil
}

// UpdateTaskInput patches a task. A nil field is left alone. An
// AssigneeID of 0 clears the assignee.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	AssigneeID  *uint
}

// Update applies the patch and fans out the status-change and
// assignee-change notifications. The two sets are independent; both
// may fire in the same call.
func (s *TaskService) Update(actor Actor, taskID uint, input UpdateTaskInput) (*models.Task, error) {
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

	oldStatus := task.Status
	oldAssignee := task.AssigneeID

	patch := make(map[string]interface{})
	if input.Title != nil {
		patch["title"] = *input.Title
	}
	if input.Description != nil {
		patch["description"] = *input.Description
	}
	if input.DueDate != nil {
		patch["due_date"] = *input.DueDate
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, apperrors.Validation("invalid priority %q", *input.Priority)
		}
		patch["priority"] = *input.Priority
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, apperrors.Validation("invalid status %q", *input.Status)
		}
		patch["status"] = *input.Status
		if *input.Status == models.TaskStatusDone && oldStatus != models.TaskStatusDone {
			patch["completed_at"] = time.Now().UTC()
		} else if *input.Status != models.TaskStatusDone && oldStatus == models.TaskStatusDone {
			patch["completed_at"] = nil
		}
	}

	var newAssignee *uint
	assigneeChanged := false
	if input.AssigneeID != nil {
		if *input.AssigneeID == 0 {
			patch["assignee_id"] = nil
		} else {
			if _, err := s.users.FindByID(*input.AssigneeID); err != nil {
				return nil, apperrors.Validation("assigned user not found")
			}
			id := *input.AssigneeID
			newAssignee = &id
			patch["assignee_id"] = id
		}
		assigneeChanged = !uintPtrEqual(oldAssignee, newAssignee)
	}

	if len(patch) > 0 {
		if err := s.tasks.Update(task, patch); err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.AssigneeID != nil {
		task.AssigneeID = newAssignee
	}

	link := taskLink(project.ID, task.ID)

	if input.Status != nil && *input.Status != oldStatus {
		message := fmt.Sprintf("Task %q status changed from %s to %s", task.Title, oldStatus, *input.Status)
		if *input.Status == models.TaskStatusDone {
			message = fmt.Sprintf("Task %q has been completed", task.Title)
		}

		currentAssignee := oldAssignee
		if input.AssigneeID != nil {
			currentAssignee = newAssignee
		}
		if currentAssignee != nil && *currentAssignee != actor.ID {
			s.notify(*currentAssignee, message, link, &project.ID)
		}
		if project.ProjectManagerID != actor.ID &&
			(currentAssignee == nil || project.ProjectManagerID != *currentAssignee) {
			s.notify(project.ProjectManagerID, message, link, &project.ID)
		}
	}

	if assigneeChanged {
		if oldAssignee != nil {
			s.notify(*oldAssignee,
				fmt.Sprintf("You have been unassigned from task %q", task.Title),
				link, &project.ID)
		}
		if newAssignee != nil && *newAssignee != actor.ID {
			s.notify(*newAssignee,
				fmt.Sprintf("You have been assigned to task %q in project %q", task.Title, project.Name),
				link, &project.ID)
		}
	}

	return task, nil
}

// Delete removes a task and its comments. Only the project manager or
// a global admin may delete; no notification is emitted.
func (s *TaskService) Delete(actor Actor, taskID uint) error {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return err
	}
	project, err := s.projects.FindByID(task.ProjectID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireManager, actor.Role); err != nil {
		return err
	}

	if err := s.comments.DeleteByTask(task.ID); err != nil {
		return err
	}
	return s.tasks.Delete(task.ID)
}

// ListForUser returns the actor's task view: everything for a global
// admin, otherwise tasks assigned to them or in their projects.
func (s *TaskService) ListForUser(actor Actor, filter repositories.TaskFilter) ([]models.Task, error) {
	if actor.Role == models.RoleAdmin {
		return s.tasks.FindAll(filter)
	}

	projectIDs, err := s.projects.MemberProjectIDs(actor.ID)
	if err != nil {
		return nil, err
	}
	return s.tasks.FindForUser(actor.ID, projectIDs, filter)
}

// ListByProject returns a project's tasks for any of its members.
func (s *TaskService) ListByProject(actor Actor, projectID uint) ([]models.Task, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireMember, actor.Role); err != nil {
		return nil, err
	}
	return s.tasks.FindByProject(project.ID)
}

// Get returns a task in a project the actor belongs to, with comments.
func (s *TaskService) Get(actor Actor, taskID uint) (*models.Task, []models.Comment, error) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.projects.FindByID(task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireMember, actor.Role); err != nil {
		return nil, nil, err
	}

	comments, err := s.comments.FindByTask(task.ID)
	if err != nil {
		return nil, nil, err
	}
	return task, comments, nil
}

func (s *TaskService) notify(userID uint, message, link string, projectID *uint) {
	if _, err := s.notifier.Create(userID, message, models.NotificationTypeTask, link, projectID); err != nil {
		log.Errorf("Failed to create notification for user %d: %v", userID, err)
	}
}

func taskLink(projectID, taskID uint) string {
	return fmt.Sprintf("/projects/%d/tasks/%d", projectID, taskID)
}

func uintPtrEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
