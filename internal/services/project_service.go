package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/authz"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"github.com/vikram-2101/project-manager-app/internal/repositories"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type ProjectService struct {
	projects      repositories.ProjectRepository
	tasks         repositories.TaskRepository
	comments      repositories.CommentRepository
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	notifier      Notifier
}

func NewProjectService(
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	comments repositories.CommentRepository,
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	notifier Notifier,
) *ProjectService {
	return &ProjectService{
		projects:      projects,
		tasks:         tasks,
		comments:      comments,
		notifications: notifications,
		users:         users,
		notifier:      notifier,
	}
}

type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Priority    string
	Status      string
	Access      string
	Tags        datatypes.JSON
	Attachments datatypes.JSON
}

// Create makes the actor the project manager and the sole initial team
// member. A creator who is not yet a global admin is promoted to admin.
func (s *ProjectService) Create(actor Actor, input CreateProjectInput) (*models.Project, error) {
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.Status == "" {
		input.Status = models.ProjectStatusNotStarted
	}
	if input.Access == "" {
		input.Access = models.AccessPrivate
	}
	if !models.ValidPriority(input.Priority) {
		return nil, apperrors.Validation("invalid priority %q", input.Priority)
	}
	if !models.ValidProjectStatus(input.Status) {
		return nil, apperrors.Validation("invalid status %q", input.Status)
	}
	if !models.ValidAccess(input.Access) {
		return nil, apperrors.Validation("invalid access %q", input.Access)
	}

	manager, err := s.users.FindByID(actor.ID)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:             input.Name,
		Description:      input.Description,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		ProjectManagerID: actor.ID,
		Priority:         input.Priority,
		Status:           input.Status,
		Access:           input.Access,
		Tags:             input.Tags,
		Attachments:      input.Attachments,
		TeamMembers:      []models.User{*manager},
	}

	if err := s.projects.Create(project); err != nil {
		return nil, err
	}

	if actor.Role != models.RoleAdmin {
		if err := s.users.UpdateRole(actor.ID, models.RoleAdmin); err != nil {
			return nil, err
		}
	}

	s.notify(project.ProjectManagerID,
		fmt.Sprintf("Project %q created successfully", project.Name),
		models.NotificationTypeProject,
		fmt.Sprintf("/projects/%d", project.ID),
		&project.ID)

	return project, nil
}

// AddTeamMembers appends the given users to the project's team. IDs
// already on the team are dropped; if nothing new remains the call
// succeeds as a no-op. Every surviving ID must resolve to a user.
func (s *ProjectService) AddTeamMembers(actor Actor, projectID uint, memberIDs []uint) (*models.Project, string, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return nil, "", err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireManager, actor.Role); err != nil {
		return nil, "", err
	}

	existing := make(map[uint]bool, len(project.TeamMembers)+1)
	existing[project.ProjectManagerID] = true
	for _, member := range project.TeamMembers {
		existing[member.ID] = true
	}

	var survivors []uint
	for _, id := range memberIDs {
		if !existing[id] {
			existing[id] = true
			survivors = append(survivors, id)
		}
	}

	if len(survivors) == 0 {
		return project, "All users are already team members", nil
	}

	found, err := s.users.FindByIDs(survivors)
	if err != nil {
		return nil, "", err
	}
	if len(found) != len(survivors) {
		resolved := make(map[uint]bool, len(found))
		for _, user := range found {
			resolved[user.ID] = true
		}
		var missing []string
		for _, id := range survivors {
			if !resolved[id] {
				missing = append(missing, fmt.Sprintf("%d", id))
			}
		}
		sort.Strings(missing)
		return nil, "", apperrors.Validation("invalid user ids: %s", strings.Join(missing, ", "))
	}

	if err := s.projects.AddMembers(project, found); err != nil {
		return nil, "", err
	}
	project.TeamMembers = append(project.TeamMembers, found...)

	for _, user := range found {
		s.notify(user.ID,
			fmt.Sprintf("You have been added to project %q", project.Name),
			models.NotificationTypeProject,
			fmt.Sprintf("/projects/%d", project.ID),
			&project.ID)
	}

	return project, "Team members added successfully", nil
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Priority    *string
	Status      *string
	Access      *string
	Tags        datatypes.JSON
	Attachments datatypes.JSON
}

// Update applies the patch. The manager, team member set, and creation
// timestamp are not patchable through this path.
func (s *ProjectService) Update(actor Actor, projectID uint, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireManager, actor.Role); err != nil {
		return nil, err
	}

	patch := make(map[string]interface{})
	if input.Name != nil {
		patch["name"] = *input.Name
	}
	if input.Description != nil {
		patch["description"] = *input.Description
	}
	if input.StartDate != nil {
		patch["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		patch["end_date"] = *input.EndDate
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, apperrors.Validation("invalid priority %q", *input.Priority)
		}
		patch["priority"] = *input.Priority
	}
	if input.Status != nil {
		if !models.ValidProjectStatus(*input.Status) {
			return nil, apperrors.Validation("invalid status %q", *input.Status)
		}
		patch["status"] = *input.Status
	}
	if input.Access != nil {
		if !models.ValidAccess(*input.Access) {
			return nil, apperrors.Validation("invalid access %q", *input.Access)
		}
		patch["access"] = *input.Access
	}
	if input.Tags != nil {
		patch["tags"] = input.Tags
	}
	if input.Attachments != nil {
		patch["attachments"] = input.Attachments
	}

	if len(patch) > 0 {
		if err := s.projects.Update(project, patch); err != nil {
			return nil, err
		}
	}

	name := project.Name
	if input.Name != nil {
		name = *input.Name
		project.Name = name
	}

	s.notify(project.ProjectManagerID,
		fmt.Sprintf("Project %q was updated", name),
		models.NotificationTypeProject,
		fmt.Sprintf("/projects/%d", project.ID),
		&project.ID)

	return project, nil
}

// Delete removes the project and cascades: comments on its tasks, the
// tasks themselves, and its notifications (by project id). The former
// manager gets a system notification pointing at the dashboard.
func (s *ProjectService) Delete(actor Actor, projectID uint) error {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireManager, actor.Role); err != nil {
		return err
	}

	// Comments first: their cascade resolves task ids through the
	// tasks table, which must still exist.
	if err := s.comments.DeleteByProject(project.ID); err != nil {
		return err
	}
	if err := s.tasks.DeleteByProject(project.ID); err != nil {
		return err
	}
	if err := s.notifications.DeleteByProject(project.ID); err != nil {
		return err
	}
	if err := s.projects.Delete(project.ID); err != nil {
		return err
	}

	s.notify(project.ProjectManagerID,
		fmt.Sprintf("Project %q and all of its tasks were deleted", project.Name),
		models.NotificationTypeSystem,
		"/dashboard",
		nil)

	return nil
}

// ProjectSummary pairs a project with its task counts by status, for
// list views.
type ProjectSummary struct {
	models.Project
	TaskCounts map[string]int64 `json:"task_counts"`
}

// List returns every project for a global admin, otherwise the
// projects the actor belongs to.
func (s *ProjectService) List(actor Actor) ([]ProjectSummary, error) {
	var (
		projects []models.Project
		err      error
	)

	if actor.Role == models.RoleAdmin {
		projects, err = s.projects.FindAll()
	} else {
		projects, err = s.projects.FindByMember(actor.ID)
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for i := range projects {
		projectID := projects[i].ID
		counts, err := s.tasks.StatusCounts(&projectID, nil)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ProjectSummary{Project: projects[i], TaskCounts: counts})
	}
	return summaries, nil
}

// Get returns a project the actor may access along with its tasks.
func (s *ProjectService) Get(actor Actor, projectID uint) (*models.Project, []models.Task, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.Authorize(project, actor.ID, authz.RequireMember, actor.Role); err != nil {
		return nil, nil, err
	}

	tasks, err := s.tasks.FindByProject(project.ID)
	if err != nil {
		return nil, nil, err
	}
	return project, tasks, nil
}

func (s *ProjectService) notify(userID uint, message, notificationType, link string, projectID *uint) {
	if _, err := s.notifier.Create(userID, message, notificationType, link, projectID); err != nil {
		log.Errorf("Failed to create notification for user %d: %v", userID, err)
	}
}
