package services

import (
	"time"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"github.com/vikram-2101/project-manager-app/internal/repositories"
)

// In-memory stands-ins for the repositories, plus a recording
// notifier. Shared by the service tests in this package.

type fakeUserRepo struct {
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) add(name, role string) *models.User {
	u := &models.User{Name: name, Email: name + "@example.com", Role: role}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) FindByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List() ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRole(id uint, role string) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) CountAll() (int64, error) {
	return int64(len(r.users)), nil
}

type fakeProjectRepo struct {
	nextID   uint
	projects map[uint]*models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{nextID: 1, projects: make(map[uint]*models.Project)}
}

func (r *fakeProjectRepo) Create(project *models.Project) error {
	for _, p := range r.projects {
		if p.Name == project.Name {
			return apperrors.Conflict("a project with this name already exists")
		}
	}
	project.ID = r.nextID
	r.nextID++
	stored := *project
	stored.TeamMembers = append([]models.User(nil), project.TeamMembers...)
	r.projects[project.ID] = &stored
	return nil
}

func (r *fakeProjectRepo) FindByID(id uint) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, apperrors.NotFound("project not found")
	}
	copied := *p
	copied.TeamMembers = append([]models.User(nil), p.TeamMembers...)
	return &copied, nil
}

func (r *fakeProjectRepo) FindAll() ([]models.Project, error) {
	var out []models.Project
	for _, p := range r.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProjectRepo) FindByMember(userID uint) ([]models.Project, error) {
	var out []models.Project
	for _, p := range r.projects {
		if r.isMember(p, userID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) isMember(p *models.Project, userID uint) bool {
	if p.ProjectManagerID == userID {
		return true
	}
	for _, m := range p.TeamMembers {
		if m.ID == userID {
			return true
		}
	}
	return false
}

func (r *fakeProjectRepo) MemberProjectIDs(userID uint) ([]uint, error) {
	var ids []uint
	for _, p := range r.projects {
		if r.isMember(p, userID) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *fakeProjectRepo) Update(project *models.Project, patch map[string]interface{}) error {
	stored, ok := r.projects[project.ID]
	if !ok {
		return apperrors.NotFound("project not found")
	}
	for key, value := range patch {
		switch key {
		case "name":
			name := value.(string)
			for _, p := range r.projects {
				if p.ID != stored.ID && p.Name == name {
					return apperrors.Conflict("a project with this name already exists")
				}
			}
			stored.Name = name
		case "description":
			stored.Description = value.(string)
		case "priority":
			stored.Priority = value.(string)
		case "status":
			stored.Status = value.(string)
		case "access":
			stored.Access = value.(string)
		case "start_date":
			t := value.(time.Time)
			stored.StartDate = &t
		case "end_date":
			t := value.(time.Time)
			stored.EndDate = &t
		}
	}
	return nil
}

func (r *fakeProjectRepo) AddMembers(project *models.Project, users []models.User) error {
	stored, ok := r.projects[project.ID]
	if !ok {
		return apperrors.NotFound("project not found")
	}
	stored.TeamMembers = append(stored.TeamMembers, users...)
	return nil
}

func (r *fakeProjectRepo) Delete(id uint) error {
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) CountAll() (int64, error) {
	return int64(len(r.projects)), nil
}

func (r *fakeProjectRepo) CountByMember(userID uint) (int64, error) {
	ids, _ := r.MemberProjectIDs(userID)
	return int64(len(ids)), nil
}

type fakeTaskRepo struct {
	nextID uint
	tasks  map[uint]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1, tasks: make(map[uint]*models.Task)}
}

func (r *fakeTaskRepo) Create(task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) FindByID(id uint) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("task not found")
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) FindByProject(projectID uint) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindAll(filter repositories.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if r.matches(t, filter) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) matches(t *models.Task, filter repositories.TaskFilter) bool {
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
		return false
	}
	return true
}

func (r *fakeTaskRepo) FindForUser(userID uint, projectIDs []uint, filter repositories.TaskFilter) ([]models.Task, error) {
	inProjects := make(map[uint]bool, len(projectIDs))
	for _, id := range projectIDs {
		inProjects[id] = true
	}
	var out []models.Task
	for _, t := range r.tasks {
		assigned := t.AssigneeID != nil && *t.AssigneeID == userID
		if !assigned && !inProjects[t.ProjectID] {
			continue
		}
		if r.matches(t, filter) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(task *models.Task, patch map[string]interface{}) error {
	stored, ok := r.tasks[task.ID]
	if !ok {
		return apperrors.NotFound("task not found")
	}
	for key, value := range patch {
		switch key {
		case "title":
			stored.Title = value.(string)
		case "description":
			stored.Description = value.(string)
		case "status":
			stored.Status = value.(string)
		case "priority":
			stored.Priority = value.(string)
		case "due_date":
			t := value.(time.Time)
			stored.DueDate = &t
		case "completed_at":
			if value == nil {
				stored.CompletedAt = nil
			} else {
				t := value.(time.Time)
				stored.CompletedAt = &t
			}
		case "assignee_id":
			if value == nil {
				stored.AssigneeID = nil
			} else {
				id := value.(uint)
				stored.AssigneeID = &id
			}
		}
	}
	return nil
}

func (r *fakeTaskRepo) Delete(id uint) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) DeleteByProject(projectID uint) error {
	for id, t := range r.tasks {
		if t.ProjectID == projectID {
			delete(r.tasks, id)
		}
	}
	return nil
}

func (r *fakeTaskRepo) CountByProject(projectID uint) (int64, error) {
	var count int64
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) StatusCounts(projectID, assigneeID *uint) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, t := range r.tasks {
		if projectID != nil && t.ProjectID != *projectID {
			continue
		}
		if assigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *assigneeID) {
			continue
		}
		counts[t.Status]++
	}
	return counts, nil
}

func (r *fakeTaskRepo) CountDueToday(assigneeID *uint) (int64, error) {
	return 0, nil
}

func (r *fakeTaskRepo) CountAll() (int64, error) {
	return int64(len(r.tasks)), nil
}

type fakeCommentRepo struct {
	nextID   uint
	comments map[uint]*models.Comment
	tasks    *fakeTaskRepo
}

func newFakeCommentRepo(tasks *fakeTaskRepo) *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: make(map[uint]*models.Comment), tasks: tasks}
}

func (r *fakeCommentRepo) Create(comment *models.Comment) error {
	comment.ID = r.nextID
	r.nextID++
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) FindByID(id uint) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.NotFound("comment not found")
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) FindByTask(taskID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateContent(comment *models.Comment, content string) error {
	c, ok := r.comments[comment.ID]
	if !ok {
		return apperrors.NotFound("comment not found")
	}
	c.Content = content
	return nil
}

func (r *fakeCommentRepo) Delete(id uint) error {
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByTask(taskID uint) error {
	for id, c := range r.comments {
		if c.TaskID == taskID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) DeleteByProject(projectID uint) error {
	for id, c := range r.comments {
		task, ok := r.tasks.tasks[c.TaskID]
		if ok && task.ProjectID == projectID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeNotifRepo struct {
	nextID  uint
	records map[uint]*models.Notification
}

func newFakeNotifRepo() *fakeNotifRepo {
	return &fakeNotifRepo{nextID: 1, records: make(map[uint]*models.Notification)}
}

func (r *fakeNotifRepo) Create(n *models.Notification) error {
	n.ID = r.nextID
	r.nextID++
	stored := *n
	r.records[n.ID] = &stored
	return nil
}

func (r *fakeNotifRepo) FindByID(id uint) (*models.Notification, error) {
	n, ok := r.records[id]
	if !ok {
		return nil, apperrors.NotFound("notification not found")
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotifRepo) FindByUser(userID uint, limit int, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.records {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) MarkRead(id uint) error {
	if n, ok := r.records[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (r *fakeNotifRepo) MarkAllRead(userID uint) error {
	for _, n := range r.records {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotifRepo) CountUnread(userID uint) (int64, error) {
	var count int64
	for _, n := range r.records {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotifRepo) DeleteByProject(projectID uint) error {
	for id, n := range r.records {
		if n.ProjectID != nil && *n.ProjectID == projectID {
			delete(r.records, id)
		}
	}
	return nil
}

type sentNotification struct {
	UserID    uint
	Message   string
	Type      string
	Link      string
	ProjectID *uint
}

type recordingNotifier struct {
	sent []sentNotification
}

func (n *recordingNotifier) Create(userID uint, message, notificationType, link string, projectID *uint) (*models.Notification, error) {
	n.sent = append(n.sent, sentNotification{userID, message, notificationType, link, projectID})
	return &models.Notification{UserID: userID, Message: message, Type: notificationType, Link: link, ProjectID: projectID}, nil
}

func (n *recordingNotifier) sentTo(userID uint) []sentNotification {
	var out []sentNotification
	for _, s := range n.sent {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

// fixture builds the common test world: manager A, member B,
// outsider C, and a project managed by A with B on the team.
type fixture struct {
	users    *fakeUserRepo
	projects *fakeProjectRepo
	tasks    *fakeTaskRepo
	comments *fakeCommentRepo
	notifs   *fakeNotifRepo
	notifier *recordingNotifier

	manager  *models.User
	member   *models.User
	outsider *models.User
	admin    *models.User
	project  *models.Project
}

func newFixture() *fixture {
	f := &fixture{
		users:    newFakeUserRepo(),
		projects: newFakeProjectRepo(),
		notifs:   newFakeNotifRepo(),
		notifier: &recordingNotifier{},
	}
	f.tasks = newFakeTaskRepo()
	f.comments = newFakeCommentRepo(f.tasks)

	f.manager = f.users.add("alice", models.RoleTeamMember)
	f.member = f.users.add("bob", models.RoleTeamMember)
	f.outsider = f.users.add("carol", models.RoleTeamMember)
	f.admin = f.users.add("dora", models.RoleAdmin)

	f.project = &models.Project{
		Name:             "Alpha",
		ProjectManagerID: f.manager.ID,
		Priority:         models.PriorityMedium,
		Status:           models.ProjectStatusInProgress,
		Access:           models.AccessPrivate,
		TeamMembers:      []models.User{*f.manager, *f.member},
	}
	if err := f.projects.Create(f.project); err != nil {
		panic(err)
	}
	return f
}

func (f *fixture) actor(u *models.User) Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role}
}

func (f *fixture) projectService() *ProjectService {
	return NewProjectService(f.projects, f.tasks, f.comments, f.notifs, f.users, f.notifier)
}

func (f *fixture) taskService() *TaskService {
	return NewTaskService(f.tasks, f.projects, f.comments, f.users, f.notifier)
}

func (f *fixture) commentService() *CommentService {
	return NewCommentService(f.comments, f.tasks, f.projects, f.notifier)
}

func (f *fixture) addTask(title string, assigneeID *uint) *models.Task {
	task := &models.Task{
		Title:      title,
		ProjectID:  f.project.ID,
		AssigneeID: assigneeID,
		Status:     models.TaskStatusTodo,
		Priority:   models.PriorityMedium,
	}
	if err := f.tasks.Create(task); err != nil {
		panic(err)
	}
	return task
}
