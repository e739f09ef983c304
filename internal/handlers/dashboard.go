package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vikram-2101/project-manager-app/internal/models"
	"github.com/vikram-2101/project-manager-app/internal/repositories"
)

type DashboardHandler struct {
	users         repositories.UserRepository
	projects      repositories.ProjectRepository
	tasks         repositories.TaskRepository
	notifications repositories.NotificationRepository
}

func NewDashboardHandler(
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	tasks repositories.TaskRepository,
	notifications repositories.NotificationRepository,
) *DashboardHandler {
	return &DashboardHandler{users: users, projects: projects, tasks: tasks, notifications: notifications}
}

// Stats summarizes the actor's workload. Admins see system-wide totals,
// everyone else sees their own projects and assigned tasks.
func (h *DashboardHandler) Stats(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	unread, err := h.notifications.CountUnread(actor.ID)
	if err != nil {
		log.Errorf("Failed to count unread notifications: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if actor.Role == models.RoleAdmin {
		h.adminStats(ctx, unread)
		return
	}

	projectCount, err := h.projects.CountByMember(actor.ID)
	if err != nil {
		log.Errorf("Failed to count projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	statusCounts, err := h.tasks.StatusCounts(nil, &actor.ID)
	if err != nil {
		log.Errorf("Failed to count tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	dueToday, err := h.tasks.CountDueToday(&actor.ID)
	if err != nil {
		log.Errorf("Failed to count due tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"projects":             projectCount,
		"tasks_by_status":      statusCounts,
		"due_today":            dueToday,
		"unread_notifications": unread,
	})
}

func (h *DashboardHandler) adminStats(ctx *gin.Context, unread int64) {
	userCount, err := h.users.CountAll()
	if err != nil {
		log.Errorf("Failed to count users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	projectCount, err := h.projects.CountAll()
	if err != nil {
		log.Errorf("Failed to count projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	taskCount, err := h.tasks.CountAll()
	if err != nil {
		log.Errorf("Failed to count tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	statusCounts, err := h.tasks.StatusCounts(nil, nil)
	if err != nil {
		log.Errorf("Failed to count tasks by status: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	dueToday, err := h.tasks.CountDueToday(nil)
	if err != nil {
		log.Errorf("Failed to count due tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"users":                userCount,
		"projects":             projectCount,
		"tasks":                taskCount,
		"tasks_by_status":      statusCounts,
		"due_today":            dueToday,
		"unread_notifications": unread,
	})
}
