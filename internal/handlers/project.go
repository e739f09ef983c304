package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/vikram-2101/project-manager-app/internal/models"
	"github.com/vikram-2101/project-manager-app/internal/services"
	"github.com/vikram-2101/project-manager-app/internal/utils"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type CreateProjectRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Priority    string         `json:"priority"`
	Status      string         `json:"status"`
	Access      string         `json:"access"`
	Tags        datatypes.JSON `json:"tags"`
	Attachments datatypes.JSON `json:"attachments"`
}

type UpdateProjectRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Priority    *string        `json:"priority"`
	Status      *string        `json:"status"`
	Access      *string        `json:"access"`
	Tags        datatypes.JSON `json:"tags"`
	Attachments datatypes.JSON `json:"attachments"`
}

type AddMembersRequest struct {
	MemberIDs []uint `json:"member_ids" binding:"required,min=1"`
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req CreateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.Create(actor, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Access:      req.Access,
		Tags:        req.Tags,
		Attachments: req.Attachments,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	projects, err := h.projects.List(actor)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, tasks, err := h.projects.Get(actor, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"project":  project,
		"tasks":    tasks,
		"progress": taskProgress(tasks),
	})
}

// taskProgress is the share of tasks done, as a percentage with one
// decimal place. Zero tasks means zero progress.
func taskProgress(tasks []models.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}

	var done int
	for i := range tasks {
		if tasks[i].Status == models.TaskStatusDone {
			done++
		}
	}

	return math.Round(float64(done)/float64(len(tasks))*1000) / 10
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.Update(actor, projectID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Access:      req.Access,
		Tags:        req.Tags,
		Attachments: req.Attachments,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projects.Delete(actor, projectID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) AddMembers(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	projectID, err := utils.ParamID(ctx, "project_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req AddMembersRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, message, err := h.projects.AddTeamMembers(actor, projectID, req.MemberIDs)

	if err != nil {
		respondError(ctx, err)
		return
	}

	resp := gin.H{"project": project}
	if message != "" {
		resp["message"] = message
	}

	ctx.JSON(http.StatusOK, resp)
}
