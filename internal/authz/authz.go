// Package authz holds the pure access checks for project-scoped
// operations. Callers resolve the project first and pass the loaded
// record; nothing here touches the database.
package authz

import (
	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/models"
)

// Requirement is the minimum standing an actor needs on a project.
type Requirement int

const (
	// RequireMember admits the project manager and any team member.
	RequireMember Requirement = iota
	// RequireManager admits only the project manager.
	RequireManager
)

func IsProjectMember(project *models.Project, userID uint) bool {
	if project.ProjectManagerID == userID {
		return true
	}
	for _, member := range project.TeamMembers {
		if member.ID == userID {
			return true
		}
	}
	return false
}

// Authorize checks the actor against the requirement. A global admin
// always passes.
func Authorize(project *models.Project, userID uint, req Requirement, globalRole string) error {
	if globalRole == models.RoleAdmin {
		return nil
	}

	switch req {
	case RequireManager:
		if project.ProjectManagerID != userID {
			return apperrors.Forbidden("must be project manager")
		}
	default:
		if !IsProjectMember(project, userID) {
			return apperrors.Forbidden("not authorized to access this project")
		}
	}

	return nil
}
