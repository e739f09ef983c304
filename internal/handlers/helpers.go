package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/services"
	"github.com/vikram-2101/project-manager-app/internal/utils"
)

// respondError maps service errors onto HTTP statuses. Anything outside
// the known kinds is logged and reported as a 500 without leaking details.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Errorf("Unhandled error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentActor resolves the authenticated user into a service actor.
// Returns false after writing a 401 if the context carries no user.
func currentActor(ctx *gin.Context) (services.Actor, bool) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return services.Actor{}, false
	}

	return services.Actor{ID: user.ID, Name: user.Name, Role: user.Role}, true
}
