package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vikram-2101/project-manager-app/internal/repositories"
	"github.com/vikram-2101/project-manager-app/internal/types"
)

type UserHandler struct {
	users repositories.UserRepository
}

func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// List returns every registered user, used by member pickers.
func (h *UserHandler) List(ctx *gin.Context) {
	if _, ok := currentActor(ctx); !ok {
		return
	}

	users, err := h.users.List()

	if err != nil {
		log.Errorf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"users": out})
}
