package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vikram-2101/project-manager-app/internal/notifications"
	"github.com/vikram-2101/project-manager-app/internal/utils"
)

const defaultNotificationLimit = 50

type NotificationHandler struct {
	notifications *notifications.Service
}

func NewNotificationHandler(svc *notifications.Service) *NotificationHandler {
	return &NotificationHandler{notifications: svc}
}

// List returns the actor's notifications, newest first. Supports
// ?limit= and ?unread_only=true.
func (h *NotificationHandler) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	limit := defaultNotificationLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	unreadOnly := ctx.Query("unread_only") == "true"

	items, err := h.notifications.ListForUser(actor.ID, limit, unreadOnly)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *NotificationHandler) UnreadCount(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(actor.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	notificationID, err := utils.ParamID(ctx, "notification_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.notifications.MarkRead(notificationID, actor.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"notification": notification})
}

func (h *NotificationHandler) MarkAllRead(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(actor.ID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
