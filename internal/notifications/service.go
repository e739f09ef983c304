// Package notifications persists notification records and handles
// their best-effort realtime delivery. Persistence failures surface to
// the caller; push failures are logged and swallowed, so a mutation
// never fails because a recipient's socket is gone.
package notifications

import (
	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/models"
	"github.com/vikram-2101/project-manager-app/internal/realtime"
	"github.com/vikram-2101/project-manager-app/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// Emitter is the push side of the realtime channel.
type Emitter interface {
	EmitToUser(userID uint, event string, payload interface{}) error
}

type Service struct {
	repo repositories.NotificationRepository
	hub  Emitter
}

func NewService(repo repositories.NotificationRepository, hub Emitter) *Service {
	return &Service{repo: repo, hub: hub}
}

// Create persists the notification, then pushes the record and a fresh
// unread count to the recipient's room, in that order.
func (s *Service) Create(userID uint, message, notificationType, link string, projectID *uint) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		Link:      link,
		ProjectID: projectID,
	}

	if err := s.repo.Create(notification); err != nil {
		return nil, err
	}

	s.push(userID, realtime.EventNewNotification, notification)
	return notification, nil
}

// MarkRead flips IsRead after re-validating that the notification
// belongs to userID. Reading an already-read notification is a no-op
// but still re-emits the update events so clients converge.
func (s *Service) MarkRead(notificationID, userID uint) (*models.Notification, error) {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		return nil, err
	}

	if notification.UserID != userID {
		return nil, apperrors.Forbidden("not authorized to modify this notification")
	}

	if !notification.IsRead {
		if err := s.repo.MarkRead(notificationID); err != nil {
			return nil, err
		}
		notification.IsRead = true
	}

	s.push(userID, realtime.EventNotificationUpdated, notification)
	return notification, nil
}

func (s *Service) MarkAllRead(userID uint) error {
	if err := s.repo.MarkAllRead(userID); err != nil {
		return err
	}
	s.pushUnreadCount(userID)
	return nil
}

func (s *Service) ListForUser(userID uint, limit int, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.FindByUser(userID, limit, unreadOnly)
}

func (s *Service) UnreadCount(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

func (s *Service) push(userID uint, event string, notification *models.Notification) {
	if err := s.hub.EmitToUser(userID, event, notification); err != nil {
		log.Errorf("Realtime delivery of %s to user %d failed: %v", event, userID, err)
		return
	}
	s.pushUnreadCount(userID)
}

func (s *Service) pushUnreadCount(userID uint) {
	count, err := s.repo.CountUnread(userID)
	if err != nil {
		log.Errorf("Failed to recompute unread count for user %d: %v", userID, err)
		return
	}
	if err := s.hub.EmitToUser(userID, realtime.EventUnreadNotificationCount, map[string]int64{"count": count}); err != nil {
		log.Errorf("Realtime delivery of unread count to user %d failed: %v", userID, err)
	}
}
