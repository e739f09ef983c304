// Package services orchestrates the mutation flows: resolve the
// entity, run the authorization guard, apply the change through the
// repositories, then fan out notifications. Notification emission is
// best-effort; a failed emission is logged and never fails the
// mutation that triggered it.
package services

import (
	"github.com/vikram-2101/project-manager-app/internal/models"
)

// Actor identifies the authenticated user driving a mutation.
type Actor struct {
	ID   uint
	Name string
	Role string
}

// Notifier is the notification service's creation contract. Every
// mutation path goes through the same contract, so realtime delivery
// is uniform across operations.
type Notifier interface {
	Create(userID uint, message, notificationType, link string, projectID *uint) (*models.Notification, error)
}
