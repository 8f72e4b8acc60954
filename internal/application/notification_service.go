package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

// NotificationService is the pull side of the notification contract:
// the durable backlog clients reconcile against, and the monotonic
// read-state write-back.
type NotificationService struct {
	Notifications repository.NotificationRepository
	Logger        *logrus.Logger
}

func NewNotificationService(notifications repository.NotificationRepository, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Notifications: notifications, Logger: logger}
}

// Backlog returns the recipient's notifications most-recent-first.
// since is optional; zero means the full backlog.
func (s *NotificationService) Backlog(ctx context.Context, rec entity.Recipient, since time.Time) ([]entity.Notification, error) {
	if !rec.Valid() {
		return nil, fmt.Errorf("untagged recipient: %w", domainerrors.ErrInvalidTransition)
	}
	return s.Notifications.ListByRecipient(ctx, rec, since)
}

// MarkRead flips one notification to read on behalf of its recipient.
// Read state only ever converges toward true; marking an already-read
// row is a no-op success, so concurrent sessions cannot fight.
func (s *NotificationService) MarkRead(ctx context.Context, id string, rec entity.Recipient) (*entity.Notification, error) {
	if !rec.Valid() {
		return nil, fmt.Errorf("untagged recipient: %w", domainerrors.ErrInvalidTransition)
	}
	return s.Notifications.MarkRead(ctx, id, rec)
}
