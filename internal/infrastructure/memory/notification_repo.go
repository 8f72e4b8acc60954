package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

type NotificationRepo struct {
	s *Store
}

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) (*entity.Notification, error) {
	if !n.Recipient.Valid() {
		return nil, fmt.Errorf("untagged notification recipient: %w", domainerrors.ErrPersistenceFailure)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *n
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now()
	}
	stored.Read = false
	r.s.notifications = append(r.s.notifications, stored)

	out := stored
	return &out, nil
}

func (r *NotificationRepo) ListByRecipient(_ context.Context, rec entity.Recipient, since time.Time) ([]entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.Notification, 0)
	for _, n := range r.s.notifications {
		if n.Recipient != rec {
			continue
		}
		if !since.IsZero() && n.CreatedAt.Before(since) {
			continue
		}
		out = append(out, n)
	}
	sortNotificationsDesc(out)
	return out, nil
}

// MarkRead is monotonic: re-marking an already-read row succeeds
// without change. Rows can only be marked by their own recipient.
func (r *NotificationRepo) MarkRead(_ context.Context, id string, rec entity.Recipient) (*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.notifications {
		n := &r.s.notifications[i]
		if n.ID != id || n.Recipient != rec {
			continue
		}
		n.Read = true
		out := *n
		return &out, nil
	}
	return nil, fmt.Errorf("notification %s: %w", id, domainerrors.ErrNotFound)
}
