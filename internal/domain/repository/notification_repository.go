package repository

import (
	"context"
	"time"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// NotificationRepository defines the durable store operations for
// notifications. Rows are append-only; MarkRead is the only mutation
// and is monotonic (a read notification never becomes unread).
//
// ListByRecipient returns most-recent-first and is the authoritative
// pull path clients reconcile against; since narrows to rows created
// at or after the given instant (zero means everything).
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) (*entity.Notification, error)
	ListByRecipient(ctx context.Context, r entity.Recipient, since time.Time) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id string, r entity.Recipient) (*entity.Notification, error)
}
