package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

const notificationColumns = `id, recipient_id, recipient_role, type, message,
	tender_id, tender_title, bid_id, contractor_id, bid_amount, created_at, read`

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	n := &entity.Notification{}
	err := row.Scan(&n.ID, &n.Recipient.ID, &n.Recipient.Role, &n.Type, &n.Message,
		&n.TenderID, &n.TenderTitle, &n.BidID, &n.ContractorID, &n.BidAmount,
		&n.CreatedAt, &n.Read)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) (*entity.Notification, error) {
	if !n.Recipient.Valid() {
		return nil, fmt.Errorf("untagged notification recipient: %w", domainerrors.ErrPersistenceFailure)
	}

	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (id, recipient_id, recipient_role, type, message,
			tender_id, tender_title, bid_id, contractor_id, bid_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+notificationColumns,
		n.ID, n.Recipient.ID, n.Recipient.Role, n.Type, n.Message,
		n.TenderID, n.TenderTitle, n.BidID, n.ContractorID, n.BidAmount, createdAt)

	created, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return created, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, rec entity.Recipient, since time.Time) ([]entity.Notification, error) {
	q := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = $1 AND recipient_role = $2`
	args := []any{rec.ID, rec.Role}
	if !since.IsZero() {
		args = append(args, since)
		q += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer rows.Close()

	out := make([]entity.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w: %v", domainerrors.ErrPersistenceFailure, err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// MarkRead only ever flips false to true; marking a read row again is a
// no-op success.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, rec entity.Recipient) (*entity.Notification, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND recipient_id = $2 AND recipient_role = $3
		RETURNING `+notificationColumns,
		id, rec.ID, rec.Role)

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("notification %s: %w", id, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("mark read: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return n, nil
}
