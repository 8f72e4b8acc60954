package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

func TestNotificationCreate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	t.Run("rejects untagged recipient", func(t *testing.T) {
		_, err := s.Notifications().Create(ctx, &entity.Notification{ID: "n1"})
		assert.ErrorIs(t, err, domainerrors.ErrPersistenceFailure)
	})

	t.Run("always starts unread", func(t *testing.T) {
		n, err := s.Notifications().Create(ctx, &entity.Notification{
			ID:        "n2",
			Recipient: entity.Recipient{ID: "c1", Role: entity.RoleContractor},
			Read:      true,
		})
		require.NoError(t, err)
		assert.False(t, n.Read)
	})
}

func TestListByRecipient(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	rec := entity.Recipient{ID: "c1", Role: entity.RoleContractor}
	other := entity.Recipient{ID: "c1", Role: entity.RoleHomeowner}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, r := range []entity.Recipient{rec, rec, other, rec} {
		_, err := s.Notifications().Create(ctx, &entity.Notification{
			ID:        string(rune('a' + i)),
			Recipient: r,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	t.Run("filters by tagged pair and sorts newest first", func(t *testing.T) {
		ns, err := s.Notifications().ListByRecipient(ctx, rec, time.Time{})
		require.NoError(t, err)
		require.Len(t, ns, 3)
		assert.True(t, ns[0].CreatedAt.After(ns[1].CreatedAt))
		// Same id under a different role is a different recipient.
		for _, n := range ns {
			assert.Equal(t, rec, n.Recipient)
		}
	})

	t.Run("since narrows the window", func(t *testing.T) {
		ns, err := s.Notifications().ListByRecipient(ctx, rec, base.Add(time.Minute))
		require.NoError(t, err)
		assert.Len(t, ns, 2)
	})
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	rec := entity.Recipient{ID: "c1", Role: entity.RoleContractor}
	_, err := s.Notifications().Create(ctx, &entity.Notification{ID: "n1", Recipient: rec})
	require.NoError(t, err)

	n, err := s.Notifications().MarkRead(ctx, "n1", rec)
	require.NoError(t, err)
	assert.True(t, n.Read)

	// Idempotent re-mark.
	n, err = s.Notifications().MarkRead(ctx, "n1", rec)
	require.NoError(t, err)
	assert.True(t, n.Read)

	// Another recipient cannot touch the row.
	_, err = s.Notifications().MarkRead(ctx, "n1", entity.Recipient{ID: "x", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
