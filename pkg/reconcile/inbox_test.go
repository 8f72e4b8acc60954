package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

func notif(id string, at time.Time) entity.Notification {
	return entity.Notification{
		ID:        id,
		Recipient: entity.Recipient{ID: "c1", Role: entity.RoleContractor},
		Type:      entity.NotifNewTender,
		CreatedAt: at,
	}
}

func TestInboxMergeIsIdempotent(t *testing.T) {
	in := NewInbox()
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// Same notification arrives via push and again via backlog pull.
	in.Offer(notif("n1", ts))
	in.OfferAll([]entity.Notification{notif("n1", ts), notif("n2", ts.Add(time.Minute))})

	list := in.List()
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID)
	assert.Equal(t, "n1", list[1].ID)
	assert.Equal(t, 2, in.Unread())
}

func TestInboxReadIsMonotonic(t *testing.T) {
	in := NewInbox()
	ts := time.Now().UTC()

	in.Offer(notif("n1", ts))
	in.MarkRead("n1")
	assert.Equal(t, 0, in.Unread())

	// A stale unread copy from a late push must not resurrect it.
	in.Offer(notif("n1", ts))
	assert.Equal(t, 0, in.Unread())
	assert.True(t, in.List()[0].Read)

	// Unknown ids are ignored.
	in.MarkRead("ghost")
	require.Len(t, in.List(), 1)
}

func TestInboxSinceCursor(t *testing.T) {
	in := NewInbox()
	assert.True(t, in.Since().IsZero())

	early := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(2 * time.Hour)

	in.Offer(notif("n1", late))
	in.Offer(notif("n2", early))
	assert.Equal(t, late, in.Since())
}
