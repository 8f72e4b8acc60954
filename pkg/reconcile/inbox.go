// Package reconcile merges realtime pushes with backlog pulls into a
// single consistent notification view. Pushes are at-least-once and
// unordered relative to pulls, so the inbox deduplicates by id and
// keeps the read flag monotonic.
package reconcile

import (
	"sort"
	"sync"
	"time"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// Inbox is a per-recipient merge buffer. Safe for concurrent use.
type Inbox struct {
	mu       sync.RWMutex
	byID     map[string]entity.Notification
	lastSeen time.Time
}

func NewInbox() *Inbox {
	return &Inbox{byID: make(map[string]entity.Notification)}
}

// Offer merges one notification into the inbox. A duplicate id never
// produces a second entry, and a read entry is never downgraded to
// unread by a stale copy.
func (in *Inbox) Offer(n entity.Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()
	existing, ok := in.byID[n.ID]
	if ok {
		if existing.Read {
			n.Read = true
		}
	}
	in.byID[n.ID] = n
	if n.CreatedAt.After(in.lastSeen) {
		in.lastSeen = n.CreatedAt
	}
}

// OfferAll merges a backlog page.
func (in *Inbox) OfferAll(ns []entity.Notification) {
	for _, n := range ns {
		in.Offer(n)
	}
}

// MarkRead flips the read flag. Unknown ids are ignored; the flag only
// ever moves from unread to read.
func (in *Inbox) MarkRead(id string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	n, ok := in.byID[id]
	if !ok || n.Read {
		return
	}
	n.Read = true
	in.byID[id] = n
}

// Since reports the newest creation time observed, for use as the
// cursor on the next backlog pull.
func (in *Inbox) Since() time.Time {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.lastSeen
}

// Unread counts entries not yet marked read.
func (in *Inbox) Unread() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	count := 0
	for _, n := range in.byID {
		if !n.Read {
			count++
		}
	}
	return count
}

// List returns the merged view, newest first.
func (in *Inbox) List() []entity.Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]entity.Notification, 0, len(in.byID))
	for _, n := range in.byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
