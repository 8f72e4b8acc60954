// Package memory provides mutex-guarded in-memory implementations of
// the domain repositories. They back the unit tests and the dev mode
// that runs without Postgres, and honor the same compare-and-set and
// atomicity contracts as the postgres implementations.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// Store is the shared state behind the per-entity repositories. One
// mutex guards everything, which trivially serializes the compound
// accept transition per tender.
type Store struct {
	mu            sync.RWMutex
	tenders       map[string]entity.Tender
	bids          map[string]entity.Bid
	bidsByTender  map[string][]string
	contractors   map[string]entity.Contractor
	users         map[string]entity.User
	notifications []entity.Notification
}

func NewStore() *Store {
	return &Store{
		tenders:      make(map[string]entity.Tender),
		bids:         make(map[string]entity.Bid),
		bidsByTender: make(map[string][]string),
		contractors:  make(map[string]entity.Contractor),
		users:        make(map[string]entity.User),
	}
}

func (s *Store) Tenders() *TenderRepo             { return &TenderRepo{s: s} }
func (s *Store) Bids() *BidRepo                   { return &BidRepo{s: s} }
func (s *Store) Contractors() *ContractorRepo     { return &ContractorRepo{s: s} }
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s: s} }
func (s *Store) Users() *UserRepo                 { return &UserRepo{s: s} }

// PutUser seeds a directory entry. Intended for tests and dev seeding.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func copyContractor(c entity.Contractor) entity.Contractor {
	out := c
	out.Documents = make(map[entity.DocumentType]entity.Document, len(c.Documents))
	for k, v := range c.Documents {
		out.Documents[k] = v
	}
	return out
}

func sortNotificationsDesc(ns []entity.Notification) {
	sort.SliceStable(ns, func(i, j int) bool {
		return ns[i].CreatedAt.After(ns[j].CreatedAt)
	})
}

func sortTendersDesc(ts []entity.Tender) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].CreatedAt.After(ts[j].CreatedAt)
	})
}

func paginate[T any](in []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return []T{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

func now() time.Time { return time.Now().UTC() }
