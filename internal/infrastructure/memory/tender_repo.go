package memory

import (
	"context"
	"fmt"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

type TenderRepo struct {
	s *Store
}

func (r *TenderRepo) Create(_ context.Context, t *entity.Tender) (*entity.Tender, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *t
	stored.Status = entity.TenderOpen
	stored.BidCount = 0
	stored.CreatedAt = now()
	stored.LastUpdated = stored.CreatedAt
	r.s.tenders[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *TenderRepo) GetByID(_ context.Context, id string) (*entity.Tender, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tenders[id]
	if !ok {
		return nil, fmt.Errorf("tender %s: %w", id, domainerrors.ErrNotFound)
	}
	out := t
	return &out, nil
}

func (r *TenderRepo) List(_ context.Context, f repository.TenderFilter) ([]entity.Tender, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.Tender, 0, len(r.s.tenders))
	for _, t := range r.s.tenders {
		if f.HomeownerID != "" && t.HomeownerID != f.HomeownerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, t)
	}
	sortTendersDesc(out)
	return paginate(out, f.Offset, f.Limit), nil
}

func (r *TenderRepo) UpdateStatus(_ context.Context, id string, expected, next entity.TenderStatus) (*entity.Tender, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tenders[id]
	if !ok {
		return nil, fmt.Errorf("tender %s: %w", id, domainerrors.ErrNotFound)
	}
	if t.Status != expected {
		return nil, fmt.Errorf("tender %s is %s, expected %s: %w", id, t.Status, expected, domainerrors.ErrConflict)
	}
	if !t.CanTransition(next) {
		return nil, fmt.Errorf("tender %s: %s -> %s: %w", id, t.Status, next, domainerrors.ErrInvalidTransition)
	}

	t.Status = next
	t.LastUpdated = now()
	r.s.tenders[id] = t

	out := t
	return &out, nil
}
