package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

type BidRepo struct {
	s *Store
}

// Create stores the bid and bumps the tender's derived bid count in the
// same critical section, after re-checking that the tender still
// accepts bids.
func (r *BidRepo) Create(_ context.Context, b *entity.Bid) (*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tenders[b.TenderID]
	if !ok {
		return nil, fmt.Errorf("tender %s: %w", b.TenderID, domainerrors.ErrNotFound)
	}
	if !t.AcceptsBids() {
		return nil, fmt.Errorf("tender %s is %s: %w", t.ID, t.Status, domainerrors.ErrInvalidTransition)
	}

	stored := *b
	stored.Status = entity.BidUnderReview
	stored.TenderTitle = t.Title
	stored.SubmissionDate = now()
	r.s.bids[stored.ID] = stored
	r.s.bidsByTender[t.ID] = append(r.s.bidsByTender[t.ID], stored.ID)

	t.BidCount = len(r.s.bidsByTender[t.ID])
	t.LastUpdated = stored.SubmissionDate
	r.s.tenders[t.ID] = t

	out := stored
	return &out, nil
}

func (r *BidRepo) GetByID(_ context.Context, id string) (*entity.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bids[id]
	if !ok {
		return nil, fmt.Errorf("bid %s: %w", id, domainerrors.ErrNotFound)
	}
	out := b
	return &out, nil
}

func (r *BidRepo) List(_ context.Context, f repository.BidFilter) ([]entity.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.Bid, 0)
	for _, b := range r.s.bids {
		if f.TenderID != "" && b.TenderID != f.TenderID {
			continue
		}
		if f.ContractorID != "" && b.ContractorID != f.ContractorID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmissionDate.After(out[j].SubmissionDate)
	})
	return paginate(out, f.Offset, f.Limit), nil
}

// Accept performs the compound transition under the store lock: the bid
// becomes Accepted, every sibling still under review becomes Rejected,
// and the tender becomes awarded. No intermediate state is observable.
func (r *BidRepo) Accept(_ context.Context, bidID string, expected entity.BidStatus) (*repository.AcceptResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bids[bidID]
	if !ok {
		return nil, fmt.Errorf("bid %s: %w", bidID, domainerrors.ErrNotFound)
	}
	if expected != entity.BidUnderReview {
		return nil, fmt.Errorf("accept from %s: %w", expected, domainerrors.ErrInvalidTransition)
	}
	if b.Status != expected {
		return nil, fmt.Errorf("bid %s is %s, expected %s: %w", bidID, b.Status, expected, domainerrors.ErrConflict)
	}

	t, ok := r.s.tenders[b.TenderID]
	if !ok {
		return nil, fmt.Errorf("tender %s: %w", b.TenderID, domainerrors.ErrNotFound)
	}
	if t.Status != entity.TenderOpen {
		return nil, fmt.Errorf("tender %s is %s: %w", t.ID, t.Status, domainerrors.ErrInvalidTransition)
	}

	ts := now()
	b.Status = entity.BidAccepted
	r.s.bids[bidID] = b

	var rejected []entity.Bid
	for _, sid := range r.s.bidsByTender[t.ID] {
		if sid == bidID {
			continue
		}
		sib := r.s.bids[sid]
		if sib.Status != entity.BidUnderReview {
			continue
		}
		sib.Status = entity.BidRejected
		r.s.bids[sid] = sib
		rejected = append(rejected, sib)
	}

	t.Status = entity.TenderAwarded
	t.LastUpdated = ts
	r.s.tenders[t.ID] = t

	accepted := b
	tender := t
	return &repository.AcceptResult{Accepted: &accepted, Rejected: rejected, Tender: &tender}, nil
}

func (r *BidRepo) Reject(_ context.Context, bidID string, expected entity.BidStatus) (*entity.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bids[bidID]
	if !ok {
		return nil, fmt.Errorf("bid %s: %w", bidID, domainerrors.ErrNotFound)
	}
	if expected != entity.BidUnderReview {
		return nil, fmt.Errorf("reject from %s: %w", expected, domainerrors.ErrInvalidTransition)
	}
	if b.Status != expected {
		return nil, fmt.Errorf("bid %s is %s, expected %s: %w", bidID, b.Status, expected, domainerrors.ErrConflict)
	}

	b.Status = entity.BidRejected
	r.s.bids[bidID] = b

	out := b
	return &out, nil
}
