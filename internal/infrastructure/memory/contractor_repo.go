package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

type ContractorRepo struct {
	s *Store
}

func (r *ContractorRepo) Create(_ context.Context, c *entity.Contractor) (*entity.Contractor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := copyContractor(*c)
	ts := now()
	stored.CreatedAt = ts
	stored.UpdatedAt = ts
	if stored.Documents == nil {
		stored.Documents = make(map[entity.DocumentType]entity.Document)
	}
	for dt, doc := range stored.Documents {
		if doc.Status == "" {
			doc.Status = entity.VerificationPending
		}
		if doc.UploadDate.IsZero() {
			doc.UploadDate = ts
		}
		stored.Documents[dt] = doc
	}
	stored.Status = stored.DeriveStatus()
	r.s.contractors[stored.ID] = stored

	out := copyContractor(stored)
	return &out, nil
}

func (r *ContractorRepo) GetByID(_ context.Context, id string) (*entity.Contractor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.contractors[id]
	if !ok {
		return nil, fmt.Errorf("contractor %s: %w", id, domainerrors.ErrNotFound)
	}
	out := copyContractor(c)
	return &out, nil
}

func (r *ContractorRepo) ListVerified(_ context.Context) ([]entity.Contractor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.Contractor, 0)
	for _, c := range r.s.contractors {
		if c.Verified() {
			out = append(out, copyContractor(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SetDocumentStatus settles one document and recomputes the aggregate
// against the full, current document set inside the same critical
// section. Allowed settles: pending -> verified|rejected, and
// re-verification rejected -> pending|verified. A verified document is
// final.
func (r *ContractorRepo) SetDocumentStatus(_ context.Context, contractorID string, in repository.SetDocumentInput) (*repository.DocumentUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contractors[contractorID]
	if !ok {
		return nil, fmt.Errorf("contractor %s: %w", contractorID, domainerrors.ErrNotFound)
	}
	if !entity.KnownDocumentType(in.Type) {
		return nil, fmt.Errorf("document type %q: %w", in.Type, domainerrors.ErrInvalidTransition)
	}
	doc, ok := c.Documents[in.Type]
	if !ok {
		return nil, fmt.Errorf("contractor %s has no %s: %w", contractorID, in.Type, domainerrors.ErrNotFound)
	}
	if doc.Status != in.Expected {
		return nil, fmt.Errorf("document %s is %s, expected %s: %w", in.Type, doc.Status, in.Expected, domainerrors.ErrConflict)
	}
	if !allowedDocumentSettle(doc.Status, in.Next) {
		return nil, fmt.Errorf("document %s: %s -> %s: %w", in.Type, doc.Status, in.Next, domainerrors.ErrInvalidTransition)
	}

	prevDoc := doc.Status
	aggBefore := c.Status
	ts := now()

	doc.Status = in.Next
	switch in.Next {
	case entity.VerificationVerified:
		doc.VerifiedBy = in.VerifiedBy
		doc.VerifiedAt = ts
		doc.RejectionReason = ""
	case entity.VerificationRejected:
		doc.VerifiedBy = in.VerifiedBy
		doc.VerifiedAt = ts
		doc.RejectionReason = in.RejectionReason
	case entity.VerificationPending:
		doc.VerifiedBy = ""
		doc.VerifiedAt = ts
		doc.RejectionReason = ""
		doc.UploadDate = ts
	}
	c.Documents[in.Type] = doc
	c.Status = c.DeriveStatus()
	c.UpdatedAt = ts
	r.s.contractors[contractorID] = c

	out := copyContractor(c)
	return &repository.DocumentUpdate{
		Contractor:      &out,
		Document:        doc,
		PreviousStatus:  prevDoc,
		AggregateBefore: aggBefore,
		AggregateAfter:  c.Status,
	}, nil
}

func allowedDocumentSettle(from, to entity.VerificationStatus) bool {
	switch from {
	case entity.VerificationPending:
		return to == entity.VerificationVerified || to == entity.VerificationRejected
	case entity.VerificationRejected:
		return to == entity.VerificationPending || to == entity.VerificationVerified
	}
	return false
}
