package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

// BidService executes the bid side of the lifecycle engine: submission
// against open tenders by verified contractors, and the accept/reject
// decisions including the compound accept transition.
type BidService struct {
	Bids        repository.BidRepository
	Tenders     repository.TenderRepository
	Contractors repository.ContractorRepository
	Dispatcher  *Dispatcher
	Logger      *logrus.Logger
}

func NewBidService(
	bids repository.BidRepository,
	tenders repository.TenderRepository,
	contractors repository.ContractorRepository,
	dispatcher *Dispatcher,
	logger *logrus.Logger,
) *BidService {
	return &BidService{Bids: bids, Tenders: tenders, Contractors: contractors, Dispatcher: dispatcher, Logger: logger}
}

type SubmitBidInput struct {
	TenderID        string
	ContractorID    string
	BidAmount       float64
	ProjectDuration int
	Warranty        int
	Notes           string
}

// SubmitBid validates that the contractor is verified, stores the bid
// (the repository re-checks the tender is still open inside its own
// transaction) and notifies the tender's homeowner.
func (s *BidService) SubmitBid(ctx context.Context, in SubmitBidInput) (*entity.Bid, error) {
	if in.TenderID == "" || in.ContractorID == "" {
		return nil, fmt.Errorf("tender and contractor ids are required: %w", domainerrors.ErrInvalidTransition)
	}
	if in.BidAmount <= 0 {
		return nil, fmt.Errorf("bid amount must be positive: %w", domainerrors.ErrInvalidTransition)
	}

	c, err := s.Contractors.GetByID(ctx, in.ContractorID)
	if err != nil {
		return nil, err
	}
	if !c.Verified() {
		return nil, fmt.Errorf("contractor %s is %s, only verified contractors may bid: %w",
			c.ID, c.Status, domainerrors.ErrInvalidTransition)
	}

	b := &entity.Bid{
		ID:                  uuid.NewString(),
		TenderID:            in.TenderID,
		ContractorID:        c.ID,
		ContractorName:      c.FullName,
		BidAmount:           in.BidAmount,
		ProjectDuration:     in.ProjectDuration,
		Warranty:            in.Warranty,
		Notes:               in.Notes,
		Experience:          c.YearsOfExperience,
		SuccessRate:         c.SuccessRate,
		ClientRating:        c.ClientRating,
		RejectionHistory:    c.RejectionHistory,
		SafetyCertification: c.SafetyCertification,
	}
	created, err := s.Bids.Create(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("submit bid: %w", err)
	}

	t, err := s.Tenders.GetByID(ctx, created.TenderID)
	if err != nil {
		// Row was written; the homeowner notification is the only loss here.
		s.logWarn(err, "bid submitted but tender lookup for notification failed")
		return created, nil
	}

	s.dispatch(ctx, entity.DomainEvent{
		Kind:         entity.EventBidSubmitted,
		TenderID:     t.ID,
		TenderTitle:  t.Title,
		HomeownerID:  t.HomeownerID,
		BidID:        created.ID,
		BidAmount:    created.BidAmount,
		ContractorID: created.ContractorID,
		Contractor:   created.ContractorName,
		Message:      fmt.Sprintf("New bid submitted by %s for tender %q", created.ContractorName, t.Title),
		OccurredAt:   created.SubmissionDate,
	})
	return created, nil
}

func (s *BidService) GetBid(ctx context.Context, id string) (*entity.Bid, error) {
	return s.Bids.GetByID(ctx, id)
}

func (s *BidService) ListBids(ctx context.Context, f repository.BidFilter) ([]entity.Bid, error) {
	return s.Bids.List(ctx, f)
}

// DecideBid settles one bid on behalf of the tender's homeowner.
// Accepting runs the compound transition: the winner, every
// under-review sibling and the tender change in one atomic step, and
// one notification goes out per affected contractor. The expected
// status guards against stale client views; concurrent accepts on the
// same tender yield one winner and ErrConflict for the rest.
func (s *BidService) DecideBid(ctx context.Context, bidID, homeownerID string, expected, next entity.BidStatus) (*entity.Bid, error) {
	if !entity.ValidBidStatus(next) || next == entity.BidUnderReview {
		return nil, fmt.Errorf("bid decision must be %s or %s: %w",
			entity.BidAccepted, entity.BidRejected, domainerrors.ErrInvalidTransition)
	}

	// Ownership never changes after creation, so the check stays valid
	// through the settle below. Foreign callers see the same 404 as for
	// a tender that does not exist.
	b, err := s.Bids.GetByID(ctx, bidID)
	if err != nil {
		return nil, err
	}
	t, err := s.Tenders.GetByID(ctx, b.TenderID)
	if err != nil {
		return nil, err
	}
	if homeownerID != "" && t.HomeownerID != homeownerID {
		return nil, fmt.Errorf("bid %s: %w", bidID, domainerrors.ErrNotFound)
	}

	if next == entity.BidRejected {
		rejected, err := s.Bids.Reject(ctx, bidID, expected)
		if err != nil {
			return nil, err
		}
		s.dispatch(ctx, rejectionEvent(rejected))
		return rejected, nil
	}

	res, err := s.Bids.Accept(ctx, bidID, expected)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, entity.DomainEvent{
		Kind:         entity.EventBidAccepted,
		TenderID:     res.Tender.ID,
		TenderTitle:  res.Tender.Title,
		HomeownerID:  res.Tender.HomeownerID,
		BidID:        res.Accepted.ID,
		BidAmount:    res.Accepted.BidAmount,
		ContractorID: res.Accepted.ContractorID,
		Contractor:   res.Accepted.ContractorName,
		Message:      fmt.Sprintf("Congratulations! Your bid for tender %q has been accepted", res.Tender.Title),
		OccurredAt:   res.Tender.LastUpdated,
	})
	for i := range res.Rejected {
		s.dispatch(ctx, rejectionEvent(&res.Rejected[i]))
	}
	return res.Accepted, nil
}

func rejectionEvent(b *entity.Bid) entity.DomainEvent {
	return entity.DomainEvent{
		Kind:         entity.EventBidRejected,
		TenderID:     b.TenderID,
		TenderTitle:  b.TenderTitle,
		BidID:        b.ID,
		BidAmount:    b.BidAmount,
		ContractorID: b.ContractorID,
		Contractor:   b.ContractorName,
		Message:      fmt.Sprintf("Your bid for tender %q has been rejected", b.TenderTitle),
		OccurredAt:   time.Now().UTC(),
	}
}

func (s *BidService) dispatch(ctx context.Context, ev entity.DomainEvent) {
	if s.Dispatcher == nil {
		return
	}
	if err := s.Dispatcher.Dispatch(ctx, ev); err != nil {
		s.logWarn(err, "notification dispatch incomplete")
	}
}

func (s *BidService) logWarn(err error, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).Warn(msg)
	}
}
