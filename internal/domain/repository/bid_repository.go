package repository

import (
	"context"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// BidFilter narrows bid listings.
type BidFilter struct {
	TenderID     string
	ContractorID string
	Status       entity.BidStatus
	Limit        int
	Offset       int
}

// AcceptResult is the outcome of the compound accept transition: the
// winning bid, every sibling that was still under review and is now
// rejected, and the tender in its awarded state.
type AcceptResult struct {
	Accepted *entity.Bid
	Rejected []entity.Bid
	Tender   *entity.Tender
}

// BidRepository defines the durable store operations for bids.
//
// Create validates inside the same transaction that the tender exists
// and is still open, and increments the tender's bid count.
//
// Accept is the single atomic compound transition: it must be
// serialized per tender so that concurrent accept attempts yield
// exactly one winner (the loser sees domainerrors.ErrConflict), and no
// observer may ever see the accepted bid without its siblings rejected
// and the tender awarded.
type BidRepository interface {
	Create(ctx context.Context, b *entity.Bid) (*entity.Bid, error)
	GetByID(ctx context.Context, id string) (*entity.Bid, error)
	List(ctx context.Context, f BidFilter) ([]entity.Bid, error)
	Accept(ctx context.Context, bidID string, expected entity.BidStatus) (*AcceptResult, error)
	Reject(ctx context.Context, bidID string, expected entity.BidStatus) (*entity.Bid, error)
}
