package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

func seedTender(t *testing.T, s *Store, id string) *entity.Tender {
	t.Helper()
	created, err := s.Tenders().Create(context.Background(), &entity.Tender{
		ID:          id,
		HomeownerID: "h1",
		Title:       "Kitchen remodel",
	})
	require.NoError(t, err)
	return created
}

func seedBid(t *testing.T, s *Store, id, tenderID, contractorID string) *entity.Bid {
	t.Helper()
	created, err := s.Bids().Create(context.Background(), &entity.Bid{
		ID:           id,
		TenderID:     tenderID,
		ContractorID: contractorID,
		BidAmount:    1000,
	})
	require.NoError(t, err)
	return created
}

func TestBidCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps tender bid count", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		seedBid(t, s, "b1", "t1", "c1")
		seedBid(t, s, "b2", "t1", "c2")

		tender, err := s.Tenders().GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, 2, tender.BidCount)
	})

	t.Run("rejects closed tender", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		_, err := s.Tenders().UpdateStatus(ctx, "t1", entity.TenderOpen, entity.TenderClosed)
		require.NoError(t, err)

		_, err = s.Bids().Create(ctx, &entity.Bid{ID: "b1", TenderID: "t1", ContractorID: "c1"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})

	t.Run("rejects unknown tender", func(t *testing.T) {
		s := NewStore()
		_, err := s.Bids().Create(ctx, &entity.Bid{ID: "b1", TenderID: "missing", ContractorID: "c1"})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("forces under review and snapshots title", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		b, err := s.Bids().Create(ctx, &entity.Bid{ID: "b1", TenderID: "t1", ContractorID: "c1", Status: entity.BidAccepted})
		require.NoError(t, err)
		assert.Equal(t, entity.BidUnderReview, b.Status)
		assert.Equal(t, "Kitchen remodel", b.TenderTitle)
	})
}

func TestBidAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("compound transition", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		seedBid(t, s, "b1", "t1", "c1")
		seedBid(t, s, "b2", "t1", "c2")
		seedBid(t, s, "b3", "t1", "c3")

		res, err := s.Bids().Accept(ctx, "b2", entity.BidUnderReview)
		require.NoError(t, err)

		assert.Equal(t, entity.BidAccepted, res.Accepted.Status)
		assert.Len(t, res.Rejected, 2)
		for _, sib := range res.Rejected {
			assert.Equal(t, entity.BidRejected, sib.Status)
		}
		assert.Equal(t, entity.TenderAwarded, res.Tender.Status)

		tender, err := s.Tenders().GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, entity.TenderAwarded, tender.Status)
	})

	t.Run("second accept conflicts", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		seedBid(t, s, "b1", "t1", "c1")
		seedBid(t, s, "b2", "t1", "c2")

		_, err := s.Bids().Accept(ctx, "b1", entity.BidUnderReview)
		require.NoError(t, err)

		_, err = s.Bids().Accept(ctx, "b2", entity.BidUnderReview)
		assert.ErrorIs(t, err, domainerrors.ErrConflict)
	})

	t.Run("already settled sibling stays put", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		seedBid(t, s, "b1", "t1", "c1")
		seedBid(t, s, "b2", "t1", "c2")

		_, err := s.Bids().Reject(ctx, "b2", entity.BidUnderReview)
		require.NoError(t, err)

		res, err := s.Bids().Accept(ctx, "b1", entity.BidUnderReview)
		require.NoError(t, err)
		assert.Empty(t, res.Rejected)
	})

	t.Run("expected must be under review", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		seedBid(t, s, "b1", "t1", "c1")

		_, err := s.Bids().Accept(ctx, "b1", entity.BidAccepted)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})

	t.Run("closed tender rejects accept", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		seedBid(t, s, "b1", "t1", "c1")
		_, err := s.Tenders().UpdateStatus(ctx, "t1", entity.TenderOpen, entity.TenderClosed)
		require.NoError(t, err)

		_, err = s.Bids().Accept(ctx, "b1", entity.BidUnderReview)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})
}

func TestBidReject(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedTender(t, s, "t1")
	seedBid(t, s, "b1", "t1", "c1")

	rejected, err := s.Bids().Reject(ctx, "b1", entity.BidUnderReview)
	require.NoError(t, err)
	assert.Equal(t, entity.BidRejected, rejected.Status)

	// Terminal, so a second settle conflicts.
	_, err = s.Bids().Reject(ctx, "b1", entity.BidUnderReview)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	tender, err := s.Tenders().GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, entity.TenderOpen, tender.Status)
}

func TestTenderUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("stale expected conflicts", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		_, err := s.Tenders().UpdateStatus(ctx, "t1", entity.TenderOpen, entity.TenderClosed)
		require.NoError(t, err)

		_, err = s.Tenders().UpdateStatus(ctx, "t1", entity.TenderOpen, entity.TenderCancelled)
		assert.ErrorIs(t, err, domainerrors.ErrConflict)
	})

	t.Run("terminal states refuse transitions", func(t *testing.T) {
		s := NewStore()
		seedTender(t, s, "t1")
		_, err := s.Tenders().UpdateStatus(ctx, "t1", entity.TenderOpen, entity.TenderCancelled)
		require.NoError(t, err)

		_, err = s.Tenders().UpdateStatus(ctx, "t1", entity.TenderCancelled, entity.TenderClosed)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})
}
