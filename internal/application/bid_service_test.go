package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
	"github.com/Pratik980/GharNirman-sub000/internal/realtime"
)

func TestSubmitBid(t *testing.T) {
	ctx := context.Background()

	t.Run("verified contractor submits", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.registerContractor(t, "ram")
		env.verifyContractor(t, c.ID)
		tender := env.openTender(t, "Kitchen remodel")

		b, err := env.bids.SubmitBid(ctx, SubmitBidInput{
			TenderID:     tender.ID,
			ContractorID: c.ID,
			BidAmount:    180000,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.BidUnderReview, b.Status)
		assert.Equal(t, "ram", b.ContractorName)

		// The homeowner hears about it, durably and in realtime.
		ns := env.backlog(t, entity.Recipient{ID: "h1", Role: entity.RoleHomeowner})
		require.Len(t, ns, 1)
		assert.Equal(t, entity.NotifNewBid, ns[0].Type)
		assert.True(t, env.transport.destinations()[realtime.Destination("private-homeowner-h1")])
	})

	t.Run("pending contractor cannot bid", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.registerContractor(t, "shyam")
		tender := env.openTender(t, "Roof repair")

		_, err := env.bids.SubmitBid(ctx, SubmitBidInput{
			TenderID:     tender.ID,
			ContractorID: c.ID,
			BidAmount:    5000,
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})

	t.Run("snapshots contractor scoring fields", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.registerContractor(t, "hari")
		env.verifyContractor(t, c.ID)
		tender := env.openTender(t, "Boundary wall")

		b, err := env.bids.SubmitBid(ctx, SubmitBidInput{
			TenderID:     tender.ID,
			ContractorID: c.ID,
			BidAmount:    90000,
		})
		require.NoError(t, err)
		assert.Equal(t, c.YearsOfExperience, b.Experience)
		assert.Equal(t, c.SuccessRate, b.SuccessRate)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.bids.SubmitBid(ctx, SubmitBidInput{TenderID: "t", ContractorID: "c", BidAmount: 0})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})
}

func TestDecideBid(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, n int) (*testEnv, *entity.Tender, []*entity.Bid) {
		env := newTestEnv(t)
		tender := env.openTender(t, "Two-storey house")
		bids := make([]*entity.Bid, 0, n)
		for i := 0; i < n; i++ {
			c := env.registerContractor(t, "builder"+string(rune('a'+i)))
			env.verifyContractor(t, c.ID)
			b, err := env.bids.SubmitBid(ctx, SubmitBidInput{
				TenderID:     tender.ID,
				ContractorID: c.ID,
				BidAmount:    float64(100000 * (i + 1)),
			})
			require.NoError(t, err)
			bids = append(bids, b)
		}
		return env, tender, bids
	}

	t.Run("accept settles winner, siblings and tender atomically", func(t *testing.T) {
		env, tender, bids := setup(t, 3)

		winner, err := env.bids.DecideBid(ctx, bids[1].ID, "h1", entity.BidUnderReview, entity.BidAccepted)
		require.NoError(t, err)
		assert.Equal(t, entity.BidAccepted, winner.Status)

		got, err := env.tenders.GetTender(ctx, tender.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TenderAwarded, got.Status)

		// Winner notified of acceptance, both losers of rejection.
		winnerRec := entity.Recipient{ID: bids[1].ContractorID, Role: entity.RoleContractor}
		accepted := env.backlog(t, winnerRec)
		var sawAccepted bool
		for _, n := range accepted {
			if n.Type == entity.NotifBidAccepted {
				sawAccepted = true
			}
		}
		assert.True(t, sawAccepted)

		for _, loser := range []*entity.Bid{bids[0], bids[2]} {
			rec := entity.Recipient{ID: loser.ContractorID, Role: entity.RoleContractor}
			var sawRejected bool
			for _, n := range env.backlog(t, rec) {
				if n.Type == entity.NotifBidRejected {
					sawRejected = true
				}
			}
			assert.True(t, sawRejected, loser.ID)
		}
	})

	t.Run("reject leaves tender open", func(t *testing.T) {
		env, tender, bids := setup(t, 2)

		rejected, err := env.bids.DecideBid(ctx, bids[0].ID, "h1", entity.BidUnderReview, entity.BidRejected)
		require.NoError(t, err)
		assert.Equal(t, entity.BidRejected, rejected.Status)

		got, err := env.tenders.GetTender(ctx, tender.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TenderOpen, got.Status)

		other, err := env.bids.GetBid(ctx, bids[1].ID)
		require.NoError(t, err)
		assert.Equal(t, entity.BidUnderReview, other.Status)
	})

	t.Run("decision must be terminal", func(t *testing.T) {
		env, _, bids := setup(t, 1)
		_, err := env.bids.DecideBid(ctx, bids[0].ID, "h1", entity.BidUnderReview, entity.BidUnderReview)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
	})

	t.Run("another homeowner cannot decide", func(t *testing.T) {
		env, tender, bids := setup(t, 2)

		_, err := env.bids.DecideBid(ctx, bids[0].ID, "h2", entity.BidUnderReview, entity.BidAccepted)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)

		_, err = env.bids.DecideBid(ctx, bids[1].ID, "h2", entity.BidUnderReview, entity.BidRejected)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)

		// Nothing moved.
		got, err := env.tenders.GetTender(ctx, tender.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.TenderOpen, got.Status)
		for _, b := range bids {
			cur, err := env.bids.GetBid(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, entity.BidUnderReview, cur.Status)
		}
	})

	t.Run("concurrent accepts yield one winner", func(t *testing.T) {
		env, tender, bids := setup(t, 2)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = env.bids.DecideBid(ctx, bids[i].ID, "h1", entity.BidUnderReview, entity.BidAccepted)
			}(i)
		}
		wg.Wait()

		var wins, conflicts int
		for _, err := range errs {
			if err == nil {
				wins++
				continue
			}
			// The loser sees either the stale bid status or the
			// already-awarded tender, depending on interleaving.
			ok := errors.Is(err, domainerrors.ErrConflict) || errors.Is(err, domainerrors.ErrInvalidTransition)
			assert.True(t, ok, "unexpected error: %v", err)
			conflicts++
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, 1, conflicts)

		accepted, err := env.bids.ListBids(ctx, repository.BidFilter{TenderID: tender.ID, Status: entity.BidAccepted})
		require.NoError(t, err)
		assert.Len(t, accepted, 1)
	})
}
