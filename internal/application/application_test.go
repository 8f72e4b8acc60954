package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/infrastructure/memory"
	"github.com/Pratik980/GharNirman-sub000/internal/realtime"
)

// fakeTransport records every publish and optionally fails them all.
type fakeTransport struct {
	mu        sync.Mutex
	published []publishedPush
	fail      bool
}

type publishedPush struct {
	Dest  realtime.Destination
	Event entity.EventKind
}

func (t *fakeTransport) Publish(_ context.Context, dest realtime.Destination, event entity.EventKind, _ any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fail {
		return errors.New("transport down")
	}
	t.published = append(t.published, publishedPush{Dest: dest, Event: event})
	return nil
}

func (t *fakeTransport) pushes() []publishedPush {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]publishedPush, len(t.published))
	copy(out, t.published)
	return out
}

func (t *fakeTransport) destinations() map[realtime.Destination]bool {
	out := map[realtime.Destination]bool{}
	for _, p := range t.pushes() {
		out[p.Dest] = true
	}
	return out
}

type testEnv struct {
	store     *memory.Store
	transport *fakeTransport
	dispatch  *Dispatcher
	tenders   *TenderService
	bids      *BidService
	verify    *VerificationService
	notify    *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	transport := &fakeTransport{}
	router := realtime.NewRouter(transport, logger)

	dispatch := NewDispatcher(store.Notifications(), store.Contractors(), store.Users(), router, nil, logger)

	return &testEnv{
		store:     store,
		transport: transport,
		dispatch:  dispatch,
		tenders:   NewTenderService(store.Tenders(), dispatch, logger),
		bids:      NewBidService(store.Bids(), store.Tenders(), store.Contractors(), dispatch, logger),
		verify:    NewVerificationService(store.Contractors(), dispatch, logger),
		notify:    NewNotificationService(store.Notifications(), logger),
	}
}

func (e *testEnv) registerContractor(t *testing.T, name string) *entity.Contractor {
	t.Helper()
	c, err := e.verify.RegisterContractor(context.Background(), RegisterContractorInput{
		FullName: name,
		Email:    name + "@example.com",
		Documents: []entity.Document{
			{Type: entity.DocLicenseFile, FileName: "license.pdf"},
			{Type: entity.DocRegistrationCertificate, FileName: "cert.pdf"},
		},
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) verifyContractor(t *testing.T, id string) {
	t.Helper()
	for _, dt := range entity.RequiredDocuments {
		_, err := e.verify.VerifyDocument(context.Background(), id, repository.SetDocumentInput{
			Type:       dt,
			Expected:   entity.VerificationPending,
			Next:       entity.VerificationVerified,
			VerifiedBy: "admin-1",
		})
		require.NoError(t, err)
	}
}

func (e *testEnv) openTender(t *testing.T, title string) *entity.Tender {
	t.Helper()
	tender, err := e.tenders.CreateTender(context.Background(), CreateTenderInput{
		HomeownerID:   "h1",
		HomeownerName: "Sita",
		Title:         title,
		Budget:        250000,
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return tender
}

func (e *testEnv) backlog(t *testing.T, rec entity.Recipient) []entity.Notification {
	t.Helper()
	ns, err := e.notify.Backlog(context.Background(), rec, time.Time{})
	require.NoError(t, err)
	return ns
}
