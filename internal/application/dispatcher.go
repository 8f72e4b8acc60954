package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
	"github.com/Pratik980/GharNirman-sub000/internal/realtime"
	"github.com/Pratik980/GharNirman-sub000/pkg/helpers"
)

// Dispatcher fans a domain event out to its recipients: one durable
// notification row per recipient first, then a best-effort realtime
// push per destination. Row persistence never depends on push success,
// and a push failure for one destination never blocks another.
type Dispatcher struct {
	Notifications repository.NotificationRepository
	Contractors   repository.ContractorRepository
	Users         repository.UserRepository
	Router        *realtime.Router
	Queue         *helpers.RabbitPublisher // optional async hand-off for pushes
	Logger        *logrus.Logger
}

func NewDispatcher(
	notifications repository.NotificationRepository,
	contractors repository.ContractorRepository,
	users repository.UserRepository,
	router *realtime.Router,
	queue *helpers.RabbitPublisher,
	logger *logrus.Logger,
) *Dispatcher {
	return &Dispatcher{
		Notifications: notifications,
		Contractors:   contractors,
		Users:         users,
		Router:        router,
		Queue:         queue,
		Logger:        logger,
	}
}

// pushPayload is the client-facing shape carried both in realtime
// pushes and implied by the stored rows, so clients can merge the two
// by notification id.
type pushPayload struct {
	NotificationID string                  `json:"notification_id,omitempty"`
	Type           entity.NotificationType `json:"type"`
	Message        string                  `json:"message"`
	TenderID       string                  `json:"tender,omitempty"`
	TenderTitle    string                  `json:"tenderTitle,omitempty"`
	BidID          string                  `json:"bid,omitempty"`
	ContractorID   string                  `json:"contractorId,omitempty"`
	ContractorName string                  `json:"contractorName,omitempty"`
	BidAmount      float64                 `json:"bidAmount,omitempty"`
	Timestamp      time.Time               `json:"timestamp"`
}

type plannedPush struct {
	dest    realtime.Destination
	payload pushPayload
}

// Dispatch resolves the event's audience, persists one row per
// recipient, then attempts the pushes. The returned error is always
// domainerrors.ErrDispatchPartial (or nil): callers log it and must
// never fail the triggering transition because of it.
func (d *Dispatcher) Dispatch(ctx context.Context, ev entity.DomainEvent) error {
	recipients, broadcast, err := d.resolveAudience(ctx, ev)
	if err != nil {
		return fmt.Errorf("%w: resolving audience: %v", domainerrors.ErrDispatchPartial, err)
	}

	ntype := notificationType(ev.Kind)
	var failures []error
	var pushes []plannedPush

	for _, rec := range recipients {
		n := &entity.Notification{
			ID:           uuid.NewString(),
			Recipient:    rec,
			Type:         ntype,
			Message:      ev.Message,
			TenderID:     ev.TenderID,
			TenderTitle:  ev.TenderTitle,
			BidID:        ev.BidID,
			ContractorID: ev.ContractorID,
			BidAmount:    ev.BidAmount,
			CreatedAt:    ev.OccurredAt,
		}
		created, err := d.Notifications.Create(ctx, n)
		if err != nil {
			failures = append(failures, fmt.Errorf("persist for %s/%s: %w", rec.Role, rec.ID, err))
			continue
		}
		pushes = append(pushes, plannedPush{
			dest:    realtime.PrivateChannel(rec),
			payload: d.payloadFor(ev, ntype, created.ID),
		})
	}

	if broadcast != "" {
		pushes = append(pushes, plannedPush{dest: broadcast, payload: d.payloadFor(ev, ntype, "")})
	}

	failures = append(failures, d.push(ctx, ev.Kind, pushes)...)

	if len(failures) > 0 {
		return fmt.Errorf("%w: %d of %d deliveries failed (first: %v)",
			domainerrors.ErrDispatchPartial, len(failures), len(recipients)+len(pushes), failures[0])
	}
	return nil
}

// resolveAudience maps an event to the recipients that get a durable
// row and the optional role channel that additionally gets a broadcast
// push.
func (d *Dispatcher) resolveAudience(ctx context.Context, ev entity.DomainEvent) ([]entity.Recipient, realtime.Destination, error) {
	switch ev.Kind {
	case entity.EventTenderCreated:
		verified, err := d.Contractors.ListVerified(ctx)
		if err != nil {
			return nil, "", err
		}
		recs := make([]entity.Recipient, 0, len(verified))
		for _, c := range verified {
			recs = append(recs, entity.Recipient{ID: c.ID, Role: entity.RoleContractor})
		}
		return recs, realtime.RoleChannel(entity.RoleContractor), nil

	case entity.EventBidSubmitted:
		return []entity.Recipient{{ID: ev.HomeownerID, Role: entity.RoleHomeowner}}, "", nil

	case entity.EventBidAccepted, entity.EventBidRejected,
		entity.EventContractorVerified, entity.EventContractorRejected:
		return []entity.Recipient{{ID: ev.ContractorID, Role: entity.RoleContractor}}, "", nil

	case entity.EventDocumentSubmitted:
		admins, err := d.Users.ListByRole(ctx, entity.RoleAdmin)
		if err != nil {
			return nil, "", err
		}
		recs := make([]entity.Recipient, 0, len(admins))
		for _, a := range admins {
			recs = append(recs, entity.Recipient{ID: a.ID, Role: entity.RoleAdmin})
		}
		return recs, realtime.RoleChannel(entity.RoleAdmin), nil
	}
	return nil, "", fmt.Errorf("unknown event kind %q", ev.Kind)
}

// push delivers every planned push, concurrently, isolating failures
// per destination. With a queue configured the jobs are handed off to
// the broker and the worker performs the publishes; otherwise the
// router publishes directly under its own timeout.
func (d *Dispatcher) push(ctx context.Context, event entity.EventKind, pushes []plannedPush) []error {
	if len(pushes) == 0 {
		return nil
	}

	var mu sync.Mutex
	var failures []error
	var wg sync.WaitGroup

	for _, p := range pushes {
		wg.Add(1)
		go func(p plannedPush) {
			defer wg.Done()
			if err := d.pushOne(ctx, event, p); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("push %s: %w", p.dest, err))
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()
	return failures
}

func (d *Dispatcher) pushOne(ctx context.Context, event entity.EventKind, p plannedPush) error {
	if d.Queue != nil {
		job, err := realtime.NewPushJob(p.dest, event, p.payload)
		if err == nil {
			if err = d.Queue.PublishJSON(ctx, job); err == nil {
				return nil
			}
		}
		if d.Logger != nil {
			d.Logger.WithError(err).WithField("channel", p.dest).Warn("push enqueue failed, publishing directly")
		}
	}
	if d.Router == nil {
		return nil
	}
	return d.Router.Push(ctx, p.dest, event, p.payload)
}

func (d *Dispatcher) payloadFor(ev entity.DomainEvent, ntype entity.NotificationType, notificationID string) pushPayload {
	return pushPayload{
		NotificationID: notificationID,
		Type:           ntype,
		Message:        ev.Message,
		TenderID:       ev.TenderID,
		TenderTitle:    ev.TenderTitle,
		BidID:          ev.BidID,
		ContractorID:   ev.ContractorID,
		ContractorName: ev.Contractor,
		BidAmount:      ev.BidAmount,
		Timestamp:      ev.OccurredAt,
	}
}

func notificationType(kind entity.EventKind) entity.NotificationType {
	switch kind {
	case entity.EventTenderCreated:
		return entity.NotifNewTender
	case entity.EventBidSubmitted:
		return entity.NotifNewBid
	case entity.EventBidAccepted:
		return entity.NotifBidAccepted
	case entity.EventBidRejected:
		return entity.NotifBidRejected
	case entity.EventDocumentSubmitted:
		return entity.NotifDocumentSubmitted
	case entity.EventContractorVerified:
		return entity.NotifContractorVerified
	case entity.EventContractorRejected:
		return entity.NotifContractorRejected
	}
	return entity.NotifGeneralNotification
}
