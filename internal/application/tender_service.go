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

// TenderService executes the tender side of the lifecycle engine.
type TenderService struct {
	Tenders    repository.TenderRepository
	Dispatcher *Dispatcher
	Logger     *logrus.Logger
}

func NewTenderService(tenders repository.TenderRepository, dispatcher *Dispatcher, logger *logrus.Logger) *TenderService {
	return &TenderService{Tenders: tenders, Dispatcher: dispatcher, Logger: logger}
}

type CreateTenderInput struct {
	HomeownerID   string
	HomeownerName string
	Title         string
	Description   string
	Budget        float64
	Location      string
	StartDate     time.Time
	EndDate       time.Time
}

// CreateTender stores a new open tender and notifies every verified
// contractor. The create itself succeeds or fails independently of
// notification delivery.
func (s *TenderService) CreateTender(ctx context.Context, in CreateTenderInput) (*entity.Tender, error) {
	if in.HomeownerID == "" || in.Title == "" {
		return nil, fmt.Errorf("homeowner id and title are required: %w", domainerrors.ErrInvalidTransition)
	}

	t := &entity.Tender{
		ID:            uuid.NewString(),
		HomeownerID:   in.HomeownerID,
		HomeownerName: in.HomeownerName,
		Title:         in.Title,
		Description:   in.Description,
		Budget:        in.Budget,
		Location:      in.Location,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
	}
	created, err := s.Tenders.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create tender: %w", err)
	}

	s.dispatch(ctx, entity.DomainEvent{
		Kind:        entity.EventTenderCreated,
		TenderID:    created.ID,
		TenderTitle: created.Title,
		HomeownerID: created.HomeownerID,
		Message:     fmt.Sprintf("New tender %q is open for bids", created.Title),
		OccurredAt:  created.CreatedAt,
	})
	return created, nil
}

func (s *TenderService) GetTender(ctx context.Context, id string) (*entity.Tender, error) {
	return s.Tenders.GetByID(ctx, id)
}

func (s *TenderService) ListTenders(ctx context.Context, f repository.TenderFilter) ([]entity.Tender, error) {
	return s.Tenders.List(ctx, f)
}

// TransitionTender moves an open tender to closed or cancelled on
// behalf of its owner. Awarding is never requested directly; it happens
// only inside the bid accept compound transition.
func (s *TenderService) TransitionTender(ctx context.Context, id, homeownerID string, expected, next entity.TenderStatus) (*entity.Tender, error) {
	if next == entity.TenderAwarded {
		return nil, fmt.Errorf("award happens via bid acceptance: %w", domainerrors.ErrInvalidTransition)
	}
	if next != entity.TenderClosed && next != entity.TenderCancelled {
		return nil, fmt.Errorf("unknown tender status %q: %w", next, domainerrors.ErrInvalidTransition)
	}

	t, err := s.Tenders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if homeownerID != "" && t.HomeownerID != homeownerID {
		return nil, fmt.Errorf("tender %s: %w", id, domainerrors.ErrNotFound)
	}

	return s.Tenders.UpdateStatus(ctx, id, expected, next)
}

func (s *TenderService) dispatch(ctx context.Context, ev entity.DomainEvent) {
	if s.Dispatcher == nil {
		return
	}
	if err := s.Dispatcher.Dispatch(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event", ev.Kind).Warn("notification dispatch incomplete")
	}
}
