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

// VerificationService executes contractor document verification:
// per-document settles by admins, the derived aggregate status, and the
// notifications both sides receive.
type VerificationService struct {
	Contractors repository.ContractorRepository
	Dispatcher  *Dispatcher
	Logger      *logrus.Logger
}

func NewVerificationService(contractors repository.ContractorRepository, dispatcher *Dispatcher, logger *logrus.Logger) *VerificationService {
	return &VerificationService{Contractors: contractors, Dispatcher: dispatcher, Logger: logger}
}

type RegisterContractorInput struct {
	FullName            string
	Email               string
	CompanyName         string
	LicenseNumber       string
	YearsOfExperience   int
	SafetyCertification string
	// Documents uploaded at signup; the document service has already
	// stored the files, this core only tracks verification state.
	Documents []entity.Document
}

// RegisterContractor creates the contractor with every submitted
// document pending and asks the admins to review.
func (s *VerificationService) RegisterContractor(ctx context.Context, in RegisterContractorInput) (*entity.Contractor, error) {
	if in.FullName == "" || in.Email == "" {
		return nil, fmt.Errorf("name and email are required: %w", domainerrors.ErrInvalidTransition)
	}

	docs := make(map[entity.DocumentType]entity.Document, len(in.Documents))
	for _, d := range in.Documents {
		if !entity.KnownDocumentType(d.Type) {
			return nil, fmt.Errorf("unknown document type %q: %w", d.Type, domainerrors.ErrInvalidTransition)
		}
		d.Status = entity.VerificationPending
		docs[d.Type] = d
	}
	for _, required := range entity.RequiredDocuments {
		if _, ok := docs[required]; !ok {
			return nil, fmt.Errorf("missing required document %s: %w", required, domainerrors.ErrInvalidTransition)
		}
	}

	c := &entity.Contractor{
		ID:                  uuid.NewString(),
		FullName:            in.FullName,
		Email:               in.Email,
		CompanyName:         in.CompanyName,
		LicenseNumber:       in.LicenseNumber,
		YearsOfExperience:   in.YearsOfExperience,
		SafetyCertification: in.SafetyCertification,
		Documents:           docs,
	}
	created, err := s.Contractors.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("register contractor: %w", err)
	}

	s.dispatch(ctx, entity.DomainEvent{
		Kind:         entity.EventDocumentSubmitted,
		ContractorID: created.ID,
		Contractor:   created.FullName,
		Message:      fmt.Sprintf("Contractor %s submitted documents for verification", created.FullName),
		OccurredAt:   created.CreatedAt,
	})
	return created, nil
}

func (s *VerificationService) GetContractor(ctx context.Context, id string) (*entity.Contractor, error) {
	return s.Contractors.GetByID(ctx, id)
}

// VerifyDocument settles one document. Every document change is
// announced to the admins, so all reviewers share one view of the
// queue. The aggregate status is recomputed atomically by the store;
// when it crosses into verified or rejected the contractor is told,
// with no separate "verify contractor" call anywhere. A document moved
// back to pending re-enters the admin review queue.
func (s *VerificationService) VerifyDocument(ctx context.Context, contractorID string, in repository.SetDocumentInput) (*repository.DocumentUpdate, error) {
	if !entity.ValidVerificationStatus(in.Next) {
		return nil, fmt.Errorf("unknown verification status %q: %w", in.Next, domainerrors.ErrInvalidTransition)
	}

	upd, err := s.Contractors.SetDocumentStatus(ctx, contractorID, in)
	if err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	msg := fmt.Sprintf("Contractor %s: %s marked %s", upd.Contractor.FullName, in.Type, in.Next)
	if in.Next == entity.VerificationPending {
		msg = fmt.Sprintf("Contractor %s resubmitted %s for verification", upd.Contractor.FullName, in.Type)
	}
	s.dispatch(ctx, entity.DomainEvent{
		Kind:         entity.EventDocumentSubmitted,
		ContractorID: upd.Contractor.ID,
		Contractor:   upd.Contractor.FullName,
		DocumentType: in.Type,
		Message:      msg,
		OccurredAt:   ts,
	})

	if upd.AggregateAfter != upd.AggregateBefore {
		switch upd.AggregateAfter {
		case entity.VerificationVerified:
			s.dispatch(ctx, entity.DomainEvent{
				Kind:         entity.EventContractorVerified,
				ContractorID: upd.Contractor.ID,
				Contractor:   upd.Contractor.FullName,
				Message:      "Your account has been verified. You can now bid on open tenders",
				OccurredAt:   ts,
			})
		case entity.VerificationRejected:
			s.dispatch(ctx, entity.DomainEvent{
				Kind:         entity.EventContractorRejected,
				ContractorID: upd.Contractor.ID,
				Contractor:   upd.Contractor.FullName,
				Message:      fmt.Sprintf("Your verification was rejected: %s", in.RejectionReason),
				OccurredAt:   ts,
			})
		}
	}
	return upd, nil
}

func (s *VerificationService) dispatch(ctx context.Context, ev entity.DomainEvent) {
	if s.Dispatcher == nil {
		return
	}
	if err := s.Dispatcher.Dispatch(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event", ev.Kind).Warn("notification dispatch incomplete")
	}
}
