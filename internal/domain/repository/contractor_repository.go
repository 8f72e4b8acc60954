package repository

import (
	"context"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// DocumentUpdate reports a settled document transition together with
// the aggregate status before and after the atomic recompute.
type DocumentUpdate struct {
	Contractor      *entity.Contractor
	Document        entity.Document
	PreviousStatus  entity.VerificationStatus
	AggregateBefore entity.VerificationStatus
	AggregateAfter  entity.VerificationStatus
}

// SetDocumentInput carries one document verification decision.
type SetDocumentInput struct {
	Type            entity.DocumentType
	Expected        entity.VerificationStatus
	Next            entity.VerificationStatus
	VerifiedBy      string
	RejectionReason string
}

// ContractorRepository defines the durable store operations for
// contractors and their verification documents.
//
// SetDocumentStatus settles one document and recomputes the aggregate
// status against the latest document set in the same atomic step, so
// concurrent sibling-document updates can never leave a stale
// aggregate behind.
type ContractorRepository interface {
	Create(ctx context.Context, c *entity.Contractor) (*entity.Contractor, error)
	GetByID(ctx context.Context, id string) (*entity.Contractor, error)
	ListVerified(ctx context.Context) ([]entity.Contractor, error)
	SetDocumentStatus(ctx context.Context, contractorID string, in SetDocumentInput) (*DocumentUpdate, error)
}
