package repository

import (
	"context"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// TenderFilter narrows tender listings.
type TenderFilter struct {
	HomeownerID string
	Status      entity.TenderStatus
	Limit       int
	Offset      int
}

// TenderRepository defines the durable store operations for tenders.
// UpdateStatus is compare-and-set: it fails with domainerrors.ErrConflict
// when the stored status no longer matches expected.
type TenderRepository interface {
	Create(ctx context.Context, t *entity.Tender) (*entity.Tender, error)
	GetByID(ctx context.Context, id string) (*entity.Tender, error)
	List(ctx context.Context, f TenderFilter) ([]entity.Tender, error)
	UpdateStatus(ctx context.Context, id string, expected, next entity.TenderStatus) (*entity.Tender, error)
}
