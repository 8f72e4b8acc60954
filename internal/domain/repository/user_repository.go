package repository

import (
	"context"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
)

// UserRepository is the read side of the identity directory mirrored
// from the external identity provider.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
}
