package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domainerrors.ErrNotFound)
	}
	out := u
	return &out, nil
}

func (r *UserRepo) ListByRole(_ context.Context, role entity.Role) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.User, 0)
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
