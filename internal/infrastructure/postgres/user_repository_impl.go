package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

// UserRepository reads the identity directory mirrored from the
// external identity provider.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u := &entity.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, role, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return u, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, role, created_at FROM users WHERE role = $1 ORDER BY id`, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w: %v", domainerrors.ErrPersistenceFailure, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
