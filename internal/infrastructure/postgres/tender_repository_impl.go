package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

const tenderColumns = `id, homeowner_id, homeowner_name, title, description, budget,
	location, start_date, end_date, status, bid_count, last_updated, created_at`

type TenderRepository struct {
	pool *pgxpool.Pool
}

func NewTenderRepository(pool *pgxpool.Pool) *TenderRepository {
	return &TenderRepository{pool: pool}
}

func scanTender(row pgx.Row) (*entity.Tender, error) {
	t := &entity.Tender{}
	err := row.Scan(&t.ID, &t.HomeownerID, &t.HomeownerName, &t.Title, &t.Description,
		&t.Budget, &t.Location, &t.StartDate, &t.EndDate, &t.Status, &t.BidCount,
		&t.LastUpdated, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TenderRepository) Create(ctx context.Context, t *entity.Tender) (*entity.Tender, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tenders (id, homeowner_id, homeowner_name, title, description, budget,
			location, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'open')
		RETURNING `+tenderColumns,
		t.ID, t.HomeownerID, t.HomeownerName, t.Title, t.Description, t.Budget,
		t.Location, t.StartDate, t.EndDate)

	created, err := scanTender(row)
	if err != nil {
		return nil, fmt.Errorf("insert tender: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return created, nil
}

func (r *TenderRepository) GetByID(ctx context.Context, id string) (*entity.Tender, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tenderColumns+` FROM tenders WHERE id = $1`, id)
	t, err := scanTender(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tender %s: %w", id, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get tender: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return t, nil
}

func (r *TenderRepository) List(ctx context.Context, f repository.TenderFilter) ([]entity.Tender, error) {
	var (
		where []string
		args  []any
	)
	if f.HomeownerID != "" {
		args = append(args, f.HomeownerID)
		where = append(where, fmt.Sprintf("homeowner_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	q := `SELECT ` + tenderColumns + ` FROM tenders`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer rows.Close()

	out := make([]entity.Tender, 0)
	for rows.Next() {
		t, err := scanTender(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tender: %w: %v", domainerrors.ErrPersistenceFailure, err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpdateStatus is a compare-and-set on the status column. A zero-row
// update is classified by re-reading: missing row is ErrNotFound, a
// different stored status is ErrConflict.
func (r *TenderRepository) UpdateStatus(ctx context.Context, id string, expected, next entity.TenderStatus) (*entity.Tender, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.CanTransition(next) && current.Status == expected {
		return nil, fmt.Errorf("tender %s: %s -> %s: %w", id, current.Status, next, domainerrors.ErrInvalidTransition)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE tenders SET status = $1, last_updated = now()
		WHERE id = $2 AND status = $3
		RETURNING `+tenderColumns,
		next, id, expected)

	t, err := scanTender(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tender %s changed concurrently: %w", id, domainerrors.ErrConflict)
		}
		return nil, fmt.Errorf("update tender status: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return t, nil
}
