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

const bidColumns = `id, tender_id, contractor_id, contractor_name, tender_title, bid_amount,
	project_duration, warranty, notes, experience, success_rate, client_rating,
	rejection_history, safety_certification, status, submission_date`

type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

func scanBid(row pgx.Row) (*entity.Bid, error) {
	b := &entity.Bid{}
	err := row.Scan(&b.ID, &b.TenderID, &b.ContractorID, &b.ContractorName, &b.TenderTitle,
		&b.BidAmount, &b.ProjectDuration, &b.Warranty, &b.Notes, &b.Experience,
		&b.SuccessRate, &b.ClientRating, &b.RejectionHistory, &b.SafetyCertification,
		&b.Status, &b.SubmissionDate)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts the bid and bumps the tender's bid count in one
// transaction, holding the tender row lock while re-checking that the
// tender still accepts bids.
func (r *BidRepository) Create(ctx context.Context, b *entity.Bid) (*entity.Bid, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		tenderStatus entity.TenderStatus
		tenderTitle  string
	)
	err = tx.QueryRow(ctx, `SELECT status, title FROM tenders WHERE id = $1 FOR UPDATE`, b.TenderID).
		Scan(&tenderStatus, &tenderTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tender %s: %w", b.TenderID, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("lock tender: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	if tenderStatus != entity.TenderOpen {
		return nil, fmt.Errorf("tender %s is %s: %w", b.TenderID, tenderStatus, domainerrors.ErrInvalidTransition)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO bids (id, tender_id, contractor_id, contractor_name, tender_title,
			bid_amount, project_duration, warranty, notes, experience, success_rate,
			client_rating, rejection_history, safety_certification, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 'Under Review')
		RETURNING `+bidColumns,
		b.ID, b.TenderID, b.ContractorID, b.ContractorName, tenderTitle,
		b.BidAmount, b.ProjectDuration, b.Warranty, b.Notes, b.Experience, b.SuccessRate,
		b.ClientRating, b.RejectionHistory, b.SafetyCertification)

	created, err := scanBid(row)
	if err != nil {
		return nil, fmt.Errorf("insert bid: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE tenders
		SET bid_count = (SELECT count(*) FROM bids WHERE tender_id = $1), last_updated = now()
		WHERE id = $1`, b.TenderID)
	if err != nil {
		return nil, fmt.Errorf("bump bid count: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return created, nil
}

func (r *BidRepository) GetByID(ctx context.Context, id string) (*entity.Bid, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id)
	b, err := scanBid(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bid %s: %w", id, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get bid: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return b, nil
}

func (r *BidRepository) List(ctx context.Context, f repository.BidFilter) ([]entity.Bid, error) {
	var (
		where []string
		args  []any
	)
	if f.TenderID != "" {
		args = append(args, f.TenderID)
		where = append(where, fmt.Sprintf("tender_id = $%d", len(args)))
	}
	if f.ContractorID != "" {
		args = append(args, f.ContractorID)
		where = append(where, fmt.Sprintf("contractor_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	q := `SELECT ` + bidColumns + ` FROM bids`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY submission_date DESC"
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
		return nil, fmt.Errorf("list bids: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer rows.Close()

	out := make([]entity.Bid, 0)
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bid: %w: %v", domainerrors.ErrPersistenceFailure, err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Accept runs the compound transition inside one transaction. The
// tender row lock taken up front serializes concurrent accepts on the
// same tender: the loser re-reads the bid after the winner committed,
// sees a terminal status and fails with ErrConflict.
func (r *BidRepository) Accept(ctx context.Context, bidID string, expected entity.BidStatus) (*repository.AcceptResult, error) {
	if expected != entity.BidUnderReview {
		return nil, fmt.Errorf("accept from %s: %w", expected, domainerrors.ErrInvalidTransition)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var tenderID string
	err = tx.QueryRow(ctx, `SELECT tender_id FROM bids WHERE id = $1`, bidID).Scan(&tenderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bid %s: %w", bidID, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get bid: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	tender, err := scanTender(tx.QueryRow(ctx,
		`SELECT `+tenderColumns+` FROM tenders WHERE id = $1 FOR UPDATE`, tenderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tender %s: %w", tenderID, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("lock tender: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	if tender.Status != entity.TenderOpen {
		return nil, fmt.Errorf("tender %s is %s: %w", tenderID, tender.Status, domainerrors.ErrInvalidTransition)
	}

	// Serialized behind the row lock; a stale status now means a
	// concurrent decision won.
	bid, err := scanBid(tx.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID))
	if err != nil {
		return nil, fmt.Errorf("reread bid: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	if bid.Status != expected {
		return nil, fmt.Errorf("bid %s is %s, expected %s: %w", bidID, bid.Status, expected, domainerrors.ErrConflict)
	}

	accepted, err := scanBid(tx.QueryRow(ctx, `
		UPDATE bids SET status = 'Accepted' WHERE id = $1 RETURNING `+bidColumns, bidID))
	if err != nil {
		return nil, fmt.Errorf("accept bid: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	rows, err := tx.Query(ctx, `
		UPDATE bids SET status = 'Rejected'
		WHERE tender_id = $1 AND id <> $2 AND status = 'Under Review'
		RETURNING `+bidColumns, tenderID, bidID)
	if err != nil {
		return nil, fmt.Errorf("reject siblings: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	var rejected []entity.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sibling: %w: %v", domainerrors.ErrPersistenceFailure, err)
		}
		rejected = append(rejected, *b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reject siblings: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	awarded, err := scanTender(tx.QueryRow(ctx, `
		UPDATE tenders SET status = 'awarded', last_updated = now()
		WHERE id = $1 RETURNING `+tenderColumns, tenderID))
	if err != nil {
		return nil, fmt.Errorf("award tender: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return &repository.AcceptResult{Accepted: accepted, Rejected: rejected, Tender: awarded}, nil
}

func (r *BidRepository) Reject(ctx context.Context, bidID string, expected entity.BidStatus) (*entity.Bid, error) {
	if expected != entity.BidUnderReview {
		return nil, fmt.Errorf("reject from %s: %w", expected, domainerrors.ErrInvalidTransition)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE bids SET status = 'Rejected'
		WHERE id = $1 AND status = $2
		RETURNING `+bidColumns, bidID, expected)

	b, err := scanBid(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reject bid: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	// Zero rows: distinguish a missing bid from a stale expected status.
	if _, err := r.GetByID(ctx, bidID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("bid %s changed concurrently: %w", bidID, domainerrors.ErrConflict)
}
