package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
)

const contractorColumns = `id, full_name, email, company_name, license_number,
	years_of_experience, success_rate, client_rating, rejection_history,
	safety_certification, status, created_at, updated_at`

const documentColumns = `doc_type, file_name, file_path, upload_date, status,
	verified_by, verified_at, rejection_reason`

type ContractorRepository struct {
	pool *pgxpool.Pool
}

func NewContractorRepository(pool *pgxpool.Pool) *ContractorRepository {
	return &ContractorRepository{pool: pool}
}

func scanContractor(row pgx.Row) (*entity.Contractor, error) {
	c := &entity.Contractor{Documents: make(map[entity.DocumentType]entity.Document)}
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.CompanyName, &c.LicenseNumber,
		&c.YearsOfExperience, &c.SuccessRate, &c.ClientRating, &c.RejectionHistory,
		&c.SafetyCertification, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadDocuments(ctx context.Context, q queryer, c *entity.Contractor) error {
	rows, err := q.Query(ctx,
		`SELECT `+documentColumns+` FROM contractor_documents WHERE contractor_id = $1`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d          entity.Document
			verifiedBy *string
			verifiedAt *time.Time
			reason     *string
		)
		if err := rows.Scan(&d.Type, &d.FileName, &d.FilePath, &d.UploadDate, &d.Status,
			&verifiedBy, &verifiedAt, &reason); err != nil {
			return err
		}
		if verifiedBy != nil {
			d.VerifiedBy = *verifiedBy
		}
		if verifiedAt != nil {
			d.VerifiedAt = *verifiedAt
		}
		if reason != nil {
			d.RejectionReason = *reason
		}
		c.Documents[d.Type] = d
	}
	return rows.Err()
}

func (r *ContractorRepository) Create(ctx context.Context, c *entity.Contractor) (*entity.Contractor, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	status := c.DeriveStatus()
	row := tx.QueryRow(ctx, `
		INSERT INTO contractors (id, full_name, email, company_name, license_number,
			years_of_experience, success_rate, client_rating, rejection_history,
			safety_certification, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+contractorColumns,
		c.ID, c.FullName, c.Email, c.CompanyName, c.LicenseNumber,
		c.YearsOfExperience, c.SuccessRate, c.ClientRating, c.RejectionHistory,
		c.SafetyCertification, status)

	created, err := scanContractor(row)
	if err != nil {
		return nil, fmt.Errorf("insert contractor: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	for _, d := range c.Documents {
		_, err := tx.Exec(ctx, `
			INSERT INTO contractor_documents (contractor_id, doc_type, file_name, file_path, status)
			VALUES ($1, $2, $3, $4, 'pending')`,
			created.ID, d.Type, d.FileName, d.FilePath)
		if err != nil {
			return nil, fmt.Errorf("insert document: %w: %v", domainerrors.ErrPersistenceFailure, err)
		}
	}
	if err := loadDocuments(ctx, tx, created); err != nil {
		return nil, fmt.Errorf("load documents: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return created, nil
}

func (r *ContractorRepository) GetByID(ctx context.Context, id string) (*entity.Contractor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contractorColumns+` FROM contractors WHERE id = $1`, id)
	c, err := scanContractor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("contractor %s: %w", id, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get contractor: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	if err := loadDocuments(ctx, r.pool, c); err != nil {
		return nil, fmt.Errorf("load documents: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return c, nil
}

func (r *ContractorRepository) ListVerified(ctx context.Context) ([]entity.Contractor, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contractorColumns+` FROM contractors WHERE status = 'verified' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list verified: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer rows.Close()

	out := make([]entity.Contractor, 0)
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contractor: %w: %v", domainerrors.ErrPersistenceFailure, err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// SetDocumentStatus settles one document and recomputes the aggregate,
// all behind the contractor row lock so a concurrent settle on a
// sibling document can never be folded in from a stale snapshot.
func (r *ContractorRepository) SetDocumentStatus(ctx context.Context, contractorID string, in repository.SetDocumentInput) (*repository.DocumentUpdate, error) {
	if !entity.KnownDocumentType(in.Type) {
		return nil, fmt.Errorf("document type %q: %w", in.Type, domainerrors.ErrInvalidTransition)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	c, err := scanContractor(tx.QueryRow(ctx,
		`SELECT `+contractorColumns+` FROM contractors WHERE id = $1 FOR UPDATE`, contractorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("contractor %s: %w", contractorID, domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("lock contractor: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	if err := loadDocuments(ctx, tx, c); err != nil {
		return nil, fmt.Errorf("load documents: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	doc, ok := c.Documents[in.Type]
	if !ok {
		return nil, fmt.Errorf("contractor %s has no %s: %w", contractorID, in.Type, domainerrors.ErrNotFound)
	}
	if doc.Status != in.Expected {
		return nil, fmt.Errorf("document %s is %s, expected %s: %w", in.Type, doc.Status, in.Expected, domainerrors.ErrConflict)
	}
	if !allowedDocumentSettle(doc.Status, in.Next) {
		return nil, fmt.Errorf("document %s: %s -> %s: %w", in.Type, doc.Status, in.Next, domainerrors.ErrInvalidTransition)
	}

	prevDoc := doc.Status
	aggBefore := c.Status

	_, err = tx.Exec(ctx, `
		UPDATE contractor_documents
		SET status = $1, verified_by = $2, verified_at = now(),
		    rejection_reason = $3,
		    upload_date = CASE WHEN $1 = 'pending' THEN now() ELSE upload_date END
		WHERE contractor_id = $4 AND doc_type = $5`,
		in.Next, in.VerifiedBy, in.RejectionReason, contractorID, in.Type)
	if err != nil {
		return nil, fmt.Errorf("update document: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}

	// Recompute from the freshly updated set, still under the lock.
	c.Documents = make(map[entity.DocumentType]entity.Document)
	if err := loadDocuments(ctx, tx, c); err != nil {
		return nil, fmt.Errorf("reload documents: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	aggregate := c.DeriveStatus()

	updated, err := scanContractor(tx.QueryRow(ctx, `
		UPDATE contractors SET status = $1, updated_at = now()
		WHERE id = $2 RETURNING `+contractorColumns, aggregate, contractorID))
	if err != nil {
		return nil, fmt.Errorf("update aggregate: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	updated.Documents = c.Documents

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w: %v", domainerrors.ErrPersistenceFailure, err)
	}
	return &repository.DocumentUpdate{
		Contractor:      updated,
		Document:        updated.Documents[in.Type],
		PreviousStatus:  prevDoc,
		AggregateBefore: aggBefore,
		AggregateAfter:  updated.Status,
	}, nil
}

func allowedDocumentSettle(from, to entity.VerificationStatus) bool {
	switch from {
	case entity.VerificationPending:
		return to == entity.VerificationVerified || to == entity.VerificationRejected
	case entity.VerificationRejected:
		return to == entity.VerificationPending || to == entity.VerificationVerified
	}
	return false
}
