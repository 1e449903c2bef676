package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AgencyStatusUpdate carries the audit fields written together with an
// agency status change. ApprovedAt and RejectedAt are mutually exclusive:
// SetApprovedAt stamps approved_at and clears rejected_at in the same
// update, SetRejectedAt the reverse.
type AgencyStatusUpdate struct {
	SetApprovedAt    bool
	SetRejectedAt    bool
	RejectionReason  *string
	SuspensionReason *string
}

type AgencyRepository interface {
	Create(ctx context.Context, agency *domain.Agency) error
	GetByID(ctx context.Context, id int64) (*domain.Agency, error)
	CompareAndSetStatus(ctx context.Context, id int64, expected, next domain.AgencyStatus, update AgencyStatusUpdate) (*domain.Agency, error)
}

type PGAgencyRepository struct {
	db *pgxpool.Pool
}

func NewAgencyRepository(db *pgxpool.Pool) AgencyRepository {
	return &PGAgencyRepository{db: db}
}

const agencyColumns = `id, name, slug, owner_id, contact_email, status,
	approved_at, rejected_at, rejection_reason, suspension_reason, created_at, updated_at`

// Create registers a pending agency and promotes the owner to AGENCY_OWNER
// in the same transaction.
func (r *PGAgencyRepository) Create(ctx context.Context, agency *domain.Agency) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	agency.Status = domain.AgencyStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO agencies (name, slug, owner_id, contact_email, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		agency.Name, agency.Slug, agency.OwnerID, agency.ContactEmail, agency.Status).
		Scan(&agency.ID, &agency.CreatedAt, &agency.UpdatedAt); err != nil {
		return fmt.Errorf("insert agency: %w", err)
	}

	cmd, err := tx.Exec(ctx, `UPDATE users SET role=$1 WHERE id=$2`,
		domain.RoleAgencyOwner, agency.OwnerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *PGAgencyRepository) GetByID(ctx context.Context, id int64) (*domain.Agency, error) {
	row := r.db.QueryRow(ctx, `SELECT `+agencyColumns+` FROM agencies WHERE id=$1`, id)
	a, err := scanAgency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// CompareAndSetStatus mirrors the booking repository: update and existence
// check share a repeatable-read snapshot, serialization failures map to
// ErrConflict.
func (r *PGAgencyRepository) CompareAndSetStatus(ctx context.Context, id int64, expected, next domain.AgencyStatus, update AgencyStatusUpdate) (*domain.Agency, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE agencies
		SET status=$1,
		    approved_at=CASE WHEN $2 THEN now() WHEN $3 THEN NULL ELSE approved_at END,
		    rejected_at=CASE WHEN $3 THEN now() WHEN $2 THEN NULL ELSE rejected_at END,
		    rejection_reason=COALESCE($4, rejection_reason),
		    suspension_reason=COALESCE($5, suspension_reason),
		    updated_at=now()
		WHERE id=$6 AND status=$7
		RETURNING `+agencyColumns,
		next, update.SetApprovedAt, update.SetRejectedAt,
		update.RejectionReason, update.SuspensionReason, id, expected)
	a, err := scanAgency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM agencies WHERE id=$1)`, id).Scan(&exists); checkErr != nil {
				return nil, checkErr
			}
			if !exists {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrConflict
		}
		if isSerializationFailure(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("commit status update: %w", err)
	}
	return a, nil
}

func scanAgency(row pgx.Row) (*domain.Agency, error) {
	var a domain.Agency
	var rejectionReason, suspensionReason *string
	if err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.OwnerID, &a.ContactEmail, &a.Status,
		&a.ApprovedAt, &a.RejectedAt, &rejectionReason, &suspensionReason,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if rejectionReason != nil {
		a.RejectionReason = *rejectionReason
	}
	if suspensionReason != nil {
		a.SuspensionReason = *suspensionReason
	}
	return &a, nil
}

var _ AgencyRepository = (*PGAgencyRepository)(nil)
