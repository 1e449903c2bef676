package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusExtra carries fields written together with a status change. The
// compare-and-swap is the only code path allowed to touch them.
type StatusExtra struct {
	PaymentStatus *domain.PaymentStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	CompareAndSetStatus(ctx context.Context, id int64, expected, next domain.BookingStatus, extra StatusExtra) (*domain.Booking, error)
	CountActiveForCustomer(ctx context.Context, customerID int64) (int64, error)
	CountActiveForAgency(ctx context.Context, agencyID int64) (int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, customer_id, car_id, agency_id, pickup_at, dropoff_at,
	base_price, extras_price, insurance_price, tax_amount, total_price, security_deposit,
	status, payment_method, payment_status, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `INSERT INTO bookings
		(reference, customer_id, car_id, agency_id, pickup_at, dropoff_at,
		 base_price, extras_price, insurance_price, tax_amount, total_price, security_deposit,
		 status, payment_method, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.CustomerID, booking.CarID, booking.AgencyID,
		booking.PickupAt, booking.DropoffAt,
		booking.BasePrice, booking.ExtrasPrice, booking.InsurancePrice,
		booking.TaxAmount, booking.TotalPrice, booking.SecurityDeposit,
		booking.Status, booking.PaymentMethod, booking.PaymentStatus).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// CompareAndSetStatus applies the status change only if the row still holds
// the expected status. A lost race surfaces as ErrConflict, a missing row as
// ErrNotFound. The update and the existence check run on one repeatable-read
// snapshot so the two outcomes cannot be confused by a concurrent writer.
func (r *PGBookingRepository) CompareAndSetStatus(ctx context.Context, id int64, expected, next domain.BookingStatus, extra StatusExtra) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings
		SET status=$1, payment_status=COALESCE($2, payment_status), updated_at=now()
		WHERE id=$3 AND status=$4
		RETURNING `+bookingColumns, next, extra.PaymentStatus, id, expected)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); checkErr != nil {
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
	return b, nil
}

// isSerializationFailure reports SQLSTATE 40001. Under repeatable read a
// concurrent status writer triggers it instead of a zero-row update, so it
// maps to the same ErrConflict the caller retries on.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func (r *PGBookingRepository) CountActiveForCustomer(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE customer_id=$1 AND status IN ($2, $3, $4)`,
		customerID, domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusInProgress).
		Scan(&count)
	return count, err
}

func (r *PGBookingRepository) CountActiveForAgency(ctx context.Context, agencyID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE agency_id=$1 AND status IN ($2, $3, $4)`,
		agencyID, domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusInProgress).
		Scan(&count)
	return count, err
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.CustomerID, &b.CarID, &b.AgencyID,
		&b.PickupAt, &b.DropoffAt,
		&b.BasePrice, &b.ExtrasPrice, &b.InsurancePrice, &b.TaxAmount, &b.TotalPrice, &b.SecurityDeposit,
		&b.Status, &b.PaymentMethod, &b.PaymentStatus, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
