package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository serves the read-only lookups the workflow needs: users,
// cars, and the car+agency-status snapshot checked at booking-request time.
type CatalogRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetCar(ctx context.Context, id int64) (*domain.Car, error)
	GetCarWithAgency(ctx context.Context, carID int64) (*domain.CarWithAgency, error)
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{db: db}
}

func (r *PGCatalogRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, role, active FROM users WHERE id=$1`, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Role, &u.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGCatalogRepository) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	row := r.db.QueryRow(ctx, `SELECT id, agency_id, name, price_per_day, active, created_at, updated_at
		FROM cars WHERE id=$1`, id)
	var c domain.Car
	if err := row.Scan(&c.ID, &c.AgencyID, &c.Name, &c.PricePerDay, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGCatalogRepository) GetCarWithAgency(ctx context.Context, carID int64) (*domain.CarWithAgency, error) {
	row := r.db.QueryRow(ctx, `SELECT c.id, c.agency_id, c.name, c.price_per_day, c.active,
		c.created_at, c.updated_at, a.status
		FROM cars c JOIN agencies a ON a.id = c.agency_id
		WHERE c.id=$1`, carID)
	var snap domain.CarWithAgency
	if err := row.Scan(&snap.Car.ID, &snap.Car.AgencyID, &snap.Car.Name, &snap.Car.PricePerDay,
		&snap.Car.Active, &snap.Car.CreatedAt, &snap.Car.UpdatedAt, &snap.AgencyStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &snap, nil
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
