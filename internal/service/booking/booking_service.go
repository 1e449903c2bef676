package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/notify"
	"github.com/Domenick1991/carrental/internal/pricing"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	TransitionBooking(ctx context.Context, bookingID int64, requested domain.BookingStatus, actor domain.Actor) (*domain.Booking, error)
	CancelOwnBooking(ctx context.Context, bookingID, customerID int64) (*domain.Booking, error)
	CountActiveForCustomer(ctx context.Context, customerID int64) (int64, error)
	CountActiveForAgency(ctx context.Context, agencyID int64) (int64, error)
}

type Cache interface {
	GetCar(ctx context.Context, carID int64) (*domain.Car, error)
	SetCar(ctx context.Context, car *domain.Car) error
	GetAgencyStatus(ctx context.Context, agencyID int64) (domain.AgencyStatus, error)
	SetAgencyStatus(ctx context.Context, agencyID int64, status domain.AgencyStatus) error
}

type BookingService struct {
	bookings     repository.BookingRepository
	catalog      repository.CatalogRepository
	cache        Cache
	notifier     notify.Notifier
	storeTimeout time.Duration
}

type CreateBookingInput struct {
	CustomerID     int64
	CarID          int64
	PickupAt       time.Time
	DropoffAt      time.Time
	ExtrasPrice    int64
	InsurancePrice int64
	PaymentMethod  domain.PaymentMethod
	// ConfirmImmediately persists the booking directly in CONFIRMED (the
	// admin "book now" flow) and fires the confirmation notification once.
	ConfirmImmediately bool
	Actor              domain.Actor
}

type BookingServiceOption func(*BookingService)

func WithStoreTimeout(d time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.storeTimeout = d
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	catalog repository.CatalogRepository,
	cache Cache,
	notifier notify.Notifier,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		catalog:  catalog,
		cache:    cache,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidation, input.PaymentMethod)
	}
	if !input.DropoffAt.After(input.PickupAt) {
		return nil, fmt.Errorf("%w: dropoff must be after pickup", domain.ErrValidation)
	}
	if input.PickupAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: pickup is in the past", domain.ErrValidation)
	}
	if input.ConfirmImmediately && input.Actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may create confirmed bookings", domain.ErrForbidden)
	}
	if input.Actor.Role == domain.RoleCustomer && input.Actor.UserID != input.CustomerID {
		return nil, fmt.Errorf("%w: customers may only book for themselves", domain.ErrForbidden)
	}

	customer, err := s.getUser(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.Active {
		return nil, fmt.Errorf("%w: customer account is deactivated", domain.ErrForbidden)
	}

	snapshot, err := s.carSnapshot(ctx, input.CarID)
	if err != nil {
		return nil, err
	}
	if !snapshot.Bookable() {
		return nil, fmt.Errorf("%w: car is not available for booking", domain.ErrValidation)
	}

	breakdown, err := pricing.Calculate(pricing.Input{
		PricePerDay:    snapshot.Car.PricePerDay,
		RentalDays:     pricing.RentalDays(input.PickupAt, input.DropoffAt),
		ExtrasPrice:    input.ExtrasPrice,
		InsurancePrice: input.InsurancePrice,
	})
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference:       newReference(),
		CustomerID:      input.CustomerID,
		CarID:           snapshot.Car.ID,
		AgencyID:        snapshot.Car.AgencyID,
		PickupAt:        input.PickupAt,
		DropoffAt:       input.DropoffAt,
		BasePrice:       breakdown.BasePrice,
		ExtrasPrice:     breakdown.ExtrasPrice,
		InsurancePrice:  breakdown.InsurancePrice,
		TaxAmount:       breakdown.TaxAmount,
		TotalPrice:      breakdown.TotalPrice,
		SecurityDeposit: breakdown.SecurityDeposit,
		Status:          domain.BookingStatusPending,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
	}
	if input.ConfirmImmediately {
		booking.Status = domain.BookingStatusConfirmed
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.bookings.Create(storeCtx, booking); err != nil {
		return nil, mapStoreErr(err)
	}

	// Pending creations are silent; only CONFIRMED triggers the email.
	if booking.Status == domain.BookingStatusConfirmed {
		s.dispatch(ctx, notify.KindBookingConfirmed, booking, customer.Email, snapshot.Car.Name)
	}
	return booking, nil
}

// TransitionBooking applies a status change through the legal table or the
// admin override, compare-and-swapping on the status read. A lost race is
// retried once before Conflict surfaces to the caller.
func (s *BookingService) TransitionBooking(ctx context.Context, bookingID int64, requested domain.BookingStatus, actor domain.Actor) (*domain.Booking, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		current, err := s.getBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		res, err := resolveTransition(current, requested, actor)
		if err != nil {
			return nil, err
		}
		if res.noop {
			return current, nil
		}

		extra := repository.StatusExtra{}
		if requested == domain.BookingStatusCancelled && current.PaymentStatus == domain.PaymentStatusCompleted {
			refunded := domain.PaymentStatusRefunded
			extra.PaymentStatus = &refunded
		}

		storeCtx, cancel := s.storeContext(ctx)
		updated, err := s.bookings.CompareAndSetStatus(storeCtx, bookingID, current.Status, requested, extra)
		cancel()
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, mapStoreErr(err)
		}

		s.dispatchForBooking(ctx, res.notification, updated)
		return updated, nil
	}
	return nil, lastErr
}

func (s *BookingService) CancelOwnBooking(ctx context.Context, bookingID, customerID int64) (*domain.Booking, error) {
	actor := domain.Actor{UserID: customerID, Role: domain.RoleCustomer}
	return s.TransitionBooking(ctx, bookingID, domain.BookingStatusCancelled, actor)
}

func (s *BookingService) CountActiveForCustomer(ctx context.Context, customerID int64) (int64, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	count, err := s.bookings.CountActiveForCustomer(storeCtx, customerID)
	return count, mapStoreErr(err)
}

func (s *BookingService) CountActiveForAgency(ctx context.Context, agencyID int64) (int64, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	count, err := s.bookings.CountActiveForAgency(storeCtx, agencyID)
	return count, mapStoreErr(err)
}

// carSnapshot reads the car and its agency status, preferring the cache. A
// stale approved/suspended answer within the cache TTL is acceptable.
func (s *BookingService) carSnapshot(ctx context.Context, carID int64) (*domain.CarWithAgency, error) {
	if s.cache != nil {
		car, err := s.cache.GetCar(ctx, carID)
		if err == nil && car != nil {
			status, err := s.cache.GetAgencyStatus(ctx, car.AgencyID)
			if err == nil && status != "" {
				return &domain.CarWithAgency{Car: *car, AgencyStatus: status}, nil
			}
		}
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	snapshot, err := s.catalog.GetCarWithAgency(storeCtx, carID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if s.cache != nil {
		_ = s.cache.SetCar(ctx, &snapshot.Car)
		_ = s.cache.SetAgencyStatus(ctx, snapshot.Car.AgencyID, snapshot.AgencyStatus)
	}
	return snapshot, nil
}

func (s *BookingService) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	b, err := s.bookings.GetByID(storeCtx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return b, nil
}

func (s *BookingService) getUser(ctx context.Context, id int64) (*domain.User, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	u, err := s.catalog.GetUser(storeCtx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return u, nil
}

// dispatchForBooking resolves the recipient and car name before dispatch.
// Lookups are best effort: a failed lookup drops the notification with a
// log line, never the transition.
func (s *BookingService) dispatchForBooking(ctx context.Context, kind notify.Kind, b *domain.Booking) {
	if kind == "" || s.notifier == nil {
		return
	}
	customer, err := s.catalog.GetUser(ctx, b.CustomerID)
	if err != nil {
		log.Printf("WARNING: cannot resolve recipient for booking %s: %v", b.Reference, err)
		return
	}
	carName := ""
	if car, err := s.catalog.GetCar(ctx, b.CarID); err == nil {
		carName = car.Name
	}
	s.dispatch(ctx, kind, b, customer.Email, carName)
}

func (s *BookingService) dispatch(ctx context.Context, kind notify.Kind, b *domain.Booking, recipient, carName string) {
	if kind == "" || s.notifier == nil {
		return
	}
	payload := notify.Payload{
		Reference:       b.Reference,
		CarName:         carName,
		PickupAt:        b.PickupAt,
		DropoffAt:       b.DropoffAt,
		TotalPrice:      b.TotalPrice,
		SecurityDeposit: b.SecurityDeposit,
	}
	if err := s.notifier.Notify(ctx, kind, recipient, payload); err != nil {
		log.Printf("WARNING: failed to send %s for booking %s: %v", kind, b.Reference, err)
	}
}

func (s *BookingService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrUnavailable
	}
	return err
}

func newReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "CR-" + raw[:10]
}

var _ BookingUseCase = (*BookingService)(nil)
