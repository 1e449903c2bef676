package agency

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/notify"
	"github.com/Domenick1991/carrental/internal/repository"
)

type AgencyUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Agency, error)
	TransitionAgency(ctx context.Context, agencyID int64, requested domain.AgencyStatus, actor domain.Actor, reason string) (*domain.Agency, error)
}

type Cache interface {
	DeleteAgencyStatus(ctx context.Context, agencyID int64) error
}

type AgencyService struct {
	agencies     repository.AgencyRepository
	cache        Cache
	notifier     notify.Notifier
	storeTimeout time.Duration
}

type RegisterInput struct {
	Name         string
	OwnerID      int64
	ContactEmail string
}

type AgencyServiceOption func(*AgencyService)

func WithStoreTimeout(d time.Duration) AgencyServiceOption {
	return func(s *AgencyService) {
		s.storeTimeout = d
	}
}

func NewAgencyService(agencies repository.AgencyRepository, cache Cache, notifier notify.Notifier, opts ...AgencyServiceOption) *AgencyService {
	service := &AgencyService{
		agencies: agencies,
		cache:    cache,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Register creates a pending agency with a slug derived from its name and
// promotes the registering user to agency owner.
func (s *AgencyService) Register(ctx context.Context, input RegisterInput) (*domain.Agency, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: agency name is required", domain.ErrValidation)
	}
	if input.ContactEmail == "" {
		return nil, fmt.Errorf("%w: contact email is required", domain.ErrValidation)
	}

	agency := &domain.Agency{
		Name:         input.Name,
		Slug:         domain.SlugFromName(input.Name),
		OwnerID:      input.OwnerID,
		ContactEmail: input.ContactEmail,
	}

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.agencies.Create(storeCtx, agency); err != nil {
		return nil, mapStoreErr(err)
	}
	return agency, nil
}

// TransitionAgency applies an admin-only status change, compare-and-swapping
// on the status read. A lost race is retried once before Conflict surfaces.
func (s *AgencyService) TransitionAgency(ctx context.Context, agencyID int64, requested domain.AgencyStatus, actor domain.Actor, reason string) (*domain.Agency, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: agency transitions are admin-only", domain.ErrForbidden)
	}
	if !requested.Valid() {
		return nil, fmt.Errorf("%w: unknown agency status %q", domain.ErrValidation, requested)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		current, err := s.getAgency(ctx, agencyID)
		if err != nil {
			return nil, err
		}
		if requested == current.Status {
			return current, nil
		}

		rule, ok := transitions[transitionKey{current.Status, requested}]
		if !ok {
			return nil, &domain.InvalidTransitionError{
				Current:   string(current.Status),
				Requested: string(requested),
				Role:      actor.Role,
			}
		}

		update := repository.AgencyStatusUpdate{
			SetApprovedAt: rule.approve,
			SetRejectedAt: rule.reject,
		}
		if reason != "" {
			switch requested {
			case domain.AgencyStatusRejected:
				update.RejectionReason = &reason
			case domain.AgencyStatusSuspended:
				update.SuspensionReason = &reason
			}
		}

		storeCtx, cancel := s.storeContext(ctx)
		updated, err := s.agencies.CompareAndSetStatus(storeCtx, agencyID, current.Status, requested, update)
		cancel()
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, mapStoreErr(err)
		}

		if s.cache != nil {
			_ = s.cache.DeleteAgencyStatus(ctx, agencyID)
		}
		s.dispatch(ctx, rule.notification, updated, reason)
		return updated, nil
	}
	return nil, lastErr
}

func (s *AgencyService) getAgency(ctx context.Context, id int64) (*domain.Agency, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()
	a, err := s.agencies.GetByID(storeCtx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return a, nil
}

func (s *AgencyService) dispatch(ctx context.Context, kind notify.Kind, a *domain.Agency, reason string) {
	if kind == "" || s.notifier == nil {
		return
	}
	payload := notify.Payload{
		AgencyName: a.Name,
		Reason:     reason,
	}
	if err := s.notifier.Notify(ctx, kind, a.ContactEmail, payload); err != nil {
		log.Printf("WARNING: failed to send %s for agency %s: %v", kind, a.Slug, err)
	}
}

func (s *AgencyService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
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

var _ AgencyUseCase = (*AgencyService)(nil)
