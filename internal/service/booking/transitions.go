package booking

import (
	"fmt"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/notify"
)

type transitionKey struct {
	from, to domain.BookingStatus
}

type transitionRule struct {
	roles        map[domain.Role]bool
	notification notify.Kind
}

// transitions is the legal table for the normal path. The admin override is
// a second, wider relation resolved separately so the table stays strict.
var transitions = map[transitionKey]transitionRule{
	{domain.BookingStatusPending, domain.BookingStatusConfirmed}: {
		roles:        roleSet(domain.RoleAgencyOwner, domain.RoleAgencyStaff, domain.RoleAdmin),
		notification: notify.KindBookingConfirmed,
	},
	{domain.BookingStatusPending, domain.BookingStatusCancelled}: {
		roles:        roleSet(domain.RoleCustomer, domain.RoleAgencyOwner, domain.RoleAgencyStaff, domain.RoleAdmin),
		notification: notify.KindBookingCancelled,
	},
	{domain.BookingStatusConfirmed, domain.BookingStatusInProgress}: {
		roles: roleSet(domain.RoleAgencyOwner, domain.RoleAgencyStaff),
	},
	{domain.BookingStatusConfirmed, domain.BookingStatusCancelled}: {
		roles:        roleSet(domain.RoleCustomer, domain.RoleAgencyOwner, domain.RoleAgencyStaff, domain.RoleAdmin),
		notification: notify.KindBookingCancelled,
	},
	{domain.BookingStatusConfirmed, domain.BookingStatusCompleted}: {
		roles:        roleSet(domain.RoleAgencyOwner, domain.RoleAgencyStaff, domain.RoleAdmin),
		notification: notify.KindBookingCompleted,
	},
	{domain.BookingStatusInProgress, domain.BookingStatusCompleted}: {
		roles:        roleSet(domain.RoleAgencyOwner, domain.RoleAgencyStaff, domain.RoleAdmin),
		notification: notify.KindBookingCompleted,
	},
}

// overrideTargets lists the statuses an admin may force from any
// non-terminal state. IN_PROGRESS is deliberately absent.
var overrideTargets = map[domain.BookingStatus]bool{
	domain.BookingStatusPending:   true,
	domain.BookingStatusConfirmed: true,
	domain.BookingStatusCancelled: true,
	domain.BookingStatusCompleted: true,
}

type resolution struct {
	noop         bool
	notification notify.Kind
}

// resolveTransition checks actor scope, then the legal table, then the admin
// override. A request matching the current status is an idempotent no-op and
// must not re-fire notifications.
func resolveTransition(b *domain.Booking, requested domain.BookingStatus, actor domain.Actor) (resolution, error) {
	if !requested.Valid() {
		return resolution{}, fmt.Errorf("%w: unknown booking status %q", domain.ErrValidation, requested)
	}
	if err := authorizeScope(b, actor); err != nil {
		return resolution{}, err
	}
	if requested == b.Status {
		return resolution{noop: true}, nil
	}

	if rule, ok := transitions[transitionKey{b.Status, requested}]; ok && rule.roles[actor.Role] {
		return resolution{notification: rule.notification}, nil
	}

	if actor.Role == domain.RoleAdmin && !b.Status.Terminal() && overrideTargets[requested] {
		return resolution{notification: overrideNotification(requested)}, nil
	}

	return resolution{}, &domain.InvalidTransitionError{
		Current:   string(b.Status),
		Requested: string(requested),
		Role:      actor.Role,
	}
}

// authorizeScope enforces ownership: customers only on their own bookings,
// agency actors only on their agency's bookings, admins anywhere.
func authorizeScope(b *domain.Booking, actor domain.Actor) error {
	switch {
	case actor.Role == domain.RoleAdmin:
		return nil
	case actor.Role.Agency():
		if actor.AgencyID != b.AgencyID {
			return fmt.Errorf("%w: booking belongs to another agency", domain.ErrForbidden)
		}
		return nil
	case actor.Role == domain.RoleCustomer:
		if actor.UserID != b.CustomerID {
			return fmt.Errorf("%w: booking belongs to another customer", domain.ErrForbidden)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown actor role %q", domain.ErrForbidden, actor.Role)
}

func overrideNotification(to domain.BookingStatus) notify.Kind {
	switch to {
	case domain.BookingStatusConfirmed:
		return notify.KindBookingConfirmed
	case domain.BookingStatusCancelled:
		return notify.KindBookingCancelled
	case domain.BookingStatusCompleted:
		return notify.KindBookingCompleted
	}
	return ""
}

func roleSet(roles ...domain.Role) map[domain.Role]bool {
	set := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}
