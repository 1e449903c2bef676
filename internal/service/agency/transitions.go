package agency

import (
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/notify"
)

type transitionKey struct {
	from, to domain.AgencyStatus
}

type transitionRule struct {
	notification notify.Kind
	approve      bool // stamp approved_at, clear rejected_at
	reject       bool // stamp rejected_at, clear approved_at
}

// All agency transitions are admin-only. Suspension sends no notification
// and leaves existing bookings untouched; it only blocks new ones.
// Reinstatement from SUSPENDED is supported defensively.
var transitions = map[transitionKey]transitionRule{
	{domain.AgencyStatusPending, domain.AgencyStatusApproved}: {
		notification: notify.KindAgencyApproved,
		approve:      true,
	},
	{domain.AgencyStatusPending, domain.AgencyStatusRejected}: {
		notification: notify.KindAgencyRejected,
		reject:       true,
	},
	{domain.AgencyStatusApproved, domain.AgencyStatusSuspended}: {},
	{domain.AgencyStatusSuspended, domain.AgencyStatusApproved}: {
		notification: notify.KindAgencyApproved,
		approve:      true,
	},
}
