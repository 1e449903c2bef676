package domain

import (
	"strings"
	"time"
	"unicode"
)

type AgencyStatus string

const (
	AgencyStatusPending   AgencyStatus = "PENDING"
	AgencyStatusApproved  AgencyStatus = "APPROVED"
	AgencyStatusRejected  AgencyStatus = "REJECTED"
	AgencyStatusSuspended AgencyStatus = "SUSPENDED"
)

func (s AgencyStatus) Valid() bool {
	switch s {
	case AgencyStatusPending, AgencyStatusApproved, AgencyStatusRejected, AgencyStatusSuspended:
		return true
	}
	return false
}

// Agency is a rental agency account. ApprovedAt and RejectedAt are mutually
// exclusive: any transition that sets one clears the other.
type Agency struct {
	ID               int64
	Name             string
	Slug             string
	OwnerID          int64
	ContactEmail     string
	Status           AgencyStatus
	ApprovedAt       *time.Time
	RejectedAt       *time.Time
	RejectionReason  string
	SuspensionReason string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SlugFromName derives the human-readable agency slug assigned at
// registration: lowercase, non-alphanumerics collapsed to single dashes.
func SlugFromName(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
