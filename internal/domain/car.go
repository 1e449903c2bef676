package domain

import "time"

// Car belongs to exactly one agency. PricePerDay is whole MAD.
type Car struct {
	ID          int64
	AgencyID    int64
	Name        string
	PricePerDay int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CarWithAgency is the snapshot read at booking-request time: the car plus
// the current status of its owning agency.
type CarWithAgency struct {
	Car          Car
	AgencyStatus AgencyStatus
}

// Bookable reports whether the car may accept new bookings: the car is
// active and its agency is approved.
func (c CarWithAgency) Bookable() bool {
	return c.Car.Active && c.AgencyStatus == AgencyStatusApproved
}
