package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
)

const (
	taxRate     = 0.20
	depositRate = 0.30
)

type Input struct {
	PricePerDay    int64
	RentalDays     int
	ExtrasPrice    int64
	InsurancePrice int64
}

type Breakdown struct {
	BasePrice       int64
	ExtrasPrice     int64
	InsurancePrice  int64
	TaxAmount       int64
	TotalPrice      int64
	SecurityDeposit int64
}

// Calculate derives the pricing snapshot stored on a booking. Tax and
// deposit are rounded independently; the total sums the already-rounded
// components, so the same input always yields the same breakdown.
func Calculate(in Input) (*Breakdown, error) {
	if in.PricePerDay <= 0 {
		return nil, fmt.Errorf("%w: price per day must be positive", domain.ErrValidation)
	}
	if in.RentalDays < 1 {
		return nil, fmt.Errorf("%w: rental days must be at least 1", domain.ErrValidation)
	}
	if in.ExtrasPrice < 0 || in.InsurancePrice < 0 {
		return nil, fmt.Errorf("%w: extras and insurance must not be negative", domain.ErrValidation)
	}

	base := in.PricePerDay * int64(in.RentalDays)
	taxable := base + in.ExtrasPrice + in.InsurancePrice
	tax := int64(math.Round(float64(taxable) * taxRate))
	deposit := int64(math.Round(float64(base) * depositRate))

	return &Breakdown{
		BasePrice:       base,
		ExtrasPrice:     in.ExtrasPrice,
		InsurancePrice:  in.InsurancePrice,
		TaxAmount:       tax,
		TotalPrice:      taxable + tax,
		SecurityDeposit: deposit,
	}, nil
}

// RentalDays counts billable days for a pickup/dropoff window. A window
// shorter than 24 hours still charges one day.
func RentalDays(pickup, dropoff time.Time) int {
	days := int(math.Ceil(dropoff.Sub(pickup).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
