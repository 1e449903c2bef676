package pricing

import (
	"testing"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCalculate_ReferenceScenario(t *testing.T) {
	// 180/day for 3 days, no extras or insurance.
	got, err := Calculate(Input{PricePerDay: 180, RentalDays: 3})

	assert.NoError(t, err)
	assert.Equal(t, int64(540), got.BasePrice)
	assert.Equal(t, int64(108), got.TaxAmount)
	assert.Equal(t, int64(648), got.TotalPrice)
	assert.Equal(t, int64(162), got.SecurityDeposit)
}

func TestCalculate_TotalSumsRoundedComponents(t *testing.T) {
	testCases := []struct {
		name  string
		input Input
	}{
		{"no extras", Input{PricePerDay: 250, RentalDays: 2}},
		{"with extras", Input{PricePerDay: 180, RentalDays: 3, ExtrasPrice: 75, InsurancePrice: 120}},
		{"single day", Input{PricePerDay: 99, RentalDays: 1, ExtrasPrice: 1}},
		{"long rental", Input{PricePerDay: 333, RentalDays: 30, InsurancePrice: 450}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(tc.input)
			assert.NoError(t, err)

			assert.Equal(t, tc.input.PricePerDay*int64(tc.input.RentalDays), got.BasePrice)
			assert.Equal(t, got.BasePrice+got.ExtrasPrice+got.InsurancePrice+got.TaxAmount, got.TotalPrice)

			// Pure function: same input, same breakdown.
			again, err := Calculate(tc.input)
			assert.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestCalculate_RejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name  string
		input Input
	}{
		{"zero price per day", Input{PricePerDay: 0, RentalDays: 1}},
		{"negative price per day", Input{PricePerDay: -10, RentalDays: 1}},
		{"zero rental days", Input{PricePerDay: 100, RentalDays: 0}},
		{"negative extras", Input{PricePerDay: 100, RentalDays: 1, ExtrasPrice: -1}},
		{"negative insurance", Input{PricePerDay: 100, RentalDays: 1, InsurancePrice: -5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(tc.input)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRentalDays(t *testing.T) {
	pickup := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		dropoff time.Time
		want    int
	}{
		{"three full days", pickup.Add(72 * time.Hour), 3},
		{"under 24h charges one day", pickup.Add(6 * time.Hour), 1},
		{"exactly 24h", pickup.Add(24 * time.Hour), 1},
		{"24h and one minute rounds up", pickup.Add(24*time.Hour + time.Minute), 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RentalDays(pickup, tc.dropoff))
		})
	}
}
