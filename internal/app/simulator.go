package app

import (
	"math"

	"brainbank-service/internal/domain"
)

// Simulator models the compound-interest teaching scenario: a fixed
// principal growing at a fixed annual rate, with reward milestones that
// unlock as the projected value passes them.
type Simulator struct {
	Principal  float64
	Rate       float64
	Milestones []float64
}

// DefaultSimulator matches the demo scenario: $20 at a 7% average
// annual return, with the on-screen reward milestones.
func DefaultSimulator() Simulator {
	return Simulator{
		Principal:  20,
		Rate:       0.07,
		Milestones: []float64{25, 40, 80, 150},
	}
}

// Project computes the investment value after the given number of whole
// years and which milestones that value clears.
func (s Simulator) Project(years int) domain.Projection {
	if years < 0 {
		years = 0
	}
	value := s.Principal * math.Pow(1+s.Rate, float64(years))

	var unlocked []float64
	for _, m := range s.Milestones {
		if value >= m {
			unlocked = append(unlocked, m)
		}
	}
	return domain.Projection{
		Principal: s.Principal,
		Years:     years,
		Value:     value,
		Unlocked:  unlocked,
	}
}

// Gain returns the profit over the principal for a projection.
func (s Simulator) Gain(p domain.Projection) float64 {
	return p.Value - s.Principal
}
