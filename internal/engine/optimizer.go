package engine

import (
	"fuel_optimizer/internal/model"
)

// DefaultAltitudes is the standard candidate set for the cruise-altitude
// sweep, in evaluation order.
var DefaultAltitudes = []int{32000, 34000, 36000, 38000, 40000}

// SweepResult carries the outcome of one altitude sweep.
type SweepResult struct {
	FlightID          string
	RequestedAltitude int
	BestAltitude      int
	Original          model.FuelEstimate // at the requested altitude
	Best              model.FuelEstimate // at the best altitude
}

// FuelSavings returns original minus optimized total fuel. Never
// negative: the sweep is seeded with the requested altitude.
func (r SweepResult) FuelSavings() float64 {
	return r.Original.TotalFuel - r.Best.TotalFuel
}

// Optimizer sweeps candidate cruise altitudes through the estimator and
// keeps the minimum-fuel option.
type Optimizer struct {
	est        *Estimator
	candidates []int
}

// NewOptimizer creates an optimizer over the given candidate altitudes.
// A nil or empty candidate list uses DefaultAltitudes.
func NewOptimizer(est *Estimator, candidates []int) *Optimizer {
	if len(candidates) == 0 {
		candidates = DefaultAltitudes
	}
	return &Optimizer{est: est, candidates: candidates}
}

// Sweep evaluates the plan's requested altitude and every candidate in
// order, keeping the first strictly-better candidate on ties. The
// requested altitude seeds the search, so the result is never worse
// than the original plan.
func (o *Optimizer) Sweep(plan model.FlightPlan, readings []model.WeatherReading) (SweepResult, error) {
	original, err := o.est.Estimate(plan, readings, plan.CruiseAltitude)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{
		FlightID:          plan.FlightID,
		RequestedAltitude: plan.CruiseAltitude,
		BestAltitude:      plan.CruiseAltitude,
		Original:          original,
		Best:              original,
	}

	for _, alt := range o.candidates {
		est, err := o.est.Estimate(plan, readings, alt)
		if err != nil {
			return SweepResult{}, err
		}
		if est.TotalFuel < result.Best.TotalFuel {
			result.BestAltitude = alt
			result.Best = est
		}
	}

	return result, nil
}
