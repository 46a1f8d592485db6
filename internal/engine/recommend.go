package engine

import (
	"fmt"
	"strings"

	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/weather"
)

const (
	// FuelPricePerKG is the assumed fuel price in USD per kg.
	FuelPricePerKG = 0.85

	// Altitude change thresholds: a change of at least
	// rationaleAltitudeChange feet earns a rationale clause; at least
	// significantAltitudeChange feet makes the recommendation an
	// altitude optimization with a coordination delay.
	rationaleAltitudeChange   = 2000
	significantAltitudeChange = 4000

	// Coordination delay for a significant altitude change, minutes.
	altitudeChangeDelay = 2

	// Confidence heuristic bounds.
	confidenceFloor   = 0.70
	confidenceCeiling = 0.95

	// Mean route wind speed above this is flagged as a weather factor.
	strongWindThreshold = 100

	standardRationale = "Standard optimization applied"
)

// FactorKind identifies a contributing factor in a recommendation.
type FactorKind string

const (
	FactorAltitudeChange FactorKind = "altitude_change"
	FactorJetStream      FactorKind = "jet_stream"
	FactorTailwind       FactorKind = "tailwind"
	FactorStrongWind     FactorKind = "strong_wind"
)

// Factor is one typed contributing factor with its rendered text.
// Rationale and weather-factor assembly work from these records so each
// predicate stays testable apart from the string formatting.
type Factor struct {
	Kind FactorKind
	Text string
}

// JetStreamFunc is the jet-stream collaborator contract: a pure
// function of route and altitude.
type JetStreamFunc func(waypoints []model.Waypoint, altitude int) weather.JetStreamInfo

// Classifier turns a sweep result into a typed recommendation with
// rationale, weather factors, and a confidence score.
type Classifier struct {
	FuelPrice float64
	JetStream JetStreamFunc
}

// NewClassifier creates a classifier with the standard fuel price and
// jet-stream analysis.
func NewClassifier() *Classifier {
	return &Classifier{FuelPrice: FuelPricePerKG, JetStream: weather.JetStream}
}

// Classify builds the final optimization result for a flight from the
// sweep outcome and the weather readings used during the sweep.
func (c *Classifier) Classify(plan model.FlightPlan, readings []model.WeatherReading, sweep SweepResult) model.OptimizationResult {
	altitudeChange := sweep.BestAltitude - sweep.RequestedAltitude
	if altitudeChange < 0 {
		altitudeChange = -altitudeChange
	}

	recType := model.RouteModification
	timeImpact := 0
	if altitudeChange >= significantAltitudeChange {
		recType = model.AltitudeOptimization
		timeImpact = altitudeChangeDelay
	}

	fuelSavings := sweep.FuelSavings()
	savingsPct := 0.0
	if sweep.Original.TotalFuel > 0 {
		savingsPct = fuelSavings / sweep.Original.TotalFuel * 100
	}

	jet := c.JetStream(plan.RouteWaypoints, sweep.BestAltitude)

	rationale := renderRationale(c.rationaleFactors(sweep, altitudeChange, jet))

	confidence := confidenceFloor + savingsPct/100
	if confidence > confidenceCeiling {
		confidence = confidenceCeiling
	}

	return model.OptimizationResult{
		FlightID:           sweep.FlightID,
		OriginalFuel:       sweep.Original.TotalFuel,
		OptimizedFuel:      sweep.Best.TotalFuel,
		FuelSavings:        fuelSavings,
		SavingsPercentage:  savingsPct,
		TimeImpact:         timeImpact,
		ConfidenceScore:    confidence,
		RecommendationType: recType,
		OptimizedAltitude:  sweep.BestAltitude,
		Rationale:          rationale,
		WeatherFactors:     renderFactors(c.weatherFactors(readings, jet)),
		CostSavings:        fuelSavings * c.FuelPrice,
	}
}

// rationaleFactors assembles the ordered rationale clauses: altitude
// change, jet stream, tailwind.
func (c *Classifier) rationaleFactors(sweep SweepResult, altitudeChange int, jet weather.JetStreamInfo) []Factor {
	var factors []Factor

	if altitudeChange >= rationaleAltitudeChange {
		factors = append(factors, Factor{
			Kind: FactorAltitudeChange,
			Text: fmt.Sprintf("Altitude change from FL%d to FL%d optimizes fuel efficiency",
				sweep.RequestedAltitude/100, sweep.BestAltitude/100),
		})
	}

	if jet.Present {
		factors = append(factors, Factor{
			Kind: FactorJetStream,
			Text: fmt.Sprintf("Jet stream analysis: %s", jet.Benefit),
		})
	}

	if sweep.Best.AvgWindImpact > 0 {
		factors = append(factors, Factor{
			Kind: FactorTailwind,
			Text: fmt.Sprintf("Favorable tailwind component of %.0f knots", sweep.Best.AvgWindImpact),
		})
	}

	return factors
}

// weatherFactors accumulates jet-stream and strong-wind entries,
// independently of the rationale text.
func (c *Classifier) weatherFactors(readings []model.WeatherReading, jet weather.JetStreamInfo) []Factor {
	var factors []Factor

	if jet.Present {
		factors = append(factors, Factor{
			Kind: FactorJetStream,
			Text: fmt.Sprintf("Jet stream: %s %s", jet.Strength, jet.Direction),
		})
	}

	if avg := MeanWindSpeed(readings); avg > strongWindThreshold {
		factors = append(factors, Factor{
			Kind: FactorStrongWind,
			Text: fmt.Sprintf("Strong winds averaging %.0f knots", avg),
		})
	}

	return factors
}

// MeanWindSpeed returns the mean wind speed of the readings in knots,
// 0 for an empty list.
func MeanWindSpeed(readings []model.WeatherReading) float64 {
	if len(readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range readings {
		sum += float64(r.WindSpeed)
	}
	return sum / float64(len(readings))
}

func renderRationale(factors []Factor) string {
	if len(factors) == 0 {
		return standardRationale
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		parts[i] = f.Text
	}
	return strings.Join(parts, ". ")
}

func renderFactors(factors []Factor) []string {
	out := make([]string, len(factors))
	for i, f := range factors {
		out[i] = f.Text
	}
	return out
}
