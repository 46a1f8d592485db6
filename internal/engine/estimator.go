// Package engine implements the fuel optimization core: the multi-factor
// fuel-burn model, the cruise-altitude sweep, and the recommendation
// classifier. All components are pure functions of their inputs; the
// only shared state is the read-only aircraft profile table injected at
// construction.
package engine

import (
	"fmt"
	"math"

	"fuel_optimizer/internal/geo"
	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/profiles"
)

const (
	// passengerMassKG is the standard mass assumed per passenger.
	passengerMassKG = 90

	// Each 2000 ft of deviation from the optimal cruise altitude
	// increases the burn rate by 1.5%.
	altitudeDeviationStep = 2000
	altitudePenaltyRate   = 0.015

	// Payload fraction of empty weight scales burn by up to 15%.
	weightPenaltyRate = 0.15

	// Reserves: 5% contingency of cruise fuel plus 30 minutes of
	// holding at the adjusted burn rate.
	contingencyFraction = 0.05
	holdingHours        = 0.5
)

// InvalidGroundSpeedError reports a headwind component exceeding cruise
// speed, which would make the flight-time division meaningless.
type InvalidGroundSpeedError struct {
	FlightID    string
	GroundSpeed float64 // knots
	WindImpact  float64 // knots
}

func (e *InvalidGroundSpeedError) Error() string {
	return fmt.Sprintf("flight %s: ground speed %.1f kt not positive (wind impact %.1f kt)",
		e.FlightID, e.GroundSpeed, e.WindImpact)
}

// Estimator produces fuel-burn estimates for one flight at one
// candidate altitude.
type Estimator struct {
	profiles *profiles.Table
}

// NewEstimator creates an estimator backed by the given profile table.
func NewEstimator(t *profiles.Table) *Estimator {
	return &Estimator{profiles: t}
}

// Estimate computes the full fuel breakdown for a flight plan at the
// given cruise altitude under the given weather readings. A missing or
// empty reading list degrades to zero wind impact. An unknown aircraft
// type silently uses the default profile.
func (e *Estimator) Estimate(plan model.FlightPlan, readings []model.WeatherReading, altitude int) (model.FuelEstimate, error) {
	aircraft := e.profiles.Lookup(plan.AircraftType)

	distance := geo.RouteDistance(plan.RouteWaypoints)

	altitudeFactor := AltitudeFactor(altitude, aircraft.OptimalCruiseAltitude)
	weightFactor := weightFactorFor(plan, aircraft)
	burnRate := aircraft.FuelBurnRateBase * altitudeFactor * weightFactor

	windImpact := windImpact(plan, readings)

	groundSpeed := float64(aircraft.CruiseSpeed) + windImpact
	if groundSpeed <= 0 {
		return model.FuelEstimate{}, &InvalidGroundSpeedError{
			FlightID:    plan.FlightID,
			GroundSpeed: groundSpeed,
			WindImpact:  windImpact,
		}
	}

	flightTime := distance / groundSpeed
	cruiseFuel := burnRate * flightTime
	reserveFuel := cruiseFuel*contingencyFraction + burnRate*holdingHours

	return model.FuelEstimate{
		DistanceNM:      round1(distance),
		FlightTimeHours: round2(flightTime),
		FuelBurnRate:    round1(burnRate),
		CruiseFuel:      round1(cruiseFuel),
		ReserveFuel:     round1(reserveFuel),
		TotalFuel:       round1(cruiseFuel + reserveFuel),
		AltitudeFactor:  round3(altitudeFactor),
		WeightFactor:    round3(weightFactor),
		AvgWindImpact:   round1(windImpact),
		GroundSpeed:     round1(groundSpeed),
	}, nil
}

// AltitudeFactor returns the burn-rate multiplier for flying off the
// type's optimal cruise altitude. Symmetric around the optimum and
// non-decreasing in deviation magnitude.
func AltitudeFactor(altitude, optimalAltitude int) float64 {
	deviation := math.Abs(float64(altitude - optimalAltitude))
	return 1.0 + (deviation/altitudeDeviationStep)*altitudePenaltyRate
}

func weightFactorFor(plan model.FlightPlan, aircraft model.AircraftProfile) float64 {
	totalWeight := aircraft.WeightEmpty + plan.CargoWeight + plan.PassengerCount*passengerMassKG
	payload := float64(totalWeight - aircraft.WeightEmpty)
	return 1 + payload/float64(aircraft.WeightEmpty)*weightPenaltyRate
}

// windImpact averages a simplified per-waypoint wind component: half the
// wind speed, negated (headwind) when the wind direction is above 180
// degrees. Only readings indexed below the last route leg contribute to
// the sum, but the average divides by all readings. Downstream
// calibration depends on both quirks; see DESIGN.md.
func windImpact(plan model.FlightPlan, readings []model.WeatherReading) float64 {
	if len(readings) == 0 {
		return 0
	}

	var total float64
	for i, r := range readings {
		if i < len(plan.RouteWaypoints)-1 {
			component := float64(r.WindSpeed) * 0.5
			if r.WindDirection > 180 {
				component = -component
			}
			total += component
		}
	}
	return total / float64(len(readings))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
