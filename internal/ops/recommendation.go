// Package ops formats optimization results for the operations team and
// publishes them to operational systems.
package ops

import (
	"fmt"
	"time"

	"fuel_optimizer/internal/model"
)

// Priority bands by savings percentage.
const (
	highPriorityPct   = 5
	mediumPriorityPct = 2
)

// Recommendation is the operations-facing rendering of an optimization
// result.
type Recommendation struct {
	FlightID              string                   `json:"flight_id"`
	RecommendationType    model.RecommendationType `json:"recommendation_type"`
	Priority              string                   `json:"priority"` // "high", "medium", "low"
	ActionRequired        string                   `json:"action_required"`
	ExpectedFuelSavings   float64                  `json:"expected_fuel_savings"` // kg
	ExpectedCostSavings   float64                  `json:"expected_cost_savings"` // USD
	TimeImpact            int                      `json:"time_impact"`           // minutes
	ConfidenceLevel       float64                  `json:"confidence_level"`
	WeatherConsiderations []string                 `json:"weather_considerations"`
	ImplementationSteps   []string                 `json:"implementation_steps"`
	GeneratedAt           time.Time                `json:"generated_at"`
}

// BuildRecommendation renders an optimization result for operations.
func BuildRecommendation(result model.OptimizationResult) Recommendation {
	return Recommendation{
		FlightID:              result.FlightID,
		RecommendationType:    result.RecommendationType,
		Priority:              priorityFor(result.SavingsPercentage),
		ActionRequired:        actionRequired(result),
		ExpectedFuelSavings:   result.FuelSavings,
		ExpectedCostSavings:   result.CostSavings,
		TimeImpact:            result.TimeImpact,
		ConfidenceLevel:       result.ConfidenceScore,
		WeatherConsiderations: result.WeatherFactors,
		ImplementationSteps:   implementationSteps(result),
		GeneratedAt:           time.Now().UTC(),
	}
}

func priorityFor(savingsPct float64) string {
	switch {
	case savingsPct >= highPriorityPct:
		return "high"
	case savingsPct >= mediumPriorityPct:
		return "medium"
	default:
		return "low"
	}
}

func actionRequired(result model.OptimizationResult) string {
	switch result.RecommendationType {
	case model.AltitudeOptimization:
		return fmt.Sprintf("Request altitude change to FL%d for %.0fkg fuel savings",
			result.OptimizedAltitude/100, result.FuelSavings)
	case model.RouteModification:
		return fmt.Sprintf("Review route modifications for %.0fkg fuel savings", result.FuelSavings)
	default:
		return fmt.Sprintf("Implement optimization for %.0fkg fuel savings", result.FuelSavings)
	}
}

func implementationSteps(result model.OptimizationResult) []string {
	switch result.RecommendationType {
	case model.AltitudeOptimization:
		return []string{
			"1. Review current flight plan and fuel calculations",
			fmt.Sprintf("2. Request altitude change to FL%d from ATC", result.OptimizedAltitude/100),
			"3. Update FMS with new cruise altitude",
			"4. Monitor fuel consumption after altitude change",
			"5. Report actual savings to operations",
		}
	case model.RouteModification:
		return []string{
			"1. Review proposed route modifications",
			"2. Verify route changes with dispatch",
			"3. Submit route amendment request to ATC",
			"4. Update FMS with new waypoints",
			"5. Monitor progress and fuel consumption",
		}
	default:
		return []string{
			"1. Review optimization recommendation",
			"2. Coordinate with dispatch and ATC",
			"3. Implement approved changes",
			"4. Monitor and report results",
		}
	}
}

// PriorityLevel converts a priority band to the numeric message
// priority (1-10).
func PriorityLevel(priority string) int {
	switch priority {
	case "high":
		return 9
	case "medium":
		return 6
	case "low":
		return 3
	default:
		return 5
	}
}
