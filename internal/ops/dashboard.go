package ops

import (
	"fmt"
	"math"
	"strings"

	"fuel_optimizer/internal/model"
)

// DashboardEntry is the flattened view of a recommendation for
// dashboard display.
type DashboardEntry struct {
	Flight     string  `json:"flight"`
	Type       string  `json:"type"`
	Priority   string  `json:"priority"`
	FuelKg     float64 `json:"fuel_kg"`
	CostUSD    float64 `json:"cost_usd"`
	Percentage string  `json:"percentage"`
	Confidence string  `json:"confidence"`
	Action     string  `json:"action"`
	TimeImpact string  `json:"time_impact"`
}

// FormatForDashboard renders a result and its recommendation for
// dashboard display.
func FormatForDashboard(result model.OptimizationResult, rec Recommendation) DashboardEntry {
	timeImpact := "No delay"
	if rec.TimeImpact != 0 {
		timeImpact = fmt.Sprintf("%+d min", rec.TimeImpact)
	}

	return DashboardEntry{
		Flight:     rec.FlightID,
		Type:       titleCase(string(rec.RecommendationType)),
		Priority:   strings.ToUpper(rec.Priority),
		FuelKg:     round1(rec.ExpectedFuelSavings),
		CostUSD:    round2(rec.ExpectedCostSavings),
		Percentage: fmt.Sprintf("%.1f%%", result.SavingsPercentage),
		Confidence: fmt.Sprintf("%.0f%%", rec.ConfidenceLevel*100),
		Action:     rec.ActionRequired,
		TimeImpact: timeImpact,
	}
}

// titleCase turns "altitude_optimization" into "Altitude Optimization".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
