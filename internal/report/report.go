// Package report aggregates batch optimization results into a summary
// report.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"fuel_optimizer/internal/batch"
)

// Summary holds fleet-level statistics over a batch run.
type Summary struct {
	TotalFuelSavingsKg          float64 `json:"total_fuel_savings_kg"`
	TotalCostSavingsUSD         float64 `json:"total_cost_savings_usd"`
	AverageConfidence           float64 `json:"average_confidence"`
	HighPriorityRecommendations int     `json:"high_priority_recommendations"`
	OptimizationRate            string  `json:"optimization_rate"`
}

// Report is the full batch report written to disk.
type Report struct {
	GeneratedAt  time.Time            `json:"generated_at"`
	TotalFlights int                  `json:"total_flights"`
	Summary      Summary              `json:"summary"`
	Flights      []batch.FlightResult `json:"flights"`
}

// Build assembles a report from batch results. attempted is the number
// of flights fed into the batch, including ones that failed.
func Build(results []batch.FlightResult, attempted int) Report {
	return Report{
		GeneratedAt:  time.Now().UTC(),
		TotalFlights: len(results),
		Summary:      summarize(results, attempted),
		Flights:      results,
	}
}

func summarize(results []batch.FlightResult, attempted int) Summary {
	var fuel, cost, confidence float64
	highPriority := 0

	for _, r := range results {
		fuel += r.Result.FuelSavings
		cost += r.Result.CostSavings
		confidence += r.Result.ConfidenceScore
		if r.Recommendation.Priority == "high" {
			highPriority++
		}
	}

	avgConfidence := 0.0
	if len(results) > 0 {
		avgConfidence = confidence / float64(len(results))
	}

	rate := "0%"
	if attempted > 0 {
		rate = fmt.Sprintf("%.0f%%", float64(len(results))/float64(attempted)*100)
	}

	return Summary{
		TotalFuelSavingsKg:          math.Round(fuel*10) / 10,
		TotalCostSavingsUSD:         math.Round(cost*100) / 100,
		AverageConfidence:           math.Round(avgConfidence*1000) / 1000,
		HighPriorityRecommendations: highPriority,
		OptimizationRate:            rate,
	}
}

// WriteFile writes the report as indented JSON.
func WriteFile(r Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
