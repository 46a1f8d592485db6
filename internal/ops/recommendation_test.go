package ops

import (
	"strings"
	"testing"

	"fuel_optimizer/internal/model"
)

func sampleResult() model.OptimizationResult {
	return model.OptimizationResult{
		FlightID:           "UA123",
		OriginalFuel:       15000,
		OptimizedFuel:      14100,
		FuelSavings:        900,
		SavingsPercentage:  6,
		OptimizedAltitude:  36000,
		RecommendationType: model.AltitudeOptimization,
		ConfidenceScore:    0.76,
		TimeImpact:         2,
		CostSavings:        765,
		WeatherFactors:     []string{"Jet stream: strong westerly"},
	}
}

func TestPriorityBands(t *testing.T) {
	tests := []struct {
		savingsPct float64
		want       string
	}{
		{7.5, "high"},
		{5, "high"},
		{4.9, "medium"},
		{2, "medium"},
		{1.9, "low"},
		{0, "low"},
	}

	for _, tt := range tests {
		if got := priorityFor(tt.savingsPct); got != tt.want {
			t.Errorf("priorityFor(%.1f) = %q, want %q", tt.savingsPct, got, tt.want)
		}
	}
}

func TestBuildRecommendation(t *testing.T) {
	result := sampleResult()
	rec := BuildRecommendation(result)

	if rec.FlightID != "UA123" {
		t.Errorf("FlightID = %q, want UA123", rec.FlightID)
	}
	if rec.Priority != "high" {
		t.Errorf("Priority = %q, want high (6%% savings)", rec.Priority)
	}
	if rec.ExpectedFuelSavings != 900 || rec.ExpectedCostSavings != 765 {
		t.Errorf("savings = %.0fkg / $%.0f, want 900 / 765",
			rec.ExpectedFuelSavings, rec.ExpectedCostSavings)
	}
	if rec.ConfidenceLevel != 0.76 {
		t.Errorf("ConfidenceLevel = %.2f, want 0.76", rec.ConfidenceLevel)
	}
	if rec.ActionRequired != "Request altitude change to FL360 for 900kg fuel savings" {
		t.Errorf("ActionRequired = %q", rec.ActionRequired)
	}
	if len(rec.WeatherConsiderations) != 1 {
		t.Errorf("WeatherConsiderations = %v", rec.WeatherConsiderations)
	}
	if rec.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestActionRequiredByType(t *testing.T) {
	result := sampleResult()

	result.RecommendationType = model.RouteModification
	if got := actionRequired(result); got != "Review route modifications for 900kg fuel savings" {
		t.Errorf("route modification action = %q", got)
	}

	result.RecommendationType = model.DelayRecommendation
	if got := actionRequired(result); got != "Implement optimization for 900kg fuel savings" {
		t.Errorf("fallback action = %q", got)
	}
}

func TestImplementationSteps(t *testing.T) {
	result := sampleResult()

	steps := implementationSteps(result)
	if len(steps) != 5 {
		t.Fatalf("altitude steps = %d, want 5", len(steps))
	}
	if steps[1] != "2. Request altitude change to FL360 from ATC" {
		t.Errorf("step 2 = %q", steps[1])
	}

	result.RecommendationType = model.RouteModification
	steps = implementationSteps(result)
	if len(steps) != 5 || !strings.Contains(steps[0], "route modifications") {
		t.Errorf("route steps = %v", steps)
	}

	result.RecommendationType = model.ReDispatch
	steps = implementationSteps(result)
	if len(steps) != 4 {
		t.Errorf("generic steps = %d, want 4", len(steps))
	}
}

func TestPriorityLevel(t *testing.T) {
	tests := []struct {
		priority string
		want     int
	}{
		{"high", 9},
		{"medium", 6},
		{"low", 3},
		{"unknown", 5},
	}

	for _, tt := range tests {
		if got := PriorityLevel(tt.priority); got != tt.want {
			t.Errorf("PriorityLevel(%q) = %d, want %d", tt.priority, got, tt.want)
		}
	}
}

func TestFormatForDashboard(t *testing.T) {
	result := sampleResult()
	rec := BuildRecommendation(result)

	entry := FormatForDashboard(result, rec)

	if entry.Flight != "UA123" {
		t.Errorf("Flight = %q", entry.Flight)
	}
	if entry.Type != "Altitude Optimization" {
		t.Errorf("Type = %q, want Altitude Optimization", entry.Type)
	}
	if entry.Priority != "HIGH" {
		t.Errorf("Priority = %q, want HIGH", entry.Priority)
	}
	if entry.Percentage != "6.0%" {
		t.Errorf("Percentage = %q, want 6.0%%", entry.Percentage)
	}
	if entry.Confidence != "76%" {
		t.Errorf("Confidence = %q, want 76%%", entry.Confidence)
	}
	if entry.TimeImpact != "+2 min" {
		t.Errorf("TimeImpact = %q, want +2 min", entry.TimeImpact)
	}

	rec.TimeImpact = 0
	entry = FormatForDashboard(result, rec)
	if entry.TimeImpact != "No delay" {
		t.Errorf("TimeImpact = %q, want No delay", entry.TimeImpact)
	}
}
