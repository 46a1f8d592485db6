package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/ops"
)

func storedFixture(flightID string, savings float64) (model.OptimizationResult, ops.Recommendation) {
	result := model.OptimizationResult{
		FlightID:           flightID,
		OriginalFuel:       15000,
		OptimizedFuel:      15000 - savings,
		FuelSavings:        savings,
		SavingsPercentage:  savings / 150,
		TimeImpact:         2,
		ConfidenceScore:    0.76,
		RecommendationType: model.AltitudeOptimization,
		OptimizedAltitude:  36000,
		Rationale:          "Altitude change from FL320 to FL360 optimizes fuel efficiency",
		WeatherFactors:     []string{"Jet stream: strong westerly"},
		CostSavings:        savings * 0.85,
	}
	rec := ops.BuildRecommendation(result)
	return result, rec
}

func TestSQLiteArchiveAndGetLatest(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	first, rec := storedFixture("UA123", 600)
	if err := db.ArchiveResult(ctx, first, rec); err != nil {
		t.Fatalf("ArchiveResult: %v", err)
	}

	second, rec := storedFixture("UA123", 750)
	if err := db.ArchiveResult(ctx, second, rec); err != nil {
		t.Fatalf("ArchiveResult: %v", err)
	}

	got, err := db.GetLatestResult(ctx, "UA123")
	if err != nil {
		t.Fatalf("GetLatestResult: %v", err)
	}

	if got.FuelSavings != 750 {
		t.Errorf("FuelSavings = %.0f, want the newer row's 750", got.FuelSavings)
	}
	if got.FlightID != "UA123" {
		t.Errorf("FlightID = %q", got.FlightID)
	}
	if got.RecommendationType != "altitude_optimization" {
		t.Errorf("RecommendationType = %q", got.RecommendationType)
	}
	if got.Priority != "high" {
		t.Errorf("Priority = %q, want high (5%% savings)", got.Priority)
	}
	if len(got.WeatherFactors) != 1 || got.WeatherFactors[0] != "Jet stream: strong westerly" {
		t.Errorf("WeatherFactors = %v", got.WeatherFactors)
	}
	if got.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not round-tripped")
	}
	if time.Since(got.GeneratedAt) > time.Minute {
		t.Errorf("GeneratedAt = %v, want recent", got.GeneratedAt)
	}
}

func TestSQLiteGetLatestMissing(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	_, err = db.GetLatestResult(context.Background(), "NOPE")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

func TestSQLiteListResults(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, id := range []string{"UA100", "UA200", "UA300"} {
		result, rec := storedFixture(id, 300)
		if err := db.ArchiveResult(ctx, result, rec); err != nil {
			t.Fatalf("ArchiveResult(%s): %v", id, err)
		}
	}

	results, err := db.ListResults(ctx, 2)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// Newest first.
	if results[0].FlightID != "UA300" || results[1].FlightID != "UA200" {
		t.Errorf("order = %s, %s; want UA300, UA200", results[0].FlightID, results[1].FlightID)
	}

	all, err := db.ListResults(ctx, 0)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("default limit returned %d results, want 3", len(all))
	}
}
