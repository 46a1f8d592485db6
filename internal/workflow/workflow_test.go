package workflow

import (
	"errors"
	"strings"
	"testing"
)

func TestRunRecordsCompletion(t *testing.T) {
	tr := NewTracker()

	if err := tr.Run(StateDataIngestion, func() error { return nil }); err != nil {
		t.Fatalf("Run: %v", err)
	}

	history := tr.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Status != "started" || history[1].Status != "completed" {
		t.Errorf("statuses = %q, %q, want started, completed", history[0].Status, history[1].Status)
	}
	if history[1].State != StateDataIngestion {
		t.Errorf("state = %s, want data_ingestion", history[1].State)
	}
	if history[1].Duration < 0 {
		t.Errorf("duration = %f, want >= 0", history[1].Duration)
	}
}

func TestRunRecordsFailure(t *testing.T) {
	tr := NewTracker()
	boom := errors.New("no weather data")

	err := tr.Run(StateWeatherAnalysis, func() error { return boom })
	if err == nil {
		t.Fatal("Run returned nil for failing step")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error does not wrap the step error: %v", err)
	}
	if !strings.Contains(err.Error(), "weather_analysis") {
		t.Errorf("error does not name the step: %v", err)
	}

	history := tr.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[1].Status != "failed" {
		t.Errorf("status = %q, want failed", history[1].Status)
	}
	if history[1].Error != "no weather data" {
		t.Errorf("recorded error = %q", history[1].Error)
	}
}

func TestStatusProgress(t *testing.T) {
	tr := NewTracker()

	status := tr.Status()
	if status.Status != "not_started" {
		t.Errorf("Status = %q, want not_started", status.Status)
	}
	if status.CurrentState != StateInitialized {
		t.Errorf("CurrentState = %s, want initialized", status.CurrentState)
	}
	if status.TotalSteps != len(Steps) {
		t.Errorf("TotalSteps = %d, want %d", status.TotalSteps, len(Steps))
	}

	for _, step := range Steps[:3] {
		if err := tr.Run(step, func() error { return nil }); err != nil {
			t.Fatalf("Run(%s): %v", step, err)
		}
	}

	status = tr.Status()
	if status.Status != "completed" {
		t.Errorf("Status = %q, want completed", status.Status)
	}
	if status.CurrentState != StateOptimizationCompute {
		t.Errorf("CurrentState = %s, want optimization_compute", status.CurrentState)
	}
	if status.CompletedSteps != 3 {
		t.Errorf("CompletedSteps = %d, want 3", status.CompletedSteps)
	}

	tr.Run(StateRecommendationGeneration, func() error { return errors.New("boom") })

	status = tr.Status()
	if status.Status != "failed" {
		t.Errorf("Status after failure = %q, want failed", status.Status)
	}
	if status.CompletedSteps != 3 {
		t.Errorf("CompletedSteps after failure = %d, want 3", status.CompletedSteps)
	}
}

func TestTerminalTransitions(t *testing.T) {
	tr := NewTracker()
	for _, step := range Steps {
		if err := tr.Run(step, func() error { return nil }); err != nil {
			t.Fatalf("Run(%s): %v", step, err)
		}
	}

	tr.Complete()

	status := tr.Status()
	if status.CurrentState != StateCompleted {
		t.Errorf("CurrentState = %s, want completed", status.CurrentState)
	}
	if status.Status != "completed" {
		t.Errorf("Status = %q, want completed", status.Status)
	}
	// The terminal record is not a pipeline step.
	if status.CompletedSteps != len(Steps) {
		t.Errorf("CompletedSteps = %d, want %d", status.CompletedSteps, len(Steps))
	}

	tr = NewTracker()
	tr.Run(StateDataIngestion, func() error { return nil })
	tr.Fail(errors.New("no weather data"))

	status = tr.Status()
	if status.CurrentState != StateFailed {
		t.Errorf("CurrentState = %s, want failed", status.CurrentState)
	}
	if status.Status != "failed" {
		t.Errorf("Status = %q, want failed", status.Status)
	}
	last := status.History[len(status.History)-1]
	if last.Error != "no weather data" {
		t.Errorf("terminal error = %q", last.Error)
	}
}
