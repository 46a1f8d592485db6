// Package workflow tracks the per-flight optimization pipeline state:
// which steps ran, when, and how they ended.
package workflow

import (
	"fmt"
	"time"
)

// State identifies a step of the optimization pipeline.
type State string

const (
	StateInitialized              State = "initialized"
	StateDataIngestion            State = "data_ingestion"
	StateWeatherAnalysis          State = "weather_analysis"
	StateOptimizationCompute      State = "optimization_compute"
	StateRecommendationGeneration State = "recommendation_generation"
	StateResultsPublication       State = "results_publication"
	StateCompleted                State = "completed"
	StateFailed                   State = "failed"
)

// Steps is the pipeline's step sequence.
var Steps = []State{
	StateDataIngestion,
	StateWeatherAnalysis,
	StateOptimizationCompute,
	StateRecommendationGeneration,
	StateResultsPublication,
}

// Record is one history entry for a step transition.
type Record struct {
	State     State     `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"` // "started", "completed", "failed"
	Duration  float64   `json:"duration_seconds,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Status summarises a tracker's progress.
type Status struct {
	Status         string   `json:"status"`
	CurrentState   State    `json:"current_state,omitempty"`
	CompletedSteps int      `json:"completed_steps"`
	TotalSteps     int      `json:"total_steps"`
	History        []Record `json:"history"`
}

// Tracker records step transitions for one flight's pipeline run. Not
// safe for concurrent use; each flight gets its own tracker.
type Tracker struct {
	history []Record
	now     func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Run executes fn as the given step, recording start, completion, and
// failure. The step's error is returned unchanged.
func (t *Tracker) Run(state State, fn func() error) error {
	start := t.now().UTC()
	t.history = append(t.history, Record{State: state, Timestamp: start, Status: "started"})

	if err := fn(); err != nil {
		t.history = append(t.history, Record{
			State:     state,
			Timestamp: t.now().UTC(),
			Status:    "failed",
			Error:     err.Error(),
		})
		return fmt.Errorf("workflow step %s: %w", state, err)
	}

	end := t.now().UTC()
	t.history = append(t.history, Record{
		State:     state,
		Timestamp: end,
		Status:    "completed",
		Duration:  end.Sub(start).Seconds(),
	})
	return nil
}

// Complete records the terminal completed transition after all steps
// ran.
func (t *Tracker) Complete() {
	t.history = append(t.history, Record{
		State:     StateCompleted,
		Timestamp: t.now().UTC(),
		Status:    "completed",
	})
}

// Fail records the terminal failed transition with the aborting error.
func (t *Tracker) Fail(err error) {
	rec := Record{
		State:     StateFailed,
		Timestamp: t.now().UTC(),
		Status:    "failed",
	}
	if err != nil {
		rec.Error = err.Error()
	}
	t.history = append(t.history, rec)
}

// Status returns the current progress summary. Terminal transitions set
// the overall status but do not count as pipeline steps.
func (t *Tracker) Status() Status {
	if len(t.history) == 0 {
		return Status{Status: "not_started", CurrentState: StateInitialized, TotalSteps: len(Steps), History: []Record{}}
	}

	last := t.history[len(t.history)-1]
	completed := 0
	for _, r := range t.history {
		if r.Status == "completed" && r.State != StateCompleted {
			completed++
		}
	}

	history := make([]Record, len(t.history))
	copy(history, t.history)

	return Status{
		Status:         last.Status,
		CurrentState:   last.State,
		CompletedSteps: completed,
		TotalSteps:     len(Steps),
		History:        history,
	}
}

// History returns a copy of the recorded transitions.
func (t *Tracker) History() []Record {
	out := make([]Record, len(t.history))
	copy(out, t.history)
	return out
}
