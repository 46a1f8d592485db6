// Package storage persists optimization results: SQLite for local
// single-file archives, PostgreSQL for the state consumed by the API,
// and ClickHouse for fleet analytics.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/ops"
)

// StoredResult is one archived optimization result row.
type StoredResult struct {
	ID                 int64
	FlightID           string
	GeneratedAt        time.Time
	OriginalFuel       float64
	OptimizedFuel      float64
	FuelSavings        float64
	SavingsPercentage  float64
	OptimizedAltitude  int
	RecommendationType string
	Priority           string
	TimeImpact         int
	Confidence         float64
	Rationale          string
	WeatherFactors     []string
	CostSavings        float64
	RecommendationJSON string
}

// SQLiteDB is a local single-file archive for CLI runs without server
// databases.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens or creates the archive at path. An empty path or
// ":memory:" uses an in-memory database.
func OpenSQLite(path string) (*SQLiteDB, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (d *SQLiteDB) Close() error {
	return d.db.Close()
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS optimization_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	flight_id TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	original_fuel REAL NOT NULL,
	optimized_fuel REAL NOT NULL,
	fuel_savings REAL NOT NULL,
	savings_percentage REAL NOT NULL,
	optimized_altitude INTEGER NOT NULL,
	recommendation_type TEXT NOT NULL,
	priority TEXT NOT NULL,
	time_impact INTEGER NOT NULL,
	confidence REAL NOT NULL,
	rationale TEXT NOT NULL,
	weather_factors TEXT NOT NULL,
	cost_savings REAL NOT NULL,
	recommendation_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_flight ON optimization_results(flight_id);
CREATE INDEX IF NOT EXISTS idx_results_generated ON optimization_results(generated_at);
`

// ArchiveResult stores a finished result with its recommendation.
func (d *SQLiteDB) ArchiveResult(ctx context.Context, result model.OptimizationResult, rec ops.Recommendation) error {
	factors, err := json.Marshal(result.WeatherFactors)
	if err != nil {
		return fmt.Errorf("marshal weather factors: %w", err)
	}
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO optimization_results (
			flight_id, generated_at, original_fuel, optimized_fuel,
			fuel_savings, savings_percentage, optimized_altitude,
			recommendation_type, priority, time_impact, confidence,
			rationale, weather_factors, cost_savings, recommendation_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.FlightID,
		rec.GeneratedAt.UTC().Format(time.RFC3339Nano),
		result.OriginalFuel,
		result.OptimizedFuel,
		result.FuelSavings,
		result.SavingsPercentage,
		result.OptimizedAltitude,
		string(result.RecommendationType),
		rec.Priority,
		result.TimeImpact,
		result.ConfidenceScore,
		result.Rationale,
		string(factors),
		result.CostSavings,
		string(recJSON),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// GetLatestResult returns the newest archived result for a flight, or
// sql.ErrNoRows if none exists.
func (d *SQLiteDB) GetLatestResult(ctx context.Context, flightID string) (*StoredResult, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, flight_id, generated_at, original_fuel, optimized_fuel,
		       fuel_savings, savings_percentage, optimized_altitude,
		       recommendation_type, priority, time_impact, confidence,
		       rationale, weather_factors, cost_savings, recommendation_json
		FROM optimization_results
		WHERE flight_id = ?
		ORDER BY id DESC
		LIMIT 1`, flightID)

	return scanStoredResult(row)
}

// ListResults returns up to limit archived results, newest first.
func (d *SQLiteDB) ListResults(ctx context.Context, limit int) ([]StoredResult, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, flight_id, generated_at, original_fuel, optimized_fuel,
		       fuel_savings, savings_percentage, optimized_altitude,
		       recommendation_type, priority, time_impact, confidence,
		       rationale, weather_factors, cost_savings, recommendation_json
		FROM optimization_results
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []StoredResult
	for rows.Next() {
		r, err := scanStoredResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredResult(row rowScanner) (*StoredResult, error) {
	var r StoredResult
	var generatedAt, factors string

	err := row.Scan(
		&r.ID, &r.FlightID, &generatedAt, &r.OriginalFuel, &r.OptimizedFuel,
		&r.FuelSavings, &r.SavingsPercentage, &r.OptimizedAltitude,
		&r.RecommendationType, &r.Priority, &r.TimeImpact, &r.Confidence,
		&r.Rationale, &factors, &r.CostSavings, &r.RecommendationJSON,
	)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339Nano, generatedAt); err == nil {
		r.GeneratedAt = t
	}
	if err := json.Unmarshal([]byte(factors), &r.WeatherFactors); err != nil {
		r.WeatherFactors = nil
	}
	return &r, nil
}
