package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/ops"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool holding the
// recommendation state served by the API.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS optimization_results (
		id                  BIGSERIAL PRIMARY KEY,
		flight_id           TEXT NOT NULL,
		generated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		original_fuel       DOUBLE PRECISION NOT NULL,
		optimized_fuel      DOUBLE PRECISION NOT NULL,
		fuel_savings        DOUBLE PRECISION NOT NULL,
		savings_percentage  DOUBLE PRECISION NOT NULL,
		optimized_altitude  INTEGER NOT NULL,
		recommendation_type TEXT NOT NULL,
		priority            TEXT NOT NULL,
		time_impact         INTEGER NOT NULL,
		confidence          DOUBLE PRECISION NOT NULL,
		rationale           TEXT NOT NULL,
		weather_factors     JSONB NOT NULL DEFAULT '[]',
		cost_savings        DOUBLE PRECISION NOT NULL,
		recommendation      JSONB NOT NULL,
		acknowledged_at     TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_pg_results_flight ON optimization_results(flight_id);
	CREATE INDEX IF NOT EXISTS idx_pg_results_generated ON optimization_results(generated_at);
	CREATE INDEX IF NOT EXISTS idx_pg_results_priority ON optimization_results(priority);
	`

	if _, err := d.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create postgres schema: %w", err)
	}
	return nil
}

// ArchiveResult stores a finished result with its recommendation.
func (d *PostgresDB) ArchiveResult(ctx context.Context, result model.OptimizationResult, rec ops.Recommendation) error {
	factors, err := json.Marshal(result.WeatherFactors)
	if err != nil {
		return fmt.Errorf("marshal weather factors: %w", err)
	}
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO optimization_results (
			flight_id, generated_at, original_fuel, optimized_fuel,
			fuel_savings, savings_percentage, optimized_altitude,
			recommendation_type, priority, time_impact, confidence,
			rationale, weather_factors, cost_savings, recommendation
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		result.FlightID,
		rec.GeneratedAt.UTC(),
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
		factors,
		result.CostSavings,
		recJSON,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// GetLatestResult returns the newest stored result for a flight, or nil
// if none exists.
func (d *PostgresDB) GetLatestResult(ctx context.Context, flightID string) (*StoredResult, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, flight_id, generated_at, original_fuel, optimized_fuel,
		       fuel_savings, savings_percentage, optimized_altitude,
		       recommendation_type, priority, time_impact, confidence,
		       rationale, weather_factors, cost_savings, recommendation::text
		FROM optimization_results
		WHERE flight_id = $1
		ORDER BY id DESC
		LIMIT 1`, flightID)

	r, err := scanPgResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// ListRecent returns up to limit stored results, newest first.
func (d *PostgresDB) ListRecent(ctx context.Context, limit int) ([]StoredResult, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.pool.Query(ctx, `
		SELECT id, flight_id, generated_at, original_fuel, optimized_fuel,
		       fuel_savings, savings_percentage, optimized_altitude,
		       recommendation_type, priority, time_impact, confidence,
		       rationale, weather_factors, cost_savings, recommendation::text
		FROM optimization_results
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		r, err := scanPgResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

// Acknowledge marks a flight's newest recommendation as acknowledged by
// operations.
func (d *PostgresDB) Acknowledge(ctx context.Context, flightID string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE optimization_results
		SET acknowledged_at = NOW()
		WHERE id = (
			SELECT id FROM optimization_results
			WHERE flight_id = $1
			ORDER BY id DESC
			LIMIT 1
		)`, flightID)
	if err != nil {
		return fmt.Errorf("acknowledge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no recommendation for flight %s", flightID)
	}
	return nil
}

func scanPgResult(row rowScanner) (*StoredResult, error) {
	var r StoredResult
	var factors []byte

	err := row.Scan(
		&r.ID, &r.FlightID, &r.GeneratedAt, &r.OriginalFuel, &r.OptimizedFuel,
		&r.FuelSavings, &r.SavingsPercentage, &r.OptimizedAltitude,
		&r.RecommendationType, &r.Priority, &r.TimeImpact, &r.Confidence,
		&r.Rationale, &factors, &r.CostSavings, &r.RecommendationJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(factors, &r.WeatherFactors); err != nil {
		r.WeatherFactors = nil
	}
	return &r, nil
}
