package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"fuel_optimizer/internal/model"
	"fuel_optimizer/internal/ops"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for fleet-wide analytics
// over optimization results.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS optimization_results (
		flight_id           LowCardinality(String),
		generated_at        DateTime64(3),
		original_fuel       Float64,
		optimized_fuel      Float64,
		fuel_savings        Float64,
		savings_percentage  Float64,
		optimized_altitude  Int32,
		recommendation_type LowCardinality(String),
		priority            LowCardinality(String),
		time_impact         Int32,
		confidence          Float64,
		cost_savings        Float64,
		created_at          DateTime64(3) DEFAULT now64(3)
	)
	ENGINE = MergeTree()
	PARTITION BY toYYYYMM(generated_at)
	ORDER BY (flight_id, generated_at)
	SETTINGS index_granularity = 8192`

	if err := d.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create clickhouse schema: %w", err)
	}
	return nil
}

// ArchiveResult inserts one result row for analytics.
func (d *ClickHouseDB) ArchiveResult(ctx context.Context, result model.OptimizationResult, rec ops.Recommendation) error {
	err := d.conn.Exec(ctx, `
		INSERT INTO optimization_results (
			flight_id, generated_at, original_fuel,
			optimized_fuel, fuel_savings, savings_percentage,
			optimized_altitude, recommendation_type, priority,
			time_impact, confidence, cost_savings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.FlightID,
		rec.GeneratedAt.UTC(),
		result.OriginalFuel,
		result.OptimizedFuel,
		result.FuelSavings,
		result.SavingsPercentage,
		int32(result.OptimizedAltitude),
		string(result.RecommendationType),
		rec.Priority,
		int32(result.TimeImpact),
		result.ConfidenceScore,
		result.CostSavings,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// SavingsByAltitude aggregates total fuel savings per recommended
// altitude across all archived results.
func (d *ClickHouseDB) SavingsByAltitude(ctx context.Context) (map[int32]float64, error) {
	rows, err := d.conn.Query(ctx, `
		SELECT optimized_altitude, sum(fuel_savings)
		FROM optimization_results
		GROUP BY optimized_altitude
		ORDER BY optimized_altitude`)
	if err != nil {
		return nil, fmt.Errorf("query savings: %w", err)
	}
	defer rows.Close()

	out := make(map[int32]float64)
	for rows.Next() {
		var altitude int32
		var savings float64
		if err := rows.Scan(&altitude, &savings); err != nil {
			return nil, err
		}
		out[altitude] = savings
	}
	return out, rows.Err()
}
