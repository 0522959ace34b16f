package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/songzhibin97/momentumscan/internal/models"

	_ "github.com/lib/pq"
)

// DefaultTimeout bounds opening the journal.
const DefaultTimeout = 10 * time.Second

// PostgresStorage is a write-only journal of scan runs. The scanner never reads it back.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage opens the journal. timeout bounds the connect and the table setup;
// it is also passed to the driver as connect_timeout unless the DSN sets one.
func NewPostgresStorage(connStr string, timeout time.Duration) (*PostgresStorage, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	db, err := sql.Open("postgres", withConnectTimeout(connStr, timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStorage{db: db}

	err = s.initTables(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return s, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

// BeginRun implements ScanJournal interface
func (s *PostgresStorage) BeginRun(ctx context.Context, startedAt time.Time) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO scan_runs (started_at) VALUES ($1) RETURNING id`,
		startedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to begin scan run: %w", err)
	}
	return id, nil
}

// RecordResult implements ScanJournal interface
func (s *PostgresStorage) RecordResult(ctx context.Context, runID int64, result *models.ScanResult) error {
	query := `
        INSERT INTO scan_results (
            run_id, address, symbol, sources, disposition, reasons,
            liquidity, market_cap, volume_24h, volume_1h, acceleration, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
        )
    `

	var m models.TokenMetrics
	if result.Metrics != nil {
		m = *result.Metrics
	}

	symbol := result.Candidate.Symbol
	if m.Symbol != "" {
		symbol = m.Symbol
	}

	_, err := s.db.ExecContext(ctx, query,
		runID,
		result.Candidate.Address,
		symbol,
		strings.Join(result.Candidate.Sources, ","),
		string(result.Disposition),
		strings.Join(result.Reasons, "; "),
		m.Liquidity,
		m.MarketCap,
		m.Volume24h,
		m.Volume1h,
		result.Acceleration,
		result.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to save scan result: %w", err)
	}

	return nil
}

// FinishRun implements ScanJournal interface
func (s *PostgresStorage) FinishRun(ctx context.Context, runID int64, summary *models.Summary) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE scan_runs SET finished_at = $2, candidates = $3, passed = $4 WHERE id = $1`,
		runID,
		summary.FinishedAt,
		summary.Candidates,
		summary.Passed(),
	)
	if err != nil {
		return fmt.Errorf("failed to finish scan run: %w", err)
	}
	return nil
}

func (s *PostgresStorage) initTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id BIGSERIAL PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			candidates INT DEFAULT 0,
			passed INT DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS scan_results (
			id BIGSERIAL PRIMARY KEY,
			run_id BIGINT NOT NULL REFERENCES scan_runs(id),
			address VARCHAR(100) NOT NULL,
			symbol VARCHAR(100),
			sources VARCHAR(100),
			disposition VARCHAR(32) NOT NULL,
			reasons TEXT,
			liquidity NUMERIC(24, 4),
			market_cap NUMERIC(24, 4),
			volume_24h NUMERIC(24, 4),
			volume_1h NUMERIC(24, 4),
			acceleration NUMERIC(18, 4),
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_scan_results_address ON scan_results (address)`,
	}

	for _, query := range queries {
		_, err := s.db.ExecContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// withConnectTimeout adds connect_timeout (whole seconds, at least 1) to a URL or
// key=value DSN that does not already carry one. lib/pq otherwise waits forever on the
// startup handshake.
func withConnectTimeout(connStr string, timeout time.Duration) string {
	if strings.Contains(connStr, "connect_timeout") {
		return connStr
	}
	secs := strconv.Itoa(int(math.Max(1, math.Ceil(timeout.Seconds()))))

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		q := u.Query()
		q.Set("connect_timeout", secs)
		u.RawQuery = q.Encode()
		return u.String()
	}

	if strings.TrimSpace(connStr) == "" {
		return "connect_timeout=" + secs
	}
	return connStr + " connect_timeout=" + secs
}
