package report

import (
	"context"
	"database/sql"
	"fmt"

	"serverest-suite/internal/common/database"
	"serverest-suite/internal/models"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS suite_runs (
	run_id      TEXT PRIMARY KEY,
	env         TEXT NOT NULL,
	base_url    TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	skipped     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS suite_results (
	run_id      TEXT NOT NULL REFERENCES suite_runs(run_id) ON DELETE CASCADE,
	scenario_id TEXT NOT NULL,
	suite       TEXT NOT NULL,
	name        TEXT NOT NULL,
	status      TEXT NOT NULL,
	error_code  TEXT,
	message     TEXT,
	started_at  TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT NOT NULL,
	PRIMARY KEY (run_id, scenario_id)
);`

const (
	insertRunSQL = `INSERT INTO suite_runs (run_id, env, base_url, started_at, finished_at, passed, failed, skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	insertResultSQL = `INSERT INTO suite_results (run_id, scenario_id, suite, name, status, error_code, message, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

// PostgresSink keeps run history in suite_runs and suite_results.
type PostgresSink struct {
	db *database.PostgresClient
}

func NewPostgresSink(db *database.PostgresClient) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Name() string {
	return "postgres"
}

// EnsureSchema creates the history tables when missing.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create history tables: %w", err)
	}
	return nil
}

// Write stores the run and all its results in a single transaction.
func (s *PostgresSink) Write(ctx context.Context, summary *models.RunSummary) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertRunSQL,
			summary.RunID, summary.Env, summary.BaseURL,
			summary.Started, summary.Finished,
			summary.Passed, summary.Failed, summary.Skipped,
		); err != nil {
			return fmt.Errorf("insert run %s: %w", summary.RunID, err)
		}

		stmt, err := tx.PrepareContext(ctx, insertResultSQL)
		if err != nil {
			return fmt.Errorf("prepare result insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range summary.Results {
			if _, err := stmt.ExecContext(ctx,
				summary.RunID, r.ID, r.Suite, r.Name, string(r.Status),
				nullString(r.ErrorCode), nullString(r.Message),
				r.Started, r.Duration.Milliseconds(),
			); err != nil {
				return fmt.Errorf("insert result %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
