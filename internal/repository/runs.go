package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/talentsift/screener/constants"
	"github.com/talentsift/screener/internal/common"
)

// Run is one persisted screening run.
type Run struct {
	ID          string
	Query       string
	RoleType    string
	Summary     string
	ReportJSON  string
	RawResponse []byte
	Status      constants.RunStatus
	BatchSize   int
	FailedSlots int
	CreatedAt   time.Time
}

// RunRepository persists screening runs.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunRepository{db: db, logger: logger}
}

// Save inserts or replaces a run row.
func (r *RunRepository) Save(ctx context.Context, run Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO screening_run
			(id, query, role_type, summary, report_json, raw_response, status, batch_size, failed_slots, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Query, run.RoleType, run.Summary, run.ReportJSON,
		run.RawResponse, string(run.Status), run.BatchSize, run.FailedSlots, run.CreatedAt,
	)
	if err != nil {
		r.logger.Error("repository.run.save_failed", "run_id", run.ID, "error", err)
		return common.NewAppError("DB_ERROR", "save screening run", err)
	}
	r.logger.Info("repository.run.saved", "run_id", run.ID, "status", run.Status)
	return nil
}

// RecordStatus upserts the run row's status and slot counters without
// touching report fields, so intermediate transitions never clobber a
// previously saved report.
func (r *RunRepository) RecordStatus(ctx context.Context, id, query string, status constants.RunStatus, batchSize, failedSlots int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO screening_run (id, query, status, batch_size, failed_slots, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status       = excluded.status,
			batch_size   = excluded.batch_size,
			failed_slots = excluded.failed_slots`,
		id, query, string(status), batchSize, failedSlots, time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("repository.run.status_failed", "run_id", id, "status", status, "error", err)
		return common.NewAppError("DB_ERROR", "record run status", err)
	}
	r.logger.Info("repository.run.status", "run_id", id, "status", status)
	return nil
}

// GetByID fetches one run.
func (r *RunRepository) GetByID(ctx context.Context, id string) (Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, query, role_type, summary, report_json, raw_response, status, batch_size, failed_slots, created_at
		FROM screening_run WHERE id = ?`, id)

	var run Run
	var status string
	err := row.Scan(&run.ID, &run.Query, &run.RoleType, &run.Summary, &run.ReportJSON,
		&run.RawResponse, &status, &run.BatchSize, &run.FailedSlots, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, common.NewAppError("NOT_FOUND", fmt.Sprintf("run %s", id), common.ErrNotFound)
	}
	if err != nil {
		return Run{}, common.NewAppError("DB_ERROR", "get screening run", err)
	}
	run.Status = constants.RunStatus(status)
	return run, nil
}

// ListRecent returns the newest runs, newest first.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, query, role_type, summary, report_json, raw_response, status, batch_size, failed_slots, created_at
		FROM screening_run ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "list screening runs", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.logger.Warn("repository.run.rows_close_error", "error", cerr)
		}
	}()

	var out []Run
	for rows.Next() {
		var run Run
		var status string
		if err := rows.Scan(&run.ID, &run.Query, &run.RoleType, &run.Summary, &run.ReportJSON,
			&run.RawResponse, &status, &run.BatchSize, &run.FailedSlots, &run.CreatedAt); err != nil {
			return nil, common.NewAppError("DB_ERROR", "scan screening run", err)
		}
		run.Status = constants.RunStatus(status)
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_ERROR", "iterate screening runs", err)
	}
	return out, nil
}
