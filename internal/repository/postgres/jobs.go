package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"pagalpdf/internal/domain/models"
)

// JobRepository persists the conversion audit log.
type JobRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

func NewJobRepository(config *RepositoryConfig) *JobRepository {
	return &JobRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Record inserts one audit row. Duration is stored in milliseconds.
func (r *JobRepository) Record(ctx context.Context, rec *models.JobRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, operation, filename, input_bytes, output_bytes, outcome, detail, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Jobs)

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.Operation,
		rec.Filename,
		rec.InputBytes,
		rec.OutputBytes,
		rec.Outcome,
		rec.Detail,
		rec.Duration.Milliseconds(),
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conversion job: %w", err)
	}

	return nil
}

// RecentFailures returns the newest non-success rows, newest first. Used by
// operators to spot a broken worker or missing server dependency.
func (r *JobRepository) RecentFailures(ctx context.Context, limit int) ([]*models.JobRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, operation, filename, input_bytes, output_bytes, outcome, detail, duration_ms, created_at
		FROM %s
		WHERE outcome <> $1
		ORDER BY created_at DESC
		LIMIT $2
	`, r.tables.Jobs)

	rows, err := r.pool.Query(ctx, query, models.OutcomeSuccess, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent failures: %w", err)
	}
	defer rows.Close()

	var recs []*models.JobRecord
	for rows.Next() {
		var rec models.JobRecord
		var durationMs int64
		if err := rows.Scan(
			&rec.ID,
			&rec.Operation,
			&rec.Filename,
			&rec.InputBytes,
			&rec.OutputBytes,
			&rec.Outcome,
			&rec.Detail,
			&durationMs,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversion job: %w", err)
		}
		rec.Duration = durationFromMillis(durationMs)
		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

func durationFromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
