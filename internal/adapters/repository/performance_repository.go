package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shiftops/core/internal/domain/performance"
	"github.com/shiftops/core/internal/ports"
)

// PerformanceRepositoryImpl implements the PerformanceRepository interface.
type PerformanceRepositoryImpl struct {
	db *sqlx.DB
}

// NewPerformanceRepository creates a new performance repository.
func NewPerformanceRepository(db *sqlx.DB) ports.PerformanceRepository {
	return &PerformanceRepositoryImpl{db: db}
}

func (r *PerformanceRepositoryImpl) GetUserRecords(ctx context.Context, userID uuid.UUID) ([]performance.Record, error) {
	query := `
		SELECT user_id, task_id, efficiency_rate, proactivity_rate, frequency_rate,
			consistency_rate, completion_rate, accuracy_rate, total_executions
		FROM task_performance
		WHERE user_id = $1
		ORDER BY task_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get performance records: %w", err)
	}
	defer rows.Close()

	var records []performance.Record
	for rows.Next() {
		var rec performance.Record
		err := rows.Scan(
			&rec.UserID, &rec.TaskID, &rec.EfficiencyRate, &rec.ProactivityRate,
			&rec.FrequencyRate, &rec.ConsistencyRate, &rec.CompletionRate,
			&rec.AccuracyRate, &rec.TotalExecutions,
		)
		if err != nil {
			return nil, fmt.Errorf("get performance records: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get performance records: %w", err)
	}

	return records, nil
}

func (r *PerformanceRepositoryImpl) Upsert(ctx context.Context, rec *performance.Record) error {
	query := `
		INSERT INTO task_performance (user_id, task_id, efficiency_rate, proactivity_rate,
			frequency_rate, consistency_rate, completion_rate, accuracy_rate, total_executions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, task_id) DO UPDATE
		SET efficiency_rate = EXCLUDED.efficiency_rate,
			proactivity_rate = EXCLUDED.proactivity_rate,
			frequency_rate = EXCLUDED.frequency_rate,
			consistency_rate = EXCLUDED.consistency_rate,
			completion_rate = EXCLUDED.completion_rate,
			accuracy_rate = EXCLUDED.accuracy_rate,
			total_executions = EXCLUDED.total_executions`

	_, err := r.db.ExecContext(ctx, query,
		rec.UserID, rec.TaskID, rec.EfficiencyRate, rec.ProactivityRate,
		rec.FrequencyRate, rec.ConsistencyRate, rec.CompletionRate,
		rec.AccuracyRate, rec.TotalExecutions,
	)
	if err != nil {
		return fmt.Errorf("upsert performance record: %w", err)
	}

	return nil
}
