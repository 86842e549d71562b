package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/ports"
)

// CatalogRepositoryImpl implements the CatalogRepository interface.
type CatalogRepositoryImpl struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sqlx.DB) ports.CatalogRepository {
	return &CatalogRepositoryImpl{db: db}
}

const catalogColumns = `id, title, type, base_time_minutes, base_count_per_shift,
	restricted_time_ranges, priority, difficulty, tags, valid_from, valid_to,
	is_active, created_at, updated_at`

func (r *CatalogRepositoryImpl) Create(ctx context.Context, task *entities.ExtendedTask) error {
	query := `
		INSERT INTO task_catalog (title, type, base_time_minutes, base_count_per_shift,
			restricted_time_ranges, priority, difficulty, tags, valid_from, valid_to, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Type, task.BaseTimeMinutes, task.BaseCountPerShift,
		task.RestrictedTimeRanges, task.Priority, task.Difficulty,
		pq.Array(task.Tags), task.ValidFrom, task.ValidTo, task.IsActive,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create catalog task: %w", err)
	}

	return nil
}

func (r *CatalogRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.ExtendedTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM task_catalog WHERE id = $1`, catalogColumns)

	task, err := scanCatalogTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrCatalogTaskNotFound
		}
		return nil, fmt.Errorf("get catalog task by id: %w", err)
	}

	return task, nil
}

func (r *CatalogRepositoryImpl) Update(ctx context.Context, task *entities.ExtendedTask) error {
	query := `
		UPDATE task_catalog
		SET title = $2, type = $3, base_time_minutes = $4, base_count_per_shift = $5,
			restricted_time_ranges = $6, priority = $7, difficulty = $8, tags = $9,
			valid_from = $10, valid_to = $11, is_active = $12, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Type, task.BaseTimeMinutes, task.BaseCountPerShift,
		task.RestrictedTimeRanges, task.Priority, task.Difficulty, pq.Array(task.Tags),
		task.ValidFrom, task.ValidTo, task.IsActive,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrCatalogTaskNotFound
		}
		return fmt.Errorf("update catalog task: %w", err)
	}

	return nil
}

func (r *CatalogRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM task_catalog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete catalog task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrCatalogTaskNotFound
	}

	return nil
}

func (r *CatalogRepositoryImpl) ListActive(ctx context.Context, at time.Time) ([]entities.ExtendedTask, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM task_catalog
		WHERE is_active = true
			AND (valid_from IS NULL OR valid_from <= $1)
			AND (valid_to IS NULL OR valid_to >= $1)
		ORDER BY priority DESC, title`, catalogColumns)

	rows, err := r.db.QueryContext(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("list active catalog tasks: %w", err)
	}
	defer rows.Close()

	var tasks []entities.ExtendedTask
	for rows.Next() {
		task, err := scanCatalogTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list active catalog tasks: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active catalog tasks: %w", err)
	}

	return tasks, nil
}

func scanCatalogTask(row rowScanner) (*entities.ExtendedTask, error) {
	var task entities.ExtendedTask
	var tags pq.StringArray

	err := row.Scan(
		&task.ID, &task.Title, &task.Type, &task.BaseTimeMinutes, &task.BaseCountPerShift,
		&task.RestrictedTimeRanges, &task.Priority, &task.Difficulty, &tags,
		&task.ValidFrom, &task.ValidTo, &task.IsActive, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Tags = []string(tags)
	return &task, nil
}
