package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/ports"
)

// BoardTaskRepositoryImpl implements the BoardTaskRepository interface.
type BoardTaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewBoardTaskRepository creates a new board task repository.
func NewBoardTaskRepository(db *sqlx.DB) ports.BoardTaskRepository {
	return &BoardTaskRepositoryImpl{db: db}
}

const taskColumns = `id, title, description, status, priority, created_by, created_by_name,
	current_assigned_to, current_assigned_to_name, store_id, due_date, start_date,
	completed_date, completed_by, completed_by_name, created_at, updated_at,
	last_action_at, tags, is_public`

func (r *BoardTaskRepositoryImpl) Create(ctx context.Context, task *entities.BoardTask) error {
	query := `
		INSERT INTO board_tasks (title, description, status, priority, created_by, created_by_name,
			store_id, due_date, tags, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority,
		task.CreatedBy, task.CreatedByName, task.StoreID, task.DueDate,
		pq.Array(task.Tags), task.IsPublic,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create board task: %w", err)
	}

	return nil
}

func (r *BoardTaskRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.BoardTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM board_tasks WHERE id = $1`, taskColumns)

	task, err := scanBoardTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get board task by id: %w", err)
	}

	return task, nil
}

// Update writes the full record. No version check is performed: concurrent
// writers resolve last-write-wins and the board converges on the next
// snapshot.
func (r *BoardTaskRepositoryImpl) Update(ctx context.Context, task *entities.BoardTask) error {
	query := `
		UPDATE board_tasks
		SET title = $2, description = $3, status = $4, priority = $5,
			current_assigned_to = $6, current_assigned_to_name = $7, due_date = $8,
			start_date = $9, completed_date = $10, completed_by = $11, completed_by_name = $12,
			updated_at = $13, last_action_at = $14, tags = $15, is_public = $16
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.CurrentAssignedTo, task.CurrentAssignedToName, task.DueDate,
		task.StartDate, task.CompletedDate, task.CompletedBy, task.CompletedByName,
		task.UpdatedAt, task.LastActionAt, pq.Array(task.Tags), task.IsPublic,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update board task: %w", err)
	}

	return nil
}

// Delete removes the task and its memos in one transaction. The reference
// system left memos orphaned; the cascade is intentional here.
func (r *BoardTaskRepositoryImpl) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete board task: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_memos WHERE task_id = $1`, id); err != nil {
		return fmt.Errorf("delete task memos: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM board_tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete board task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete board task: %w", err)
	}

	return nil
}

func (r *BoardTaskRepositoryImpl) ListByStore(ctx context.Context, storeID int) ([]entities.BoardTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM board_tasks WHERE store_id = $1`, taskColumns)

	rows, err := r.db.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list board tasks: %w", err)
	}
	defer rows.Close()

	var tasks []entities.BoardTask
	for rows.Next() {
		task, err := scanBoardTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list board tasks: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list board tasks: %w", err)
	}

	return tasks, nil
}

func (r *BoardTaskRepositoryImpl) AddMemo(ctx context.Context, memo *entities.TaskMemo) error {
	query := `
		INSERT INTO task_memos (task_id, text, created_by, created_by_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		memo.TaskID, memo.Text, memo.CreatedBy, memo.CreatedByName,
	).Scan(&memo.ID, &memo.CreatedAt)
	if err != nil {
		return fmt.Errorf("add memo: %w", err)
	}

	return nil
}

func (r *BoardTaskRepositoryImpl) ListMemos(ctx context.Context, taskID int) ([]entities.TaskMemo, error) {
	query := `
		SELECT id, task_id, text, created_by, created_by_name, created_at
		FROM task_memos
		WHERE task_id = $1
		ORDER BY created_at, id`

	var memos []entities.TaskMemo
	err := r.db.SelectContext(ctx, &memos, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}

	return memos, nil
}

func scanBoardTask(row rowScanner) (*entities.BoardTask, error) {
	var task entities.BoardTask
	var tags pq.StringArray

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&task.CreatedBy, &task.CreatedByName, &task.CurrentAssignedTo,
		&task.CurrentAssignedToName, &task.StoreID, &task.DueDate, &task.StartDate,
		&task.CompletedDate, &task.CompletedBy, &task.CompletedByName,
		&task.CreatedAt, &task.UpdatedAt, &task.LastActionAt, &tags, &task.IsPublic,
	)
	if err != nil {
		return nil, err
	}

	task.Tags = []string(tags)
	return &task, nil
}
