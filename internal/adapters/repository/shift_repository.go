package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/ports"
)

// ShiftRepositoryImpl implements the ShiftRepository interface.
type ShiftRepositoryImpl struct {
	db *sqlx.DB
}

// NewShiftRepository creates a new shift repository.
func NewShiftRepository(db *sqlx.DB) ports.ShiftRepository {
	return &ShiftRepositoryImpl{db: db}
}

const shiftColumns = `id, user_id, store_id, date, start_time, end_time, status, classes,
	notes, approved_by, rejected_reason, requested_changes, created_at, updated_at`

func (r *ShiftRepositoryImpl) Create(ctx context.Context, shift *entities.Shift) error {
	query := `
		INSERT INTO shifts (user_id, store_id, date, start_time, end_time, status, classes, notes, requested_changes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	changes, err := marshalChangeRequest(shift.RequestedChanges)
	if err != nil {
		return fmt.Errorf("create shift: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		shift.UserID, shift.StoreID, shift.Date, shift.StartTime, shift.EndTime,
		shift.Status, shift.Classes, shift.Notes, changes,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create shift: %w", err)
	}

	return nil
}

func (r *ShiftRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Shift, error) {
	query := fmt.Sprintf(`SELECT %s FROM shifts WHERE id = $1`, shiftColumns)

	shift, err := scanShift(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrShiftNotFound
		}
		return nil, fmt.Errorf("get shift by id: %w", err)
	}

	return shift, nil
}

func (r *ShiftRepositoryImpl) Update(ctx context.Context, shift *entities.Shift) error {
	query := `
		UPDATE shifts
		SET date = $2, start_time = $3, end_time = $4, status = $5, classes = $6,
			notes = $7, approved_by = $8, rejected_reason = $9, requested_changes = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	changes, err := marshalChangeRequest(shift.RequestedChanges)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query,
		shift.ID, shift.Date, shift.StartTime, shift.EndTime, shift.Status,
		shift.Classes, shift.Notes, shift.ApprovedBy, shift.RejectedReason, changes,
	).Scan(&shift.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrShiftNotFound
		}
		return fmt.Errorf("update shift: %w", err)
	}

	return nil
}

func (r *ShiftRepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrShiftNotFound
	}

	return nil
}

func (r *ShiftRepositoryImpl) List(ctx context.Context, filter ports.ShiftFilter) ([]*entities.Shift, error) {
	var conditions []string
	var args []interface{}

	if !filter.IncludePurged {
		conditions = append(conditions, "status <> 'purged'")
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.StoreID != nil {
		args = append(args, *filter.StoreID)
		conditions = append(conditions, fmt.Sprintf("store_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM shifts`, shiftColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, start_time"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*entities.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("list shifts: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}

	return shifts, nil
}

func (r *ShiftRepositoryImpl) GetUserShifts(ctx context.Context, userID uuid.UUID, from, to string) ([]*entities.Shift, error) {
	filter := ports.ShiftFilter{UserID: &userID}
	if from != "" {
		filter.DateFrom = &from
	}
	if to != "" {
		filter.DateTo = &to
	}
	return r.List(ctx, filter)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShift(row rowScanner) (*entities.Shift, error) {
	var shift entities.Shift
	var changesRaw []byte

	err := row.Scan(
		&shift.ID, &shift.UserID, &shift.StoreID, &shift.Date,
		&shift.StartTime, &shift.EndTime, &shift.Status, &shift.Classes,
		&shift.Notes, &shift.ApprovedBy, &shift.RejectedReason, &changesRaw,
		&shift.CreatedAt, &shift.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(changesRaw) > 0 {
		var changes entities.ShiftChangeRequest
		if err := json.Unmarshal(changesRaw, &changes); err != nil {
			return nil, fmt.Errorf("decode requested_changes: %w", err)
		}
		shift.RequestedChanges = &changes
	}

	return &shift, nil
}

func marshalChangeRequest(req *entities.ShiftChangeRequest) (interface{}, error) {
	if req == nil {
		return nil, nil
	}
	return json.Marshal(req)
}
