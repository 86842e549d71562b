package entities

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Actor identifies the user performing a board action. The task machine
// cannot infer it from the record, so callers always supply it.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// BoardTask is an operational to-do item tracked through a three-state
// lifecycle, scoped to one store.
type BoardTask struct {
	ID                    int        `json:"id" db:"id"`
	Title                 string     `json:"title" db:"title"`
	Description           *string    `json:"description" db:"description"`
	Status                TaskStatus `json:"status" db:"status"`
	Priority              Priority   `json:"priority" db:"priority"`
	CreatedBy             uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedByName         string     `json:"created_by_name" db:"created_by_name"`
	CurrentAssignedTo     *uuid.UUID `json:"current_assigned_to" db:"current_assigned_to"`
	CurrentAssignedToName *string    `json:"current_assigned_to_name" db:"current_assigned_to_name"`
	StoreID               int        `json:"store_id" db:"store_id"`
	DueDate               *time.Time `json:"due_date" db:"due_date"`
	StartDate             *time.Time `json:"start_date" db:"start_date"`
	CompletedDate         *time.Time `json:"completed_date" db:"completed_date"`
	CompletedBy           *uuid.UUID `json:"completed_by" db:"completed_by"`
	CompletedByName       *string    `json:"completed_by_name" db:"completed_by_name"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
	LastActionAt          *time.Time `json:"last_action_at" db:"last_action_at"`
	Tags                  []string   `json:"tags" db:"tags"`
	IsPublic              bool       `json:"is_public" db:"is_public"`
}

// TaskMemo is an append-only note on a board task. Memos are never edited or
// deleted individually; they go away only with their parent task.
type TaskMemo struct {
	ID            int       `json:"id" db:"id"`
	TaskID        int       `json:"task_id" db:"task_id"`
	Text          string    `json:"text" db:"text"`
	CreatedBy     uuid.UUID `json:"created_by" db:"created_by"`
	CreatedByName string    `json:"created_by_name" db:"created_by_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SetStatus moves the task to the target status and applies the per-target
// side effects: entering in_progress records the acting user as assignee,
// entering completed records completion and clears the assignment, entering
// not_started clears both. updatedAt and lastActionAt are stamped
// unconditionally.
func (t *BoardTask) SetStatus(target TaskStatus, actor Actor, now time.Time) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: unknown task status %q", ErrValidation, target)
	}
	if actor.ID == uuid.Nil {
		return ErrMissingActor
	}

	switch target {
	case TaskStatusInProgress:
		t.CurrentAssignedTo = &actor.ID
		name := actor.Name
		t.CurrentAssignedToName = &name
		if t.StartDate == nil {
			started := now
			t.StartDate = &started
		}
		t.clearCompletion()
	case TaskStatusCompleted:
		completed := now
		name := actor.Name
		t.CompletedDate = &completed
		t.CompletedBy = &actor.ID
		t.CompletedByName = &name
		t.clearAssignment()
	case TaskStatusNotStarted:
		t.clearAssignment()
		t.clearCompletion()
	}

	t.Status = target
	t.TouchAction(now)
	return nil
}

// TouchAction stamps updatedAt and lastActionAt. Called on every status
// change and every memo addition so the board surfaces recent activity.
func (t *BoardTask) TouchAction(now time.Time) {
	t.UpdatedAt = now
	action := now
	t.LastActionAt = &action
}

// EffectiveActionTime is the board sort key: lastActionAt when set,
// createdAt otherwise.
func (t *BoardTask) EffectiveActionTime() time.Time {
	if t.LastActionAt != nil {
		return *t.LastActionAt
	}
	return t.CreatedAt
}

func (t *BoardTask) clearAssignment() {
	t.CurrentAssignedTo = nil
	t.CurrentAssignedToName = nil
}

func (t *BoardTask) clearCompletion() {
	t.CompletedDate = nil
	t.CompletedBy = nil
	t.CompletedByName = nil
}

// SortBoard orders tasks for board display: descending by effective action
// time, then descending createdAt, then ascending ID. The ID tie-break makes
// the order fully deterministic even for equal timestamps.
func SortBoard(tasks []BoardTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ti, tj := tasks[i].EffectiveActionTime(), tasks[j].EffectiveActionTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
