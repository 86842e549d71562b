package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ShiftStatus string

const (
	ShiftStatusDraft             ShiftStatus = "draft"
	ShiftStatusPending           ShiftStatus = "pending"
	ShiftStatusApproved          ShiftStatus = "approved"
	ShiftStatusRejected          ShiftStatus = "rejected"
	ShiftStatusDeletionRequested ShiftStatus = "deletion_requested"
	ShiftStatusDeleted           ShiftStatus = "deleted"
	ShiftStatusCompleted         ShiftStatus = "completed"
	ShiftStatusPurged            ShiftStatus = "purged"
)

// ShiftStatusConfig carries the static per-status display metadata.
type ShiftStatusConfig struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	CanEdit     bool   `json:"can_edit"`
	Description string `json:"description"`
}

var shiftStatusConfigs = map[ShiftStatus]ShiftStatusConfig{
	ShiftStatusDraft:             {Label: "Draft", Color: "#9E9E9E", CanEdit: true, Description: "Being prepared by staff, not yet submitted"},
	ShiftStatusPending:           {Label: "Pending", Color: "#FF9800", CanEdit: true, Description: "Submitted and awaiting manager review"},
	ShiftStatusApproved:          {Label: "Approved", Color: "#4CAF50", CanEdit: false, Description: "Approved by a manager"},
	ShiftStatusRejected:          {Label: "Rejected", Color: "#F44336", CanEdit: true, Description: "Rejected by a manager, may be resubmitted"},
	ShiftStatusDeletionRequested: {Label: "Deletion requested", Color: "#FF5722", CanEdit: false, Description: "Staff asked for this shift to be removed"},
	ShiftStatusDeleted:           {Label: "Deleted", Color: "#607D8B", CanEdit: false, Description: "Removed from the schedule"},
	ShiftStatusCompleted:         {Label: "Completed", Color: "#2196F3", CanEdit: false, Description: "Shift has been worked"},
	ShiftStatusPurged:            {Label: "Purged", Color: "#000000", CanEdit: false, Description: "Permanently hidden"},
}

// shiftTransitions is the legal transition table. Any transition not listed
// here is rejected with ErrInvalidTransition; in particular a draft can never
// skip pending on its way to approved.
var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftStatusDraft:             {ShiftStatusPending},
	ShiftStatusPending:           {ShiftStatusApproved, ShiftStatusRejected},
	ShiftStatusApproved:          {ShiftStatusDeletionRequested, ShiftStatusCompleted},
	ShiftStatusRejected:          {ShiftStatusPending, ShiftStatusDraft},
	ShiftStatusDeletionRequested: {ShiftStatusDeleted},
	ShiftStatusDeleted:           {ShiftStatusPurged},
	ShiftStatusPurged:            {},
}

func (s ShiftStatus) IsValid() bool {
	_, ok := shiftStatusConfigs[s]
	return ok
}

// Config returns the static metadata for the status. Unknown statuses map to
// the zero config.
func (s ShiftStatus) Config() ShiftStatusConfig {
	return shiftStatusConfigs[s]
}

// CanEdit reports whether a shift in this status may still be edited by
// staff. Only draft, pending and rejected shifts are editable.
func (s ShiftStatus) CanEdit() bool {
	return shiftStatusConfigs[s].CanEdit
}

// CanTransitionTo reports whether the transition s -> target is legal.
func (s ShiftStatus) CanTransitionTo(target ShiftStatus) bool {
	for _, next := range shiftTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s ShiftStatus) IsTerminal() bool {
	return len(shiftTransitions[s]) == 0
}

// ClassTimeSlot is a sub-interval of a shift reserved for teaching. Class
// time is excluded from paid staff time.
type ClassTimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Subject   string `json:"subject,omitempty"`
}

// ClassTimeSlots is stored as a JSONB column.
type ClassTimeSlots []ClassTimeSlot

func (c ClassTimeSlots) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *ClassTimeSlots) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into ClassTimeSlots", src)
	}
}

// ShiftChangeRequest holds the fields a staff member asked to change on an
// already-submitted shift. Nil fields are left untouched when the request is
// approved.
type ShiftChangeRequest struct {
	Date      *string         `json:"date,omitempty"`
	StartTime *string         `json:"start_time,omitempty"`
	EndTime   *string         `json:"end_time,omitempty"`
	Classes   *ClassTimeSlots `json:"classes,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
}

// Shift is a scheduled block of staff working time on a given date for a
// given store. StartTime/EndTime are "HH:MM" wall-clock strings scoped to
// Date.
type Shift struct {
	ID               int                 `json:"id" db:"id"`
	UserID           uuid.UUID           `json:"user_id" db:"user_id"`
	StoreID          int                 `json:"store_id" db:"store_id"`
	Date             string              `json:"date" db:"date"`
	StartTime        string              `json:"start_time" db:"start_time"`
	EndTime          string              `json:"end_time" db:"end_time"`
	Status           ShiftStatus         `json:"status" db:"status"`
	Classes          ClassTimeSlots      `json:"classes" db:"classes"`
	Notes            *string             `json:"notes" db:"notes"`
	ApprovedBy       *uuid.UUID          `json:"approved_by" db:"approved_by"`
	RejectedReason   *string             `json:"rejected_reason" db:"rejected_reason"`
	RequestedChanges *ShiftChangeRequest `json:"requested_changes" db:"requested_changes"`
	CreatedAt        time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" db:"updated_at"`
}

// CanEdit reports whether the shift may still be edited.
func (s *Shift) CanEdit() bool {
	return s.Status.CanEdit()
}

// TransitionTo moves the shift to the target status after checking the legal
// transition table. It performs no side effects beyond the status change;
// use the dedicated helpers for transitions that carry bookkeeping.
func (s *Shift) TransitionTo(target ShiftStatus) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}
	if !s.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, target)
	}
	s.Status = target
	return nil
}

// Submit moves a draft (or rejected) shift back into the review queue.
func (s *Shift) Submit() error {
	if err := s.TransitionTo(ShiftStatusPending); err != nil {
		return err
	}
	s.RejectedReason = nil
	return nil
}

// Approve marks a pending shift approved by the given manager. A pending
// change request, if any, is merged into the shift and cleared.
func (s *Shift) Approve(managerID uuid.UUID) error {
	if err := s.TransitionTo(ShiftStatusApproved); err != nil {
		return err
	}
	s.ApprovedBy = &managerID
	s.RejectedReason = nil
	s.ApplyChangeRequest()
	return nil
}

// Reject marks a pending shift rejected with the given reason. Any pending
// change request is discarded.
func (s *Shift) Reject(reason string) error {
	if err := s.TransitionTo(ShiftStatusRejected); err != nil {
		return err
	}
	s.RejectedReason = &reason
	s.RequestedChanges = nil
	return nil
}

// ApplyChangeRequest merges the pending change request into the shift and
// clears it. It is a no-op when no request is pending.
func (s *Shift) ApplyChangeRequest() {
	req := s.RequestedChanges
	if req == nil {
		return
	}
	if req.Date != nil {
		s.Date = *req.Date
	}
	if req.StartTime != nil {
		s.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		s.EndTime = *req.EndTime
	}
	if req.Classes != nil {
		s.Classes = *req.Classes
	}
	if req.Notes != nil {
		s.Notes = req.Notes
	}
	s.RequestedChanges = nil
}

// DiscardChangeRequest clears the pending change request without merging.
func (s *Shift) DiscardChangeRequest() {
	s.RequestedChanges = nil
}
