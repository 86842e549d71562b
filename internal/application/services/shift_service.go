package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/domain/schedule"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// ShiftService drives the shift lifecycle from draft through approval to
// completion or deletion. All status changes go through the entity transition
// table; the service adds persistence, actor checks and time validation.
type ShiftService struct {
	shiftRepo ports.ShiftRepository
	userRepo  ports.UserRepository
	storeRepo ports.StoreRepository
	logger    *logger.Logger
}

// NewShiftService creates a new shift service.
func NewShiftService(shiftRepo ports.ShiftRepository, userRepo ports.UserRepository, storeRepo ports.StoreRepository, logger *logger.Logger) *ShiftService {
	return &ShiftService{
		shiftRepo: shiftRepo,
		userRepo:  userRepo,
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// CreateShift creates a new shift in draft, or directly in pending when the
// request asks for immediate submission. The time range and class slots must
// decompose cleanly or the shift is rejected outright.
func (s *ShiftService) CreateShift(ctx context.Context, req ports.CreateShiftRequest) (*entities.Shift, error) {
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("shift owner: %w", err)
	}
	if _, err := s.storeRepo.GetByID(ctx, req.StoreID); err != nil {
		return nil, fmt.Errorf("shift store: %w", err)
	}

	if _, err := schedule.Decompose(req.StartTime, req.EndTime, req.Classes); err != nil {
		return nil, err
	}

	now := time.Now()
	shift := &entities.Shift{
		UserID:    req.UserID,
		StoreID:   req.StoreID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    entities.ShiftStatusDraft,
		Classes:   req.Classes,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Submit {
		shift.Status = entities.ShiftStatusPending
	}

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}

	s.logger.Infow("Shift created", "shift_id", shift.ID, "user_id", shift.UserID, "date", shift.Date, "status", shift.Status)
	return shift, nil
}

// GetShift retrieves a shift by ID.
func (s *ShiftService) GetShift(ctx context.Context, id int) (*entities.Shift, error) {
	return s.shiftRepo.GetByID(ctx, id)
}

// ListShifts retrieves shifts matching the filter. Purged shifts stay hidden
// unless the filter opts in.
func (s *ShiftService) ListShifts(ctx context.Context, filter ports.ShiftFilter) ([]*entities.Shift, error) {
	return s.shiftRepo.List(ctx, filter)
}

// UpdateShift edits a shift in place. Only draft, pending and rejected shifts
// are editable; anything later in the lifecycle must go through a change
// request.
func (s *ShiftService) UpdateShift(ctx context.Context, id int, req ports.UpdateShiftRequest) (*entities.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shift.CanEdit() {
		return nil, fmt.Errorf("%w: shift in status %s cannot be edited", entities.ErrValidation, shift.Status)
	}

	if req.Date != nil {
		shift.Date = *req.Date
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.Classes != nil {
		shift.Classes = *req.Classes
	}
	if req.Notes != nil {
		shift.Notes = req.Notes
	}

	if _, err := schedule.Decompose(shift.StartTime, shift.EndTime, shift.Classes); err != nil {
		return nil, err
	}

	shift.UpdatedAt = time.Now()
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}

	s.logger.Infow("Shift updated", "shift_id", shift.ID)
	return shift, nil
}

// SubmitShift moves a draft or rejected shift into the review queue.
func (s *ShiftService) SubmitShift(ctx context.Context, id int) (*entities.Shift, error) {
	return s.transition(ctx, id, uuid.Nil, func(shift *entities.Shift) error {
		return shift.Submit()
	})
}

// ApproveShift marks a pending shift approved by the given manager. A pending
// change request is merged into the shift as part of approval.
func (s *ShiftService) ApproveShift(ctx context.Context, id int, managerID uuid.UUID) (*entities.Shift, error) {
	if err := s.requireReviewer(ctx, managerID); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, managerID, func(shift *entities.Shift) error {
		return shift.Approve(managerID)
	})
}

// RejectShift marks a pending shift rejected with the given reason.
func (s *ShiftService) RejectShift(ctx context.Context, id int, managerID uuid.UUID, reason string) (*entities.Shift, error) {
	if err := s.requireReviewer(ctx, managerID); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, managerID, func(shift *entities.Shift) error {
		return shift.Reject(reason)
	})
}

// RequestChanges records a partial change request against an approved shift.
// The shift itself stays untouched until a manager approves the request. The
// requested fields are validated against the shift as they would apply, so a
// request that can never be approved is rejected up front.
func (s *ShiftService) RequestChanges(ctx context.Context, id int, req ports.RequestShiftChangesRequest) (*entities.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.Status != entities.ShiftStatusApproved {
		return nil, fmt.Errorf("%w: change requests only apply to approved shifts, shift is %s", entities.ErrInvalidTransition, shift.Status)
	}
	if req.Date == nil && req.StartTime == nil && req.EndTime == nil && req.Classes == nil && req.Notes == nil {
		return nil, fmt.Errorf("%w: change request is empty", entities.ErrValidation)
	}

	change := &entities.ShiftChangeRequest{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	}
	if req.Classes != nil {
		classes := entities.ClassTimeSlots(*req.Classes)
		change.Classes = &classes
	}

	preview := *shift
	preview.RequestedChanges = change
	preview.ApplyChangeRequest()
	if _, err := schedule.Decompose(preview.StartTime, preview.EndTime, preview.Classes); err != nil {
		return nil, err
	}

	shift.RequestedChanges = change
	shift.UpdatedAt = time.Now()
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to store change request: %w", err)
	}

	s.logger.Infow("Shift change requested", "shift_id", shift.ID)
	return shift, nil
}

// ApproveChanges merges the pending change request into the shift. The shift
// stays approved; only its fields move.
func (s *ShiftService) ApproveChanges(ctx context.Context, id int, managerID uuid.UUID) (*entities.Shift, error) {
	if err := s.requireReviewer(ctx, managerID); err != nil {
		return nil, err
	}

	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.RequestedChanges == nil {
		return nil, entities.ErrNoChangeRequest
	}

	shift.ApplyChangeRequest()
	if _, err := schedule.Decompose(shift.StartTime, shift.EndTime, shift.Classes); err != nil {
		return nil, err
	}

	shift.UpdatedAt = time.Now()
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to apply change request: %w", err)
	}

	s.logger.Infow("Shift change request approved", "shift_id", shift.ID, "manager_id", managerID)
	return shift, nil
}

// RejectChanges discards the pending change request without touching the
// shift's fields.
func (s *ShiftService) RejectChanges(ctx context.Context, id int, managerID uuid.UUID) (*entities.Shift, error) {
	if err := s.requireReviewer(ctx, managerID); err != nil {
		return nil, err
	}

	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.RequestedChanges == nil {
		return nil, entities.ErrNoChangeRequest
	}

	shift.DiscardChangeRequest()
	shift.UpdatedAt = time.Now()
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to discard change request: %w", err)
	}

	s.logger.Infow("Shift change request rejected", "shift_id", shift.ID, "manager_id", managerID)
	return shift, nil
}

// RequestDeletion asks for an approved shift to be removed from the schedule.
func (s *ShiftService) RequestDeletion(ctx context.Context, id int) (*entities.Shift, error) {
	return s.transition(ctx, id, uuid.Nil, func(shift *entities.Shift) error {
		return shift.TransitionTo(entities.ShiftStatusDeletionRequested)
	})
}

// ConfirmDeletion confirms a pending deletion request.
func (s *ShiftService) ConfirmDeletion(ctx context.Context, id int, managerID uuid.UUID) (*entities.Shift, error) {
	if err := s.requireReviewer(ctx, managerID); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, managerID, func(shift *entities.Shift) error {
		return shift.TransitionTo(entities.ShiftStatusDeleted)
	})
}

// CompleteShift marks an approved shift as worked.
func (s *ShiftService) CompleteShift(ctx context.Context, id int) (*entities.Shift, error) {
	return s.transition(ctx, id, uuid.Nil, func(shift *entities.Shift) error {
		return shift.TransitionTo(entities.ShiftStatusCompleted)
	})
}

// PurgeShift hides a deleted shift permanently. The row is kept for audit;
// purged shifts simply never show up in default listings.
func (s *ShiftService) PurgeShift(ctx context.Context, id int, managerID uuid.UUID) (*entities.Shift, error) {
	if err := s.requireReviewer(ctx, managerID); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, managerID, func(shift *entities.Shift) error {
		return shift.TransitionTo(entities.ShiftStatusPurged)
	})
}

// StatusConfig exposes the per-status display metadata for clients that
// render the lifecycle.
func (s *ShiftService) StatusConfig(status entities.ShiftStatus) (entities.ShiftStatusConfig, error) {
	if !status.IsValid() {
		return entities.ShiftStatusConfig{}, fmt.Errorf("%w: unknown status %q", entities.ErrValidation, status)
	}
	return status.Config(), nil
}

func (s *ShiftService) transition(ctx context.Context, id int, actorID uuid.UUID, apply func(*entities.Shift) error) (*entities.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := shift.Status
	if err := apply(shift); err != nil {
		return nil, err
	}

	shift.UpdatedAt = time.Now()
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to persist shift transition: %w", err)
	}

	s.logger.LogShiftTransition(shift.ID, string(from), string(shift.Status), actorID.String())
	return shift, nil
}

func (s *ShiftService) requireReviewer(ctx context.Context, managerID uuid.UUID) error {
	if managerID == uuid.Nil {
		return entities.ErrMissingActor
	}
	manager, err := s.userRepo.GetByID(ctx, managerID)
	if err != nil {
		return fmt.Errorf("reviewer: %w", err)
	}
	if !manager.CanReviewShifts() {
		return fmt.Errorf("%w: user %s may not review shifts", entities.ErrUnauthorized, managerID)
	}
	return nil
}
