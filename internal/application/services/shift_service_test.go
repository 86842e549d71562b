package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/ports"
)

func newShiftServiceFixture(t *testing.T, shift *entities.Shift, reviewer *entities.User) (*ShiftService, *mockShiftRepo) {
	t.Helper()

	shiftRepo := &mockShiftRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*entities.Shift, error) {
			if shift == nil || shift.ID != id {
				return nil, entities.ErrShiftNotFound
			}
			return shift, nil
		},
		UpdateFunc: func(ctx context.Context, s *entities.Shift) error { return nil },
		CreateFunc: func(ctx context.Context, s *entities.Shift) error {
			s.ID = 1
			return nil
		},
	}
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*entities.User, error) {
			if reviewer != nil && reviewer.ID == id {
				return reviewer, nil
			}
			return activeStaff(id), nil
		},
	}
	storeRepo := &mockStoreRepo{
		GetByIDFunc: func(ctx context.Context, id int) (*entities.Store, error) {
			return &entities.Store{ID: id, Name: "Main", Code: "MAIN"}, nil
		},
	}

	return NewShiftService(shiftRepo, userRepo, storeRepo, newTestLogger(t)), shiftRepo
}

func TestCreateShiftDraftAndSubmitted(t *testing.T) {
	svc, _ := newShiftServiceFixture(t, nil, nil)

	req := ports.CreateShiftRequest{
		UserID:    uuid.New(),
		StoreID:   1,
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "18:00",
	}

	shift, err := svc.CreateShift(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.Status != entities.ShiftStatusDraft {
		t.Errorf("status = %s, want draft", shift.Status)
	}

	req.Submit = true
	shift, err = svc.CreateShift(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.Status != entities.ShiftStatusPending {
		t.Errorf("status = %s, want pending", shift.Status)
	}
}

func TestCreateShiftRejectsBadClasses(t *testing.T) {
	svc, _ := newShiftServiceFixture(t, nil, nil)

	req := ports.CreateShiftRequest{
		UserID:    uuid.New(),
		StoreID:   1,
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "18:00",
		Classes: []entities.ClassTimeSlot{
			{StartTime: "08:00", EndTime: "10:00"},
		},
	}

	_, err := svc.CreateShift(context.Background(), req)
	if !errors.Is(err, entities.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateShiftBlockedAfterApproval(t *testing.T) {
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusApproved, StartTime: "09:00", EndTime: "18:00"}
	svc, _ := newShiftServiceFixture(t, shift, nil)

	newStart := "10:00"
	_, err := svc.UpdateShift(context.Background(), 7, ports.UpdateShiftRequest{StartTime: &newStart})
	if !errors.Is(err, entities.ErrValidation) {
		t.Errorf("expected ErrValidation for locked shift, got %v", err)
	}
}

func TestApproveShiftRequiresManager(t *testing.T) {
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusPending, StartTime: "09:00", EndTime: "18:00"}
	svc, _ := newShiftServiceFixture(t, shift, nil)

	// Default fixture user is plain staff.
	_, err := svc.ApproveShift(context.Background(), 7, uuid.New())
	if !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if shift.Status != entities.ShiftStatusPending {
		t.Errorf("status must be unchanged, got %s", shift.Status)
	}
}

func TestApproveShiftByManager(t *testing.T) {
	managerID := uuid.New()
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusPending, StartTime: "09:00", EndTime: "18:00"}
	svc, _ := newShiftServiceFixture(t, shift, activeManager(managerID))

	got, err := svc.ApproveShift(context.Background(), 7, managerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != entities.ShiftStatusApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != managerID {
		t.Error("approving manager not recorded")
	}
}

func TestApproveShiftMissingActor(t *testing.T) {
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusPending}
	svc, _ := newShiftServiceFixture(t, shift, nil)

	_, err := svc.ApproveShift(context.Background(), 7, uuid.Nil)
	if !errors.Is(err, entities.ErrMissingActor) {
		t.Errorf("expected ErrMissingActor, got %v", err)
	}
}

func TestRejectShiftRecordsReason(t *testing.T) {
	managerID := uuid.New()
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusPending}
	svc, _ := newShiftServiceFixture(t, shift, activeManager(managerID))

	got, err := svc.RejectShift(context.Background(), 7, managerID, "overlaps another shift")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != entities.ShiftStatusRejected {
		t.Errorf("status = %s, want rejected", got.Status)
	}
	if got.RejectedReason == nil || *got.RejectedReason != "overlaps another shift" {
		t.Error("rejection reason not recorded")
	}
}

func TestRequestChangesOnlyOnApproved(t *testing.T) {
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusPending, StartTime: "09:00", EndTime: "18:00"}
	svc, _ := newShiftServiceFixture(t, shift, nil)

	newStart := "10:00"
	_, err := svc.RequestChanges(context.Background(), 7, ports.RequestShiftChangesRequest{StartTime: &newStart})
	if !errors.Is(err, entities.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRequestChangesValidatesMergedResult(t *testing.T) {
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusApproved, StartTime: "09:00", EndTime: "18:00"}
	svc, _ := newShiftServiceFixture(t, shift, nil)

	// Requested end time before the existing start time cannot ever be
	// approved, so it is rejected up front.
	badEnd := "08:00"
	_, err := svc.RequestChanges(context.Background(), 7, ports.RequestShiftChangesRequest{EndTime: &badEnd})
	if !errors.Is(err, entities.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if shift.RequestedChanges != nil {
		t.Error("invalid request must not be stored")
	}
}

func TestChangeRequestLifecycle(t *testing.T) {
	managerID := uuid.New()
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusApproved, StartTime: "09:00", EndTime: "18:00"}
	svc, _ := newShiftServiceFixture(t, shift, activeManager(managerID))

	newStart := "10:00"
	if _, err := svc.RequestChanges(context.Background(), 7, ports.RequestShiftChangesRequest{StartTime: &newStart}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.RequestedChanges == nil {
		t.Fatal("change request not stored")
	}
	if shift.StartTime != "09:00" {
		t.Fatal("shift fields must not move before approval")
	}

	got, err := svc.ApproveChanges(context.Background(), 7, managerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StartTime != "10:00" {
		t.Errorf("start time = %s, change not merged", got.StartTime)
	}
	if got.Status != entities.ShiftStatusApproved {
		t.Errorf("status = %s, approval must not change status", got.Status)
	}
	if got.RequestedChanges != nil {
		t.Error("change request should be cleared")
	}

	// A second approval has nothing to merge.
	_, err = svc.ApproveChanges(context.Background(), 7, managerID)
	if !errors.Is(err, entities.ErrNoChangeRequest) {
		t.Errorf("expected ErrNoChangeRequest, got %v", err)
	}
}

func TestRejectChangesKeepsShiftIntact(t *testing.T) {
	managerID := uuid.New()
	newStart := "10:00"
	startPtr := &newStart
	shift := &entities.Shift{
		ID:               7,
		Status:           entities.ShiftStatusApproved,
		StartTime:        "09:00",
		EndTime:          "18:00",
		RequestedChanges: &entities.ShiftChangeRequest{StartTime: startPtr},
	}
	svc, _ := newShiftServiceFixture(t, shift, activeManager(managerID))

	got, err := svc.RejectChanges(context.Background(), 7, managerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StartTime != "09:00" {
		t.Error("rejected change must not move shift fields")
	}
	if got.RequestedChanges != nil {
		t.Error("change request should be discarded")
	}
}

func TestDeletionFlow(t *testing.T) {
	managerID := uuid.New()
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusApproved}
	svc, _ := newShiftServiceFixture(t, shift, activeManager(managerID))

	if _, err := svc.RequestDeletion(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.Status != entities.ShiftStatusDeletionRequested {
		t.Fatalf("status = %s, want deletion_requested", shift.Status)
	}

	if _, err := svc.ConfirmDeletion(context.Background(), 7, managerID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.Status != entities.ShiftStatusDeleted {
		t.Fatalf("status = %s, want deleted", shift.Status)
	}

	if _, err := svc.PurgeShift(context.Background(), 7, managerID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.Status != entities.ShiftStatusPurged {
		t.Fatalf("status = %s, want purged", shift.Status)
	}

	// Purged is terminal.
	_, err := svc.PurgeShift(context.Background(), 7, managerID)
	if !errors.Is(err, entities.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCompleteShift(t *testing.T) {
	shift := &entities.Shift{ID: 7, Status: entities.ShiftStatusApproved}
	svc, _ := newShiftServiceFixture(t, shift, nil)

	got, err := svc.CompleteShift(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != entities.ShiftStatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
}
