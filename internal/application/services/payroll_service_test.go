package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/infrastructure/config"
)

func newPayrollFixture(t *testing.T, user *entities.User, shifts []*entities.Shift) *PayrollService {
	t.Helper()

	shiftRepo := &mockShiftRepo{
		GetUserShiftsFunc: func(ctx context.Context, userID uuid.UUID, from, to string) ([]*entities.Shift, error) {
			return shifts, nil
		},
	}
	userRepo := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*entities.User, error) {
			if user == nil {
				return nil, entities.ErrUserNotFound
			}
			return user, nil
		},
	}

	return NewPayrollService(shiftRepo, userRepo, config.PayrollConfig{DefaultHourlyWage: 1100}, newTestLogger(t))
}

func TestPayrollReportSumsRoundedShiftWages(t *testing.T) {
	userID := uuid.New()
	rate := 1200.0
	user := activeStaff(userID)
	user.HourlyWage = &rate

	shifts := []*entities.Shift{
		{
			ID: 1, Status: entities.ShiftStatusCompleted, Date: "2026-09-01",
			StartTime: "09:00", EndTime: "18:00",
			Classes: entities.ClassTimeSlots{{StartTime: "13:00", EndTime: "15:00"}},
		},
		{
			ID: 2, Status: entities.ShiftStatusApproved, Date: "2026-09-02",
			StartTime: "10:00", EndTime: "14:00",
		},
	}

	svc := newPayrollFixture(t, user, shifts)

	report, err := svc.Report(context.Background(), userID, "2026-09-01", "2026-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(report.Lines))
	}
	// Shift 1: 420 staff minutes at 1200/h = 8400. Shift 2: 240 at 1200/h = 4800.
	if report.Lines[0].Wage != 8400 {
		t.Errorf("line 1 wage = %.2f, want 8400", report.Lines[0].Wage)
	}
	if report.Lines[1].Wage != 4800 {
		t.Errorf("line 2 wage = %.2f, want 4800", report.Lines[1].Wage)
	}
	if report.TotalWage != 13200 {
		t.Errorf("total = %.2f, want 13200", report.TotalWage)
	}
	if report.StaffMinutes != 660 || report.ClassMinutes != 120 {
		t.Errorf("minutes = %d staff / %d class, want 660/120", report.StaffMinutes, report.ClassMinutes)
	}

	var lineSum float64
	for _, line := range report.Lines {
		lineSum += line.Wage
	}
	if lineSum != report.TotalWage {
		t.Errorf("total %.2f does not equal sum of lines %.2f", report.TotalWage, lineSum)
	}
}

func TestPayrollReportSkipsUnpaidStatuses(t *testing.T) {
	userID := uuid.New()
	shifts := []*entities.Shift{
		{ID: 1, Status: entities.ShiftStatusDraft, StartTime: "09:00", EndTime: "18:00"},
		{ID: 2, Status: entities.ShiftStatusRejected, StartTime: "09:00", EndTime: "18:00"},
		{ID: 3, Status: entities.ShiftStatusDeleted, StartTime: "09:00", EndTime: "18:00"},
	}

	svc := newPayrollFixture(t, activeStaff(userID), shifts)

	report, err := svc.Report(context.Background(), userID, "2026-09-01", "2026-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Lines) != 0 || report.TotalWage != 0 {
		t.Errorf("unpaid statuses must not contribute, got %d lines / %.2f", len(report.Lines), report.TotalWage)
	}
}

func TestPayrollReportDefaultRate(t *testing.T) {
	userID := uuid.New()
	shifts := []*entities.Shift{
		{ID: 1, Status: entities.ShiftStatusCompleted, StartTime: "09:00", EndTime: "10:00"},
	}

	// No configured rate on the user.
	svc := newPayrollFixture(t, activeStaff(userID), shifts)

	report, err := svc.Report(context.Background(), userID, "2026-09-01", "2026-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.HourlyWage != 1100 {
		t.Errorf("rate = %.2f, want configured default 1100", report.HourlyWage)
	}
	if report.TotalWage != 1100 {
		t.Errorf("total = %.2f, want 1100", report.TotalWage)
	}
}

func TestPreviewDoesNotNeedStoredShift(t *testing.T) {
	svc := newPayrollFixture(t, nil, nil)

	line, err := svc.Preview("09:00", "12:00", nil, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.StaffMinutes != 180 || line.Wage != 3000 {
		t.Errorf("preview = %d min / %.2f, want 180 / 3000", line.StaffMinutes, line.Wage)
	}
}
