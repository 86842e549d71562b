package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/domain/schedule"
	"github.com/shiftops/core/internal/infrastructure/config"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// ShiftLine is the payroll breakdown of one shift: its decomposition plus
// the already-rounded wage.
type ShiftLine struct {
	ShiftID      int                  `json:"shift_id"`
	Date         string               `json:"date"`
	Status       entities.ShiftStatus `json:"status"`
	Intervals    []schedule.Interval  `json:"intervals"`
	StaffMinutes int                  `json:"staff_minutes"`
	ClassMinutes int                  `json:"class_minutes"`
	Wage         float64              `json:"wage"`
}

// PayrollReport is one user's wage summary over a date range. TotalWage is
// the sum of per-shift rounded amounts, so it always equals the sum of the
// lines.
type PayrollReport struct {
	UserID       uuid.UUID   `json:"user_id"`
	DisplayName  string      `json:"display_name"`
	HourlyWage   float64     `json:"hourly_wage"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	Lines        []ShiftLine `json:"lines"`
	StaffMinutes int         `json:"staff_minutes"`
	ClassMinutes int         `json:"class_minutes"`
	TotalWage    float64     `json:"total_wage"`
}

// PayrollService computes wage reports from completed shift decompositions.
type PayrollService struct {
	shiftRepo ports.ShiftRepository
	userRepo  ports.UserRepository
	cfg       config.PayrollConfig
	logger    *logger.Logger
}

// NewPayrollService creates a new payroll service.
func NewPayrollService(shiftRepo ports.ShiftRepository, userRepo ports.UserRepository, cfg config.PayrollConfig, logger *logger.Logger) *PayrollService {
	return &PayrollService{
		shiftRepo: shiftRepo,
		userRepo:  userRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

// Report builds a payroll report for one user over [from, to], both
// "YYYY-MM-DD" inclusive. Only approved and completed shifts are paid. The
// hourly rate is the user's configured rate, falling back to the configured
// business default.
func (s *PayrollService) Report(ctx context.Context, userID uuid.UUID, from, to string) (*PayrollReport, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate := s.cfg.DefaultHourlyWage
	if user.HourlyWage != nil {
		rate = *user.HourlyWage
	}

	shifts, err := s.shiftRepo.GetUserShifts(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	report := &PayrollReport{
		UserID:      userID,
		DisplayName: user.DisplayName,
		HourlyWage:  rate,
		From:        from,
		To:          to,
		Lines:       []ShiftLine{},
	}

	for _, shift := range shifts {
		if shift.Status != entities.ShiftStatusApproved && shift.Status != entities.ShiftStatusCompleted {
			continue
		}

		intervals, err := schedule.Decompose(shift.StartTime, shift.EndTime, shift.Classes)
		if err != nil {
			// A stored shift that no longer decomposes is a data problem,
			// not a payroll one. Skip it loudly rather than fail the report.
			s.logger.Errorw("Stored shift failed decomposition", "shift_id", shift.ID, "error", err)
			continue
		}

		result := schedule.ComputeWage(intervals, rate)
		report.Lines = append(report.Lines, ShiftLine{
			ShiftID:      shift.ID,
			Date:         shift.Date,
			Status:       shift.Status,
			Intervals:    intervals,
			StaffMinutes: result.TotalMinutes,
			ClassMinutes: result.ClassMinutes,
			Wage:         result.TotalWage,
		})
		report.StaffMinutes += result.TotalMinutes
		report.ClassMinutes += result.ClassMinutes
		report.TotalWage += result.TotalWage
	}

	s.logger.Infow("Payroll report built", "user_id", userID, "from", from, "to", to, "lines", len(report.Lines), "total_wage", report.TotalWage)
	return report, nil
}

// Preview decomposes an arbitrary time range and prices it at the given
// rate, without touching stored shifts. Used by schedule editors to show the
// wage impact of an edit before it is saved.
func (s *PayrollService) Preview(startTime, endTime string, classes []entities.ClassTimeSlot, hourlyWage float64) (*ShiftLine, error) {
	if hourlyWage <= 0 {
		hourlyWage = s.cfg.DefaultHourlyWage
	}

	intervals, err := schedule.Decompose(startTime, endTime, classes)
	if err != nil {
		return nil, err
	}

	result := schedule.ComputeWage(intervals, hourlyWage)
	return &ShiftLine{
		Intervals:    intervals,
		StaffMinutes: result.TotalMinutes,
		ClassMinutes: result.ClassMinutes,
		Wage:         result.TotalWage,
	}, nil
}
