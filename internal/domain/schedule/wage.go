package schedule

import "math"

// WageResult is the paid outcome of one decomposed shift.
type WageResult struct {
	TotalMinutes int     `json:"total_minutes"`
	ClassMinutes int     `json:"class_minutes"`
	TotalWage    float64 `json:"total_wage"`
}

// ComputeWage sums the staff-tagged interval durations and prices them at
// hourlyWage currency units per 60 minutes. Class intervals contribute
// nothing to either output.
//
// Rounding happens exactly once, on the final per-shift amount, so a payslip
// line always equals the sum of its shift lines. Callers aggregating many
// shifts sum already-rounded WageResults. The hourly rate must already be
// resolved; the engine does not know about per-user defaults.
func ComputeWage(intervals []Interval, hourlyWage float64) WageResult {
	var staff, class int
	for _, iv := range intervals {
		switch iv.Kind {
		case IntervalStaff:
			staff += iv.Minutes()
		case IntervalClass:
			class += iv.Minutes()
		}
	}
	return WageResult{
		TotalMinutes: staff,
		ClassMinutes: class,
		TotalWage:    math.Round(float64(staff) / 60.0 * hourlyWage),
	}
}
