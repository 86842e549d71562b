// Package schedule holds the pure shift-time math: decomposing a shift into
// alternating staff and class intervals, and computing wages from the
// decomposition. Nothing here touches persistence.
package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shiftops/core/internal/domain/entities"
)

type IntervalKind string

const (
	IntervalStaff IntervalKind = "staff"
	IntervalClass IntervalKind = "class"
)

// Interval is one typed slice of a decomposed shift, expressed in minutes
// since midnight so the arithmetic stays exact.
type Interval struct {
	Kind         IntervalKind `json:"kind"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	StartMinutes int          `json:"start_minutes"`
	EndMinutes   int          `json:"end_minutes"`
}

// Minutes is the interval's duration in whole minutes.
func (iv Interval) Minutes() int {
	return iv.EndMinutes - iv.StartMinutes
}

// ParseClock converts an "HH:MM" wall-clock string to minutes since
// midnight. Hours up to 28 are accepted for shifts that run past midnight,
// the convention cram schools use for late slots.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: malformed clock value %q", entities.ErrValidation, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 28 {
		return 0, fmt.Errorf("%w: malformed hour in %q", entities.ErrValidation, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: malformed minute in %q", entities.ErrValidation, s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight back to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Decompose splits the shift range [start, end) around its class slots into
// an ordered, gap-free, non-overlapping sequence of typed intervals that
// covers the range exactly. With zero classes the result is a single staff
// interval. Zero-length staff gaps between adjacent classes are not emitted.
//
// Malformed input is rejected, never clamped or merged: a class slot lying
// outside the shift bounds, an inverted slot, or two slots that overlap each
// other all return an error wrapping entities.ErrValidation.
func Decompose(start, end string, classes []entities.ClassTimeSlot) ([]Interval, error) {
	shiftStart, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	shiftEnd, err := ParseClock(end)
	if err != nil {
		return nil, err
	}
	if shiftEnd <= shiftStart {
		return nil, fmt.Errorf("%w: shift end %s not after start %s", entities.ErrValidation, end, start)
	}

	type span struct{ start, end int }
	spans := make([]span, 0, len(classes))
	for _, c := range classes {
		cs, err := ParseClock(c.StartTime)
		if err != nil {
			return nil, err
		}
		ce, err := ParseClock(c.EndTime)
		if err != nil {
			return nil, err
		}
		if ce <= cs {
			return nil, fmt.Errorf("%w: class end %s not after start %s", entities.ErrValidation, c.EndTime, c.StartTime)
		}
		if cs < shiftStart || ce > shiftEnd {
			return nil, fmt.Errorf("%w: class %s-%s outside shift %s-%s", entities.ErrValidation, c.StartTime, c.EndTime, start, end)
		}
		spans = append(spans, span{cs, ce})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return nil, fmt.Errorf("%w: overlapping classes %s-%s and %s-%s", entities.ErrValidation,
				FormatClock(spans[i-1].start), FormatClock(spans[i-1].end),
				FormatClock(spans[i].start), FormatClock(spans[i].end))
		}
	}

	intervals := make([]Interval, 0, 2*len(spans)+1)
	emit := func(kind IntervalKind, s, e int) {
		intervals = append(intervals, Interval{
			Kind:         kind,
			StartTime:    FormatClock(s),
			EndTime:      FormatClock(e),
			StartMinutes: s,
			EndMinutes:   e,
		})
	}

	cursor := shiftStart
	for _, sp := range spans {
		if sp.start > cursor {
			emit(IntervalStaff, cursor, sp.start)
		}
		emit(IntervalClass, sp.start, sp.end)
		cursor = sp.end
	}
	if cursor < shiftEnd {
		emit(IntervalStaff, cursor, shiftEnd)
	}

	return intervals, nil
}
