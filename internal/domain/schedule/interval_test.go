package schedule

import (
	"errors"
	"testing"

	"github.com/shiftops/core/internal/domain/entities"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"13:30", 810, false},
		{"23:59", 1439, false},
		{"25:00", 1500, false}, // past-midnight convention
		{"28:00", 1680, false},
		{"29:00", 0, true},
		{"9", 0, true},
		{"09:60", 0, true},
		{"-1:00", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) expected error, got %d", tt.input, got)
			} else if !errors.Is(err, entities.ErrValidation) {
				t.Errorf("ParseClock(%q) error should wrap ErrValidation, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestDecomposeNoClasses(t *testing.T) {
	intervals, err := Decompose("09:00", "18:00", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(intervals) != 1 {
		t.Fatalf("expected a single staff interval, got %d", len(intervals))
	}
	iv := intervals[0]
	if iv.Kind != IntervalStaff {
		t.Errorf("expected staff interval, got %s", iv.Kind)
	}
	if iv.StartTime != "09:00" || iv.EndTime != "18:00" {
		t.Errorf("interval should span the whole shift, got %s-%s", iv.StartTime, iv.EndTime)
	}
	if iv.Minutes() != 540 {
		t.Errorf("expected 540 minutes, got %d", iv.Minutes())
	}
}

func TestDecomposeWithClasses(t *testing.T) {
	classes := []entities.ClassTimeSlot{
		{StartTime: "13:00", EndTime: "15:00", Subject: "math"},
	}

	intervals, err := Decompose("09:00", "18:00", classes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		kind  IntervalKind
		start string
		end   string
	}{
		{IntervalStaff, "09:00", "13:00"},
		{IntervalClass, "13:00", "15:00"},
		{IntervalStaff, "15:00", "18:00"},
	}

	if len(intervals) != len(want) {
		t.Fatalf("expected %d intervals, got %d", len(want), len(intervals))
	}
	for i, w := range want {
		iv := intervals[i]
		if iv.Kind != w.kind || iv.StartTime != w.start || iv.EndTime != w.end {
			t.Errorf("interval %d = %s %s-%s, want %s %s-%s", i, iv.Kind, iv.StartTime, iv.EndTime, w.kind, w.start, w.end)
		}
	}
}

func TestDecomposeAdjacentClasses(t *testing.T) {
	// Back to back classes must not produce a zero-length staff gap.
	classes := []entities.ClassTimeSlot{
		{StartTime: "12:00", EndTime: "13:00"},
		{StartTime: "13:00", EndTime: "14:00"},
	}

	intervals, err := Decompose("10:00", "16:00", classes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, iv := range intervals {
		if iv.Minutes() <= 0 {
			t.Errorf("zero-length interval emitted: %s %s-%s", iv.Kind, iv.StartTime, iv.EndTime)
		}
	}
	if len(intervals) != 4 {
		t.Fatalf("expected 4 intervals, got %d", len(intervals))
	}
}

func TestDecomposeCoversShiftExactly(t *testing.T) {
	classes := []entities.ClassTimeSlot{
		{StartTime: "17:00", EndTime: "18:30"},
		{StartTime: "19:00", EndTime: "20:30"},
	}

	intervals, err := Decompose("16:00", "22:00", classes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shiftStart, _ := ParseClock("16:00")
	shiftEnd, _ := ParseClock("22:00")

	cursor := shiftStart
	for i, iv := range intervals {
		if iv.StartMinutes != cursor {
			t.Errorf("interval %d starts at %d, cursor at %d: gap or overlap", i, iv.StartMinutes, cursor)
		}
		if iv.EndMinutes <= iv.StartMinutes {
			t.Errorf("interval %d is inverted or empty", i)
		}
		cursor = iv.EndMinutes
	}
	if cursor != shiftEnd {
		t.Errorf("decomposition ends at %d, want %d", cursor, shiftEnd)
	}

	// Classes sorted by start regardless of input order.
	reversed := []entities.ClassTimeSlot{classes[1], classes[0]}
	again, err := Decompose("16:00", "22:00", reversed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != len(intervals) {
		t.Fatalf("input order changed the decomposition")
	}
	for i := range again {
		if again[i] != intervals[i] {
			t.Errorf("interval %d differs between input orders", i)
		}
	}
}

func TestDecomposeFullShiftClass(t *testing.T) {
	classes := []entities.ClassTimeSlot{{StartTime: "09:00", EndTime: "18:00"}}

	intervals, err := Decompose("09:00", "18:00", classes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(intervals) != 1 || intervals[0].Kind != IntervalClass {
		t.Fatalf("expected one class interval, got %+v", intervals)
	}
}

func TestDecomposeRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		classes []entities.ClassTimeSlot
	}{
		{"inverted shift", "18:00", "09:00", nil},
		{"empty shift", "09:00", "09:00", nil},
		{"class before shift", "09:00", "18:00", []entities.ClassTimeSlot{{StartTime: "08:00", EndTime: "10:00"}}},
		{"class after shift", "09:00", "18:00", []entities.ClassTimeSlot{{StartTime: "17:00", EndTime: "19:00"}}},
		{"inverted class", "09:00", "18:00", []entities.ClassTimeSlot{{StartTime: "14:00", EndTime: "13:00"}}},
		{"empty class", "09:00", "18:00", []entities.ClassTimeSlot{{StartTime: "13:00", EndTime: "13:00"}}},
		{"overlapping classes", "09:00", "18:00", []entities.ClassTimeSlot{
			{StartTime: "10:00", EndTime: "12:00"},
			{StartTime: "11:00", EndTime: "13:00"},
		}},
		{"malformed class clock", "09:00", "18:00", []entities.ClassTimeSlot{{StartTime: "1000", EndTime: "12:00"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(tt.start, tt.end, tt.classes)
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if !errors.Is(err, entities.ErrValidation) {
				t.Errorf("error should wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(540); got != "09:00" {
		t.Errorf("FormatClock(540) = %q", got)
	}
	if got := FormatClock(1500); got != "25:00" {
		t.Errorf("FormatClock(1500) = %q", got)
	}
}
