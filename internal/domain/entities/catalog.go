package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type CatalogTaskType string

const (
	CatalogTaskStandard     CatalogTaskType = "standard"
	CatalogTaskTimeSpecific CatalogTaskType = "time_specific"
	CatalogTaskCustom       CatalogTaskType = "custom"
)

func (t CatalogTaskType) IsValid() bool {
	switch t {
	case CatalogTaskStandard, CatalogTaskTimeSpecific, CatalogTaskCustom:
		return true
	default:
		return false
	}
}

// TimeRange restricts when a time_specific catalog task may be performed.
type TimeRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TimeRanges is stored as a JSONB column.
type TimeRanges []TimeRange

func (r TimeRanges) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

func (r *TimeRanges) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into TimeRanges", src)
	}
}

// ExtendedTask is a catalog task definition, a template used to compute
// expected effort per shift. It is never scheduled itself; board tasks are a
// separate entity.
type ExtendedTask struct {
	ID                   int             `json:"id" db:"id"`
	Title                string          `json:"title" db:"title"`
	Type                 CatalogTaskType `json:"type" db:"type"`
	BaseTimeMinutes      int             `json:"base_time_minutes" db:"base_time_minutes"`
	BaseCountPerShift    int             `json:"base_count_per_shift" db:"base_count_per_shift"`
	RestrictedTimeRanges TimeRanges      `json:"restricted_time_ranges" db:"restricted_time_ranges"`
	Priority             Priority        `json:"priority" db:"priority"`
	Difficulty           int             `json:"difficulty" db:"difficulty"`
	Tags                 []string        `json:"tags" db:"tags"`
	ValidFrom            *time.Time      `json:"valid_from" db:"valid_from"`
	ValidTo              *time.Time      `json:"valid_to" db:"valid_to"`
	IsActive             bool            `json:"is_active" db:"is_active"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

// IsValidAt reports whether the template is active and inside its validity
// window at the given instant.
func (e *ExtendedTask) IsValidAt(at time.Time) bool {
	if !e.IsActive {
		return false
	}
	if e.ValidFrom != nil && at.Before(*e.ValidFrom) {
		return false
	}
	if e.ValidTo != nil && at.After(*e.ValidTo) {
		return false
	}
	return true
}

// ExpectedMinutesPerShift is the effort budget this template contributes to
// one shift.
func (e *ExtendedTask) ExpectedMinutesPerShift() int {
	return e.BaseTimeMinutes * e.BaseCountPerShift
}
