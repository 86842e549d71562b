// Package performance rolls up per-user-per-task execution records into an
// overall score and a discrete performance level.
package performance

import "math"

type Level string

const (
	LevelNoData Level = "no_data"
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Record carries the rates (0-100) tracked for one user on one catalog task.
type Record struct {
	UserID          string  `json:"user_id"`
	TaskID          int     `json:"task_id"`
	EfficiencyRate  float64 `json:"efficiency_rate"`
	ProactivityRate float64 `json:"proactivity_rate"`
	FrequencyRate   float64 `json:"frequency_rate"`
	ConsistencyRate float64 `json:"consistency_rate"`
	CompletionRate  float64 `json:"completion_rate"`
	AccuracyRate    float64 `json:"accuracy_rate"`
	TotalExecutions int     `json:"total_executions"`
}

// Summary is the aggregated outcome across a set of records.
type Summary struct {
	Score           float64 `json:"score"`
	Level           Level   `json:"level"`
	RecordCount     int     `json:"record_count"`
	TotalExecutions int     `json:"total_executions"`
}

// Fixed weights for the overall score, summing to 1. Efficiency and
// consistency dominate because they are the rates least gameable by raw
// execution volume.
const (
	weightEfficiency  = 0.25
	weightConsistency = 0.20
	weightProactivity = 0.20
	weightFrequency   = 0.15
	weightCompletion  = 0.10
	weightAccuracy    = 0.10
)

// Level thresholds on the 0-100 score scale.
const (
	thresholdHigh   = 80.0
	thresholdMedium = 50.0
)

// Score computes the weighted overall score for a single record.
func Score(r Record) float64 {
	return r.EfficiencyRate*weightEfficiency +
		r.ConsistencyRate*weightConsistency +
		r.ProactivityRate*weightProactivity +
		r.FrequencyRate*weightFrequency +
		r.CompletionRate*weightCompletion +
		r.AccuracyRate*weightAccuracy
}

// Aggregate averages the per-record scores into one summary. Zero records
// yield the no-data sentinel rather than NaN.
func Aggregate(records []Record) Summary {
	if len(records) == 0 {
		return Summary{Level: LevelNoData}
	}

	var total float64
	var executions int
	for _, r := range records {
		total += Score(r)
		executions += r.TotalExecutions
	}

	score := math.Round(total/float64(len(records))*10) / 10
	return Summary{
		Score:           score,
		Level:           levelFor(score),
		RecordCount:     len(records),
		TotalExecutions: executions,
	}
}

func levelFor(score float64) Level {
	switch {
	case score >= thresholdHigh:
		return LevelHigh
	case score >= thresholdMedium:
		return LevelMedium
	default:
		return LevelLow
	}
}
