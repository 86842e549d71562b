package performance

import "testing"

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)

	if summary.Level != LevelNoData {
		t.Errorf("level = %s, want no_data", summary.Level)
	}
	if summary.Score != 0 || summary.RecordCount != 0 || summary.TotalExecutions != 0 {
		t.Errorf("empty aggregate should be zero-valued, got %+v", summary)
	}
}

func TestScoreWeights(t *testing.T) {
	// Only efficiency set: 100 * 0.25 = 25.
	r := Record{EfficiencyRate: 100}
	if got := Score(r); got != 25 {
		t.Errorf("efficiency-only score = %.2f, want 25", got)
	}

	// All rates equal collapse to that rate since weights sum to 1.
	r = Record{
		EfficiencyRate:  60,
		ProactivityRate: 60,
		FrequencyRate:   60,
		ConsistencyRate: 60,
		CompletionRate:  60,
		AccuracyRate:    60,
	}
	if got := Score(r); got != 60 {
		t.Errorf("uniform score = %.2f, want 60", got)
	}
}

func TestAggregateAveragesRecords(t *testing.T) {
	records := []Record{
		{EfficiencyRate: 100, ProactivityRate: 100, FrequencyRate: 100, ConsistencyRate: 100, CompletionRate: 100, AccuracyRate: 100, TotalExecutions: 10},
		{TotalExecutions: 5},
	}

	summary := Aggregate(records)

	if summary.Score != 50 {
		t.Errorf("score = %.1f, want 50", summary.Score)
	}
	if summary.Level != LevelMedium {
		t.Errorf("level = %s, want medium", summary.Level)
	}
	if summary.RecordCount != 2 {
		t.Errorf("record count = %d, want 2", summary.RecordCount)
	}
	if summary.TotalExecutions != 15 {
		t.Errorf("executions = %d, want 15", summary.TotalExecutions)
	}
}

func TestAggregateLevels(t *testing.T) {
	uniform := func(rate float64) Record {
		return Record{
			EfficiencyRate:  rate,
			ProactivityRate: rate,
			FrequencyRate:   rate,
			ConsistencyRate: rate,
			CompletionRate:  rate,
			AccuracyRate:    rate,
		}
	}

	tests := []struct {
		rate float64
		want Level
	}{
		{95, LevelHigh},
		{80, LevelHigh},
		{79.9, LevelMedium},
		{50, LevelMedium},
		{49.9, LevelLow},
		{0, LevelLow},
	}

	for _, tt := range tests {
		summary := Aggregate([]Record{uniform(tt.rate)})
		if summary.Level != tt.want {
			t.Errorf("rate %.1f: level = %s, want %s", tt.rate, summary.Level, tt.want)
		}
	}
}

func TestAggregateRoundsToOneDecimal(t *testing.T) {
	records := []Record{
		{EfficiencyRate: 100}, // 25
		{EfficiencyRate: 50},  // 12.5
		{EfficiencyRate: 33},  // 8.25
	}
	// Mean is 15.25, rounded to 15.3.
	summary := Aggregate(records)
	if summary.Score != 15.3 {
		t.Errorf("score = %v, want 15.3", summary.Score)
	}
}
