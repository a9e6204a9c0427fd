// Package scoring reduces a session's frozen event list into the nine
// confidence-weighted behavioral metrics.
package scoring

import "time"

// Metric names, used as report keys and threshold-table lookups.
const (
	MetricExploration     = "exploration"
	MetricIteration       = "iteration"
	MetricDebugging       = "debugging"
	MetricValidation      = "validation"
	MetricSQLComplexity   = "sql_complexity"
	MetricAIReliance      = "ai_reliance"
	MetricAICollaboration = "ai_collaboration"
	MetricResilience      = "resilience"
	MetricIndependence    = "independence"
)

// InterpretationInsufficient labels any metric computed from zero
// observations.
const InterpretationInsufficient = "insufficient_data"

// Band holds the cutoffs and confidence tuning for one metric. High
// and Low split the value range into three interpretation bands;
// OptimalSample feeds the confidence curve.
type Band struct {
	High          float64 `koanf:"high"`
	Low           float64 `koanf:"low"`
	OptimalSample int     `koanf:"optimal_sample"`
}

// Table is the single named threshold table for the whole calculator.
// Every cutoff the metrics use lives here so the numbers can be
// calibrated from real candidate baselines without touching
// computation code.
type Table struct {
	Exploration     Band `koanf:"exploration"`
	Iteration       Band `koanf:"iteration"`
	Debugging       Band `koanf:"debugging"`
	Validation      Band `koanf:"validation"`
	SQLComplexity   Band `koanf:"sql_complexity"`
	AIReliance      Band `koanf:"ai_reliance"`
	AICollaboration Band `koanf:"ai_collaboration"`
	Resilience      Band `koanf:"resilience"`
	Independence    Band `koanf:"independence"`

	// EarlyExplorationWeight boosts exploration that happens before
	// the candidate's first query.
	EarlyExplorationWeight float64 `koanf:"early_exploration_weight"`

	// MeaningfulEditGap is the minimum spacing between edits for the
	// later edit to count as a distinct iteration.
	MeaningfulEditGap time.Duration `koanf:"meaningful_edit_gap"`
}

// DefaultTable returns the calibrated default thresholds.
func DefaultTable() Table {
	return Table{
		Exploration:     Band{High: 0.4, Low: 0.15, OptimalSample: 15},
		Iteration:       Band{High: 0.35, Low: 0.1, OptimalSample: 10},
		Debugging:       Band{High: 0.65, Low: 0.35, OptimalSample: 8},
		Validation:      Band{High: 0.3, Low: 0.1, OptimalSample: 10},
		SQLComplexity:   Band{OptimalSample: 10},
		AIReliance:      Band{High: 0.6, Low: 0.25, OptimalSample: 10},
		AICollaboration: Band{High: 0.6, Low: 0.3, OptimalSample: 8},
		Resilience:      Band{High: 0.75, Low: 0.35, OptimalSample: 8},
		Independence:    Band{High: 0.7, Low: 0.4, OptimalSample: 10},

		EarlyExplorationWeight: 1.5,
		MeaningfulEditGap:      10 * time.Second,
	}
}

// interpret labels a value where higher is better.
func (b Band) interpret(value float64, aboveHigh, mid, belowLow string) string {
	switch {
	case value > b.High:
		return aboveHigh
	case value > b.Low:
		return mid
	default:
		return belowLow
	}
}

// interpretInverse labels a value where lower is better.
func (b Band) interpretInverse(value float64, belowLow, mid, aboveHigh string) string {
	switch {
	case value < b.Low:
		return belowLow
	case value < b.High:
		return mid
	default:
		return aboveHigh
	}
}
