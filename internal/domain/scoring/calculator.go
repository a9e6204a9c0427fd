package scoring

import (
	"github.com/hirelens/hirelens/internal/domain/confidence"
	"github.com/hirelens/hirelens/internal/domain/intent"
	"github.com/hirelens/hirelens/internal/domain/model"
	"github.com/hirelens/hirelens/internal/domain/sqlanalysis"
)

// Metric is one scored behavioral dimension. Value carries the raw
// normalized score; Confidence discounts it by how much evidence backed
// it; SampleSize is the count of observations the denominator saw.
type Metric struct {
	Value          float64 `json:"value"`
	Confidence     float64 `json:"confidence"`
	SampleSize     int     `json:"sample_size"`
	Interpretation string  `json:"interpretation"`
}

// Result bundles the nine metrics with the supporting evidence the
// report layer surfaces alongside them.
type Result struct {
	Metrics         map[string]Metric      `json:"metrics"`
	QueryAnalyses   []sqlanalysis.Analysis `json:"query_analyses,omitempty"`
	IntentBreakdown map[intent.Intent]int  `json:"intent_breakdown,omitempty"`
}

// Calculator computes behavioral metrics from a session's frozen event
// list. Stateless across calls; one calculator serves all sessions.
type Calculator struct {
	table      Table
	analyzer   *sqlanalysis.Analyzer
	classifier intent.Classifier
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithTable overrides the default threshold table.
func WithTable(t Table) Option {
	return func(c *Calculator) { c.table = t }
}

// WithAnalyzer sets the SQL analyzer used for query complexity.
func WithAnalyzer(a *sqlanalysis.Analyzer) Option {
	return func(c *Calculator) {
		if a != nil {
			c.analyzer = a
		}
	}
}

// WithClassifier sets the intent classifier used for AI reliance.
func WithClassifier(cl intent.Classifier) Option {
	return func(c *Calculator) {
		if cl != nil {
			c.classifier = cl
		}
	}
}

// NewCalculator creates a Calculator with default thresholds, analyzer
// and classifier.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		table:      DefaultTable(),
		analyzer:   sqlanalysis.NewAnalyzer(),
		classifier: intent.NewKeywordClassifier(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute scores the event list under the given problem difficulty.
// Difficulty scales every rate metric so harder problems do not read as
// weaker behavior; values outside the supported range are clamped and
// non-positive values fall back to 1.0.
func (c *Calculator) Compute(events []model.Event, difficulty float64) Result {
	d := normalizeDifficulty(difficulty)
	counts := countKinds(events)

	res := Result{Metrics: make(map[string]Metric, 9)}

	res.Metrics[MetricExploration] = c.exploration(events, counts, d)
	res.Metrics[MetricIteration] = c.iteration(events, counts, d)
	res.Metrics[MetricDebugging] = c.debugging(counts, d)
	res.Metrics[MetricValidation] = c.validation(counts, d)

	sqlMetric, analyses := c.sqlComplexity(events, d)
	res.Metrics[MetricSQLComplexity] = sqlMetric
	res.QueryAnalyses = analyses

	reliance, breakdown := c.aiReliance(events, d)
	res.Metrics[MetricAIReliance] = reliance
	res.IntentBreakdown = breakdown

	res.Metrics[MetricAICollaboration] = c.aiCollaboration(counts, d)
	res.Metrics[MetricResilience] = c.resilience(counts, d)
	res.Metrics[MetricIndependence] = c.independence(reliance)

	return res
}

func normalizeDifficulty(d float64) float64 {
	switch {
	case d <= 0:
		return 1.0
	case d < 0.5:
		return 0.5
	case d > 1.5:
		return 1.5
	default:
		return d
	}
}

func countKinds(events []model.Event) map[model.EventKind]int {
	counts := make(map[model.EventKind]int, len(events))
	for _, e := range events {
		counts[e.Kind]++
	}
	return counts
}

// metric assembles a Metric from its raw value, sample size and band.
// Zero observations always read as insufficient data regardless of the
// value the formula produced.
func metric(value float64, sample int, b Band, interpretation string) Metric {
	if sample == 0 {
		interpretation = InterpretationInsufficient
	}
	return Metric{
		Value:          value,
		Confidence:     confidence.FromSampleSize(sample, b.OptimalSample),
		SampleSize:     sample,
		Interpretation: interpretation,
	}
}

// exploration measures data investigation per query. Exploration before
// the candidate's first query weighs extra: checking the data before
// touching it is the behavior the metric exists to reward.
func (c *Calculator) exploration(events []model.Event, counts map[model.EventKind]int, d float64) Metric {
	firstQuery := -1
	for i, e := range events {
		if e.Kind == model.KindSQLRun {
			firstQuery = i
			break
		}
	}

	weighted := 0.0
	for i, e := range events {
		switch e.Kind {
		case model.KindSchemaExplored, model.KindTablePreviewed, model.KindDataQualityChecked:
			if firstQuery < 0 || i < firstQuery {
				weighted += c.table.EarlyExplorationWeight
			} else {
				weighted++
			}
		}
	}

	runs := counts[model.KindSQLRun]
	value := weighted / float64(runs+1) / d
	b := c.table.Exploration
	return metric(value, runs, b, b.interpret(value, "data_first_approach", "some_exploration", "query_first_approach"))
}

// iteration counts meaningful refinement cycles per query. Edits landing
// closer together than the configured gap collapse into one iteration to
// filter keystroke noise.
func (c *Calculator) iteration(events []model.Event, counts map[model.EventKind]int, d float64) Metric {
	meaningful := 0
	var last *model.Event
	for i, e := range events {
		switch e.Kind {
		case model.KindCodeEdit, model.KindQueryModified, model.KindApproachChanged,
			model.KindBacktracked, model.KindValidationAttempt:
		default:
			continue
		}
		if last == nil || e.Timestamp.Sub(last.Timestamp) >= c.table.MeaningfulEditGap {
			meaningful++
		}
		last = &events[i]
	}

	runs := counts[model.KindSQLRun]
	value := float64(meaningful) / float64(runs+1) / d
	b := c.table.Iteration
	return metric(value, runs, b, b.interpret(value, "iterative_refiner", "some_iteration", "one_shot_attempts"))
}

// debugging measures how many encountered errors the candidate resolved.
func (c *Calculator) debugging(counts map[model.EventKind]int, d float64) Metric {
	errs := counts[model.KindErrorOccurred]
	value := float64(counts[model.KindErrorResolved]) / float64(errs+1) / d
	b := c.table.Debugging
	return metric(value, errs, b, b.interpret(value, "strong_debugger", "moderate_debugging", "struggles_with_errors"))
}

// validation measures result checking per query.
func (c *Calculator) validation(counts map[model.EventKind]int, d float64) Metric {
	checks := counts[model.KindResultValidated] + counts[model.KindResultCompared] +
		counts[model.KindOutlierDetected] + counts[model.KindNullHandled]
	runs := counts[model.KindSQLRun]
	value := float64(checks) / float64(runs+1) / d
	b := c.table.Validation
	return metric(value, runs, b, b.interpret(value, "thorough_validator", "some_validation", "minimal_validation"))
}

// sqlComplexity averages the structural complexity of every executed
// query. The interpretation is the modal category across queries.
func (c *Calculator) sqlComplexity(events []model.Event, d float64) (Metric, []sqlanalysis.Analysis) {
	var analyses []sqlanalysis.Analysis
	total := 0.0
	for _, e := range events {
		if e.Kind != model.KindSQLRun {
			continue
		}
		a := c.analyzer.Analyze(e.MetaString(model.MetaQuery))
		analyses = append(analyses, a)
		total += a.Complexity
	}

	n := len(analyses)
	b := c.table.SQLComplexity
	if n == 0 {
		return metric(0, 0, b, ""), nil
	}

	value := total / float64(n) / d
	return metric(value, n, b, string(modalCategory(analyses))), analyses
}

func modalCategory(analyses []sqlanalysis.Analysis) sqlanalysis.Category {
	counts := map[sqlanalysis.Category]int{}
	for _, a := range analyses {
		counts[a.Category]++
	}
	// Ties resolve toward the more complex category.
	order := []sqlanalysis.Category{
		sqlanalysis.CategoryExpert, sqlanalysis.CategoryAdvanced,
		sqlanalysis.CategoryIntermediate, sqlanalysis.CategoryBasic,
	}
	best := sqlanalysis.CategoryBasic
	bestN := -1
	for _, cat := range order {
		if counts[cat] > bestN {
			best, bestN = cat, counts[cat]
		}
	}
	return best
}

// aiReliance weighs every AI interaction by how much its intent leans on
// the assistant. Lower is better here, so the interpretation bands run
// inverted.
func (c *Calculator) aiReliance(events []model.Event, d float64) (Metric, map[intent.Intent]int) {
	interactions := model.Interactions(events)
	breakdown := make(map[intent.Intent]int)
	total := 0.0
	for _, in := range interactions {
		it := c.classifier.Classify(in.Prompt)
		breakdown[it]++
		total += it.DependencyWeight()
	}

	n := len(interactions)
	value := total / float64(n+1) / d
	b := c.table.AIReliance
	m := metric(value, n, b, b.interpretInverse(value, "strategic_ai_usage", "moderate_ai_reliance", "high_ai_dependency"))
	if n == 0 {
		breakdown = nil
	}
	return m, breakdown
}

// aiCollaboration rewards modifying assistant output and penalizes
// verbatim copying.
func (c *Calculator) aiCollaboration(counts map[model.EventKind]int, d float64) Metric {
	used := counts[model.KindAIResponseUsed]
	modRate := float64(counts[model.KindAICodeModified]) / float64(used+1)
	copyPenalty := 0.5 * float64(counts[model.KindAICodeCopied]) / float64(used+1)
	value := max(0, modRate-copyPenalty) / d
	b := c.table.AICollaboration
	return metric(value, used, b, b.interpret(value, "thoughtful_ai_collaboration", "some_modification", "passive_ai_copying"))
}

// resilience measures recovery actions per obstacle encountered.
func (c *Calculator) resilience(counts map[model.EventKind]int, d float64) Metric {
	recoveries := counts[model.KindErrorResolved] + counts[model.KindApproachChanged] +
		counts[model.KindBacktracked] + counts[model.KindBreakthrough]
	obstacles := counts[model.KindDeadEndReached] + counts[model.KindErrorOccurred]
	value := float64(recoveries) / float64(obstacles+1) / d
	b := c.table.Resilience
	return metric(value, obstacles, b, b.interpret(value, "resilient_recovery", "moderate_recovery", "easily_blocked"))
}

// independence is the clamped complement of AI reliance. It derives from
// the already-normalized reliance value, so the two always account for
// the same evidence and the same difficulty scaling.
func (c *Calculator) independence(reliance Metric) Metric {
	value := 1 - reliance.Value
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	b := c.table.Independence
	m := metric(value, reliance.SampleSize, b, b.interpret(value, "independent_worker", "balanced_collaboration", "ai_dependent"))
	m.Confidence = reliance.Confidence
	return m
}
