// Package report assembles the recruiter-facing behavioral report from
// a completed session's event log.
//
// Reports are immutable once assembled. Everything externally visible
// is plain language: interpretation labels and evidence sentences, no
// formulas and no raw event vocabulary.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hirelens/hirelens/internal/domain/intent"
	"github.com/hirelens/hirelens/internal/domain/model"
	"github.com/hirelens/hirelens/internal/domain/profile"
	"github.com/hirelens/hirelens/internal/domain/scoring"
	"github.com/hirelens/hirelens/internal/domain/sequence"
)

// DefaultLowConfidence is the confidence below which a metric earns a
// data quality note.
const DefaultLowConfidence = 0.3

// Report is the complete scored output for one session.
type Report struct {
	SessionID     string    `json:"session_id"`
	CandidateName string    `json:"candidate_name"`
	ProblemID     string    `json:"problem_id,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`

	Metrics         map[string]scoring.Metric `json:"metrics"`
	Sequences       []sequence.Pattern        `json:"sequences"`
	IntentBreakdown map[intent.Intent]int     `json:"intent_breakdown,omitempty"`

	Profile            profile.Profile `json:"profile"`
	ProfileDescription string          `json:"profile_description"`

	OverallConfidence float64  `json:"overall_confidence"`
	DataQualityNotes  []string `json:"data_quality_notes"`
	Evidence          []string `json:"evidence"`
	Narrative         string   `json:"narrative"`
}

// Summarizer turns an assembled report into recruiter prose. The
// assembler itself never calls one; callers layer it on top and must
// treat failures as non-fatal.
type Summarizer interface {
	Summarize(ctx context.Context, r *Report) (string, error)
}

// Assembler builds reports under a fixed calculator, detector and
// cutoff configuration.
type Assembler struct {
	calc          *scoring.Calculator
	detector      *sequence.Detector
	cutoffs       profile.Cutoffs
	lowConfidence float64
	now           func() time.Time
}

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithCalculator sets the metrics calculator.
func WithCalculator(c *scoring.Calculator) Option {
	return func(a *Assembler) {
		if c != nil {
			a.calc = c
		}
	}
}

// WithDetector sets the sequence pattern detector.
func WithDetector(d *sequence.Detector) Option {
	return func(a *Assembler) {
		if d != nil {
			a.detector = d
		}
	}
}

// WithCutoffs sets the profile classification boundaries.
func WithCutoffs(c profile.Cutoffs) Option {
	return func(a *Assembler) { a.cutoffs = c }
}

// WithLowConfidence sets the data-quality note threshold.
func WithLowConfidence(v float64) Option {
	return func(a *Assembler) {
		if v > 0 && v < 1 {
			a.lowConfidence = v
		}
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAssembler creates an Assembler with default components.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		calc:          scoring.NewCalculator(),
		detector:      sequence.NewDetector(),
		cutoffs:       profile.DefaultCutoffs(),
		lowConfidence: DefaultLowConfidence,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble scores the frozen event list and builds the full report.
// Deterministic for a given event list: assembling twice yields the same
// report apart from the timestamp.
func (a *Assembler) Assemble(sess model.Session, events []model.Event) *Report {
	// Scoring and pattern detection are independent passes over the
	// same frozen list.
	var (
		res      scoring.Result
		patterns []sequence.Pattern
	)
	var g errgroup.Group
	g.Go(func() error {
		res = a.calc.Compute(events, sess.ProblemDifficulty)
		return nil
	})
	g.Go(func() error {
		patterns = a.detector.Detect(events)
		return nil
	})
	_ = g.Wait()

	prof := profile.Classify(res.Metrics, a.cutoffs)

	r := &Report{
		SessionID:          sess.ID,
		CandidateName:      sess.CandidateName,
		ProblemID:          sess.ProblemID,
		GeneratedAt:        a.now().UTC(),
		Metrics:            res.Metrics,
		Sequences:          patterns,
		IntentBreakdown:    res.IntentBreakdown,
		Profile:            prof,
		ProfileDescription: prof.Description(),
		OverallConfidence:  overallConfidence(res.Metrics),
		DataQualityNotes:   a.qualityNotes(res.Metrics),
		Evidence:           buildEvidence(res.Metrics, patterns),
	}
	r.Narrative = TemplateNarrative(r)
	return r
}

// overallConfidence is the sample-size-weighted mean of the per-metric
// confidences. With no observations at all it degrades to the plain
// mean, which is itself near zero.
func overallConfidence(metrics map[string]scoring.Metric) float64 {
	var weighted, weight, plain float64
	for _, m := range metrics {
		weighted += m.Confidence * float64(m.SampleSize)
		weight += float64(m.SampleSize)
		plain += m.Confidence
	}
	if weight > 0 {
		return weighted / weight
	}
	if len(metrics) == 0 {
		return 0
	}
	return plain / float64(len(metrics))
}

// qualityNotes flags every metric whose confidence falls below the
// threshold, in stable name order.
func (a *Assembler) qualityNotes(metrics map[string]scoring.Metric) []string {
	notes := []string{}
	for _, name := range sortedNames(metrics) {
		m := metrics[name]
		if m.Confidence >= a.lowConfidence {
			continue
		}
		notes = append(notes, fmt.Sprintf(
			"Limited evidence for %s: only %d relevant observation(s), treat this score with caution.",
			humanize(name), m.SampleSize))
	}
	return notes
}

// buildEvidence renders one plain-language sentence per sufficiently
// observed metric, then one per detected pattern.
func buildEvidence(metrics map[string]scoring.Metric, patterns []sequence.Pattern) []string {
	evidence := []string{}
	for _, name := range sortedNames(metrics) {
		m := metrics[name]
		if m.Interpretation == scoring.InterpretationInsufficient {
			continue
		}
		evidence = append(evidence, fmt.Sprintf(
			"%s: %s, based on %d observation(s).",
			titleCase(humanize(name)), humanize(m.Interpretation), m.SampleSize))
	}
	for _, p := range patterns {
		if s := patternEvidence(p); s != "" {
			evidence = append(evidence, s)
		}
	}
	return evidence
}

func patternEvidence(p sequence.Pattern) string {
	switch p.Type {
	case sequence.DataFirst:
		return "Investigated the data before querying it."
	case sequence.DependencyLoop:
		return "Turned to the assistant between repeated failures instead of debugging directly."
	case sequence.AnalysisParalysis:
		return "Spent a long stretch exploring without executing anything."
	case sequence.NoExploration:
		return "Started querying without looking at the data first."
	default:
		return ""
	}
}

func sortedNames(metrics map[string]scoring.Metric) []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// humanize turns a snake_case label into plain words.
func humanize(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), "_", " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
