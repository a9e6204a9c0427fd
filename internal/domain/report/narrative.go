package report

import (
	"fmt"
	"strings"

	"github.com/hirelens/hirelens/internal/domain/scoring"
)

// TemplateNarrative renders the deterministic fallback prose for a
// report. It is the narrative of last resort: always available, built
// only from sanitized report fields, and what the generative summarizer
// degrades to on any failure.
func TemplateNarrative(r *Report) string {
	var b strings.Builder

	name := r.CandidateName
	if name == "" {
		name = "The candidate"
	}

	fmt.Fprintf(&b, "%s presents as a %s. %s", name, r.Profile.Label(), r.ProfileDescription)

	if s := strongestMetric(r.Metrics); s != "" {
		fmt.Fprintf(&b, " The strongest signal in this session was %s.", s)
	}

	switch {
	case r.OverallConfidence >= 0.7:
		b.WriteString(" The session produced enough activity to score these behaviors with good confidence.")
	case r.OverallConfidence >= 0.4:
		b.WriteString(" Evidence for these scores is moderate; a longer session would sharpen them.")
	default:
		b.WriteString(" This session was too short for confident scoring; treat the profile as provisional.")
	}

	if len(r.DataQualityNotes) > 0 {
		fmt.Fprintf(&b, " %d of the scored behaviors had limited supporting evidence.", len(r.DataQualityNotes))
	}

	return b.String()
}

// strongestMetric picks the best-evidenced high interpretation to lead
// the narrative with. Inverse metrics are skipped: a high reliance value
// is not a strength.
func strongestMetric(metrics map[string]scoring.Metric) string {
	best := ""
	bestScore := 0.0
	for _, name := range sortedNames(metrics) {
		if name == scoring.MetricAIReliance {
			continue
		}
		m := metrics[name]
		if m.Interpretation == scoring.InterpretationInsufficient {
			continue
		}
		if score := m.Value * m.Confidence; score > bestScore {
			best, bestScore = humanize(m.Interpretation), score
		}
	}
	return best
}
