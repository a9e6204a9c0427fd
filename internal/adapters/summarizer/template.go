package summarizer

import (
	"context"

	"github.com/hirelens/hirelens/internal/domain/report"
)

// Template is the no-model summarizer: it returns the report's
// deterministic template narrative. Used when no Gemini model is
// configured, so the rest of the pipeline never special-cases a missing
// summarizer.
type Template struct{}

var _ report.Summarizer = Template{}

// Summarize implements report.Summarizer.
func (Template) Summarize(_ context.Context, r *report.Report) (string, error) {
	return report.TemplateNarrative(r), nil
}
