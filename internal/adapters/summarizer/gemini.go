// Package summarizer generates recruiter prose from assembled reports.
//
// The Gemini client here is optional: the service runs fine without it,
// serving the deterministic template narrative. When configured, prose
// generation is asynchronous and a failure leaves the report untouched.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/hirelens/hirelens/internal/domain/report"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("summarizer: empty model response")

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

const promptHeader = `You are writing a short hiring note for a recruiter.
Below is a behavioral assessment of a candidate from a data-engineering
interview session. Write 3-4 sentences of plain, factual prose for a
non-technical reader. Do not invent facts beyond the assessment, do not
mention scores or numbers, and do not address the candidate directly.`

// Gemini summarizes reports with the Gemini API.
type Gemini struct {
	cli   *genai.Client
	model string
}

var _ report.Summarizer = (*Gemini)(nil)

// NewGemini creates a Gemini-backed summarizer. The API key is read by
// the client from its environment.
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{cli: cli, model: model}, nil
}

// Summarize implements report.Summarizer.
func (g *Gemini) Summarize(ctx context.Context, r *report.Report) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: buildPrompt(r)}}}},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("generate narrative: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// buildPrompt feeds the model only sanitized report fields, never raw
// events or queries.
func buildPrompt(r *report.Report) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\n[ASSESSMENT]\n")
	fmt.Fprintf(&b, "Working style: %s. %s\n", r.Profile.Label(), r.ProfileDescription)
	if len(r.Evidence) > 0 {
		b.WriteString("Observations:\n")
		for _, e := range r.Evidence {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	if len(r.DataQualityNotes) > 0 {
		b.WriteString("Caveats:\n")
		for _, n := range r.DataQualityNotes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return b.String()
}
