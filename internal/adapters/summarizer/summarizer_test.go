package summarizer

import (
	"context"
	"strings"
	"testing"

	"github.com/hirelens/hirelens/internal/domain/profile"
	"github.com/hirelens/hirelens/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleReport() *report.Report {
	return &report.Report{
		SessionID:          "s-1",
		CandidateName:      "Jordan",
		Profile:            profile.HealthyCollaborator,
		ProfileDescription: profile.HealthyCollaborator.Description(),
		Evidence: []string{
			"Debugging: strong debugger, based on 4 observation(s).",
			"Investigated the data before querying it.",
		},
		DataQualityNotes: []string{
			"Limited evidence for ai collaboration: only 1 relevant observation(s), treat this score with caution.",
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	Convey("Given an assembled report", t, func() {
		prompt := buildPrompt(sampleReport())

		Convey("Then the prompt carries profile, evidence and caveats", func() {
			So(prompt, ShouldContainSubstring, "healthy collaborator")
			So(prompt, ShouldContainSubstring, "strong debugger")
			So(prompt, ShouldContainSubstring, "Caveats:")
		})

		Convey("Then instruction text precedes the assessment", func() {
			So(strings.Index(prompt, "[ASSESSMENT]"), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a report with no evidence", t, func() {
		prompt := buildPrompt(&report.Report{Profile: profile.Independent})

		Convey("Then the optional sections are omitted", func() {
			So(prompt, ShouldNotContainSubstring, "Observations:")
			So(prompt, ShouldNotContainSubstring, "Caveats:")
		})
	})
}

func TestTemplateSummarizer(t *testing.T) {
	Convey("Given the template summarizer", t, func() {
		r := sampleReport()
		r.Narrative = report.TemplateNarrative(r)

		prose, err := Template{}.Summarize(context.Background(), r)

		Convey("Then it returns the deterministic narrative without error", func() {
			So(err, ShouldBeNil)
			So(prose, ShouldEqual, report.TemplateNarrative(r))
		})
	})
}
