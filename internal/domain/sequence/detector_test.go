package sequence_test

import (
	"testing"
	"time"

	"github.com/hirelens/hirelens/internal/domain/model"
	"github.com/hirelens/hirelens/internal/domain/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func eventList(kinds ...model.EventKind) []model.Event {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	out := make([]model.Event, len(kinds))
	for i, k := range kinds {
		out[i] = model.Event{
			Kind:           k,
			Timestamp:      base.Add(time.Duration(i) * 30 * time.Second),
			SequenceNumber: i + 1,
		}
	}
	return out
}

func byType(patterns []sequence.Pattern, t sequence.PatternType) []sequence.Pattern {
	var out []sequence.Pattern
	for _, p := range patterns {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

func TestDetect(t *testing.T) {
	Convey("Given a sequence detector with default windows", t, func() {
		d := sequence.NewDetector()

		Convey("When the event list is empty", func() {
			So(d.Detect(nil), ShouldBeEmpty)
		})

		Convey("When the event list has a single event", func() {
			So(d.Detect(eventList(model.KindSQLRun)), ShouldBeEmpty)
		})

		Convey("When exploration closely precedes a query run", func() {
			patterns := d.Detect(eventList(
				model.KindSchemaExplored,
				model.KindTablePreviewed,
				model.KindSQLRun,
			))

			Convey("Then a data-first pattern is reported with quality 1.0", func() {
				got := byType(patterns, sequence.DataFirst)
				So(got, ShouldHaveLength, 1)
				So(got[0].QualityScore, ShouldEqual, 1.0)
				So(got[0].Span.FirstSeq, ShouldEqual, 1)
				So(got[0].Span.LastSeq, ShouldEqual, 3)
			})
		})

		Convey("When exploration is far from any query run", func() {
			kinds := []model.EventKind{model.KindSchemaExplored}
			for i := 0; i < 6; i++ {
				kinds = append(kinds, model.KindCodeEdit)
			}
			kinds = append(kinds, model.KindSQLRun)
			patterns := d.Detect(eventList(kinds...))

			Convey("Then no data-first pattern is reported", func() {
				So(byType(patterns, sequence.DataFirst), ShouldBeEmpty)
			})
		})

		Convey("When an error is followed by an AI prompt and another error", func() {
			patterns := d.Detect(eventList(
				model.KindErrorOccurred,
				model.KindAIPrompt,
				model.KindErrorOccurred,
				model.KindAIPrompt,
				model.KindErrorOccurred,
			))

			Convey("Then dependency loops are flagged with low quality", func() {
				loops := byType(patterns, sequence.DependencyLoop)
				So(loops, ShouldHaveLength, 2)
				So(loops[0].QualityScore, ShouldEqual, 0.2)
			})
		})

		Convey("When three explorations run back to back", func() {
			patterns := d.Detect(eventList(
				model.KindSchemaExplored,
				model.KindTablePreviewed,
				model.KindDataQualityChecked,
				model.KindSQLRun,
			))

			Convey("Then analysis paralysis is flagged", func() {
				got := byType(patterns, sequence.AnalysisParalysis)
				So(got, ShouldHaveLength, 1)
				So(got[0].EventKinds, ShouldHaveLength, 3)
			})
		})

		Convey("When explorations are interleaved with executions", func() {
			patterns := d.Detect(eventList(
				model.KindSchemaExplored,
				model.KindSQLRun,
				model.KindTablePreviewed,
				model.KindSQLRun,
				model.KindDataQualityChecked,
				model.KindSQLRun,
			))

			Convey("Then no paralysis streak forms", func() {
				So(byType(patterns, sequence.AnalysisParalysis), ShouldBeEmpty)
			})
		})

		Convey("When the session opens with three straight query runs", func() {
			patterns := d.Detect(eventList(
				model.KindSQLRun,
				model.KindSQLRun,
				model.KindSQLRun,
				model.KindSchemaExplored,
			))

			Convey("Then a no-exploration pattern is flagged", func() {
				got := byType(patterns, sequence.NoExploration)
				So(got, ShouldHaveLength, 1)
				So(got[0].QualityScore, ShouldEqual, 0.3)
			})
		})

		Convey("When exploration happens before a query streak", func() {
			patterns := d.Detect(eventList(
				model.KindSchemaExplored,
				model.KindSQLRun,
				model.KindSQLRun,
				model.KindSQLRun,
			))

			Convey("Then the streak is not flagged as no-exploration", func() {
				So(byType(patterns, sequence.NoExploration), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a detector with a custom run length", t, func() {
		d := sequence.NewDetector(sequence.WithRunLength(2))

		Convey("Then two consecutive explorations already form a streak", func() {
			patterns := d.Detect(eventList(
				model.KindSchemaExplored,
				model.KindTablePreviewed,
				model.KindSQLRun,
			))
			So(byType(patterns, sequence.AnalysisParalysis), ShouldHaveLength, 1)
		})
	})
}
