package scoring_test

import (
	"testing"
	"time"

	"github.com/hirelens/hirelens/internal/domain/model"
	"github.com/hirelens/hirelens/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var sessionStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func spaced(kinds ...model.EventKind) []model.Event {
	out := make([]model.Event, len(kinds))
	for i, k := range kinds {
		out[i] = model.Event{
			Kind:           k,
			Timestamp:      sessionStart.Add(time.Duration(i) * time.Minute),
			SequenceNumber: i + 1,
		}
	}
	return out
}

func TestComputeResilience(t *testing.T) {
	Convey("Given two errors, three resolutions and one approach change", t, func() {
		c := scoring.NewCalculator()
		events := spaced(
			model.KindErrorOccurred,
			model.KindErrorResolved,
			model.KindErrorOccurred,
			model.KindErrorResolved,
			model.KindErrorResolved,
			model.KindApproachChanged,
		)

		Convey("Then resilience is recoveries over obstacles plus one", func() {
			m := c.Compute(events, 1.0).Metrics[scoring.MetricResilience]
			So(m.Value, ShouldAlmostEqual, 4.0/3.0)
			So(m.SampleSize, ShouldEqual, 2)
			So(m.Interpretation, ShouldEqual, "resilient_recovery")
		})
	})
}

func TestComputeIterationGap(t *testing.T) {
	c := scoring.NewCalculator()

	edit := func(offset time.Duration) model.Event {
		return model.Event{Kind: model.KindCodeEdit, Timestamp: sessionStart.Add(offset)}
	}

	Convey("Given two edits three seconds apart", t, func() {
		events := []model.Event{edit(0), edit(3 * time.Second)}

		Convey("Then they collapse into one meaningful iteration", func() {
			m := c.Compute(events, 1.0).Metrics[scoring.MetricIteration]
			So(m.Value, ShouldAlmostEqual, 1.0) // 1 / (0 runs + 1)
		})
	})

	Convey("Given two edits fifteen seconds apart", t, func() {
		events := []model.Event{edit(0), edit(15 * time.Second)}

		Convey("Then both count", func() {
			m := c.Compute(events, 1.0).Metrics[scoring.MetricIteration]
			So(m.Value, ShouldAlmostEqual, 2.0)
		})
	})
}

func TestComputeIndependenceComplement(t *testing.T) {
	Convey("Given a session with AI interactions", t, func() {
		c := scoring.NewCalculator()
		events := []model.Event{
			{Kind: model.KindAIPrompt, Timestamp: sessionStart,
				Metadata: map[string]any{model.MetaPromptText: "write the query for me"}},
			{Kind: model.KindAIResponse, Timestamp: sessionStart.Add(time.Second),
				Metadata: map[string]any{model.MetaResponseText: "SELECT 1"}},
			{Kind: model.KindAIPrompt, Timestamp: sessionStart.Add(time.Minute),
				Metadata: map[string]any{model.MetaPromptText: "is this right?"}},
		}

		res := c.Compute(events, 1.0)

		Convey("Then independence and reliance sum to one", func() {
			reliance := res.Metrics[scoring.MetricAIReliance]
			indep := res.Metrics[scoring.MetricIndependence]
			So(indep.Value+reliance.Value, ShouldAlmostEqual, 1.0)
			So(indep.SampleSize, ShouldEqual, reliance.SampleSize)
			So(indep.Confidence, ShouldAlmostEqual, reliance.Confidence)
		})

		Convey("Then the intent breakdown covers every interaction", func() {
			total := 0
			for _, n := range res.IntentBreakdown {
				total += n
			}
			So(total, ShouldEqual, 2)
		})
	})
}

func TestComputeEmptySession(t *testing.T) {
	Convey("Given an empty event list", t, func() {
		res := scoring.NewCalculator().Compute(nil, 1.0)

		Convey("Then every metric reports insufficient data with low confidence", func() {
			So(res.Metrics, ShouldHaveLength, 9)
			for _, m := range res.Metrics {
				So(m.SampleSize, ShouldEqual, 0)
				So(m.Interpretation, ShouldEqual, scoring.InterpretationInsufficient)
				So(m.Confidence, ShouldBeGreaterThan, 0)
				So(m.Confidence, ShouldBeLessThan, 0.1)
			}
		})
	})
}

func TestComputeDifficultyScaling(t *testing.T) {
	Convey("Given identical events at two difficulties", t, func() {
		c := scoring.NewCalculator()
		events := spaced(
			model.KindErrorOccurred,
			model.KindErrorResolved,
		)

		easy := c.Compute(events, 1.0).Metrics[scoring.MetricDebugging]
		hard := c.Compute(events, 1.5).Metrics[scoring.MetricDebugging]

		Convey("Then the harder problem scales the rate down", func() {
			So(hard.Value, ShouldAlmostEqual, easy.Value/1.5)
		})

		Convey("Then confidence depends only on the sample size", func() {
			So(hard.Confidence, ShouldAlmostEqual, easy.Confidence)
		})
	})

	Convey("Given an out-of-range difficulty", t, func() {
		c := scoring.NewCalculator()
		events := spaced(model.KindErrorOccurred, model.KindErrorResolved)

		Convey("Then zero falls back to the neutral scale", func() {
			m0 := c.Compute(events, 0).Metrics[scoring.MetricDebugging]
			m1 := c.Compute(events, 1.0).Metrics[scoring.MetricDebugging]
			So(m0.Value, ShouldAlmostEqual, m1.Value)
		})
	})
}

func TestComputeSQLComplexity(t *testing.T) {
	Convey("Given query runs carrying query text", t, func() {
		c := scoring.NewCalculator()
		events := []model.Event{
			{Kind: model.KindSQLRun, Timestamp: sessionStart,
				Metadata: map[string]any{model.MetaQuery: "SELECT * FROM orders"}},
			{Kind: model.KindSQLRun, Timestamp: sessionStart.Add(time.Minute),
				Metadata: map[string]any{model.MetaQuery: "SELECT a FROM t1 JOIN t2 ON t1.id = t2.id"}},
		}

		res := c.Compute(events, 1.0)

		Convey("Then the metric averages per-query complexity", func() {
			m := res.Metrics[scoring.MetricSQLComplexity]
			So(m.SampleSize, ShouldEqual, 2)
			So(m.Value, ShouldAlmostEqual, 1.0) // (0 + 2) / 2
			So(res.QueryAnalyses, ShouldHaveLength, 2)
		})

		Convey("Then the interpretation is the modal category", func() {
			So(res.Metrics[scoring.MetricSQLComplexity].Interpretation, ShouldEqual, "basic")
		})
	})
}

func TestComputeExplorationWeighting(t *testing.T) {
	Convey("Given exploration before and after the first query", t, func() {
		c := scoring.NewCalculator()
		events := spaced(
			model.KindSchemaExplored, // early, weighted 1.5
			model.KindSQLRun,
			model.KindTablePreviewed, // late, weighted 1.0
		)

		Convey("Then early exploration weighs extra", func() {
			m := c.Compute(events, 1.0).Metrics[scoring.MetricExploration]
			So(m.Value, ShouldAlmostEqual, (1.5+1.0)/2.0) // / (1 run + 1)
			So(m.SampleSize, ShouldEqual, 1)
		})
	})
}

func TestComputeCollaboration(t *testing.T) {
	Convey("Given modified and copied AI responses", t, func() {
		c := scoring.NewCalculator()
		events := spaced(
			model.KindAIResponseUsed,
			model.KindAIResponseUsed,
			model.KindAICodeModified,
			model.KindAICodeModified,
			model.KindAICodeCopied,
		)

		Convey("Then copying discounts the modification rate", func() {
			m := c.Compute(events, 1.0).Metrics[scoring.MetricAICollaboration]
			// 2/3 modified minus 0.5 * 1/3 copied
			So(m.Value, ShouldAlmostEqual, 2.0/3.0-0.5/3.0)
			So(m.SampleSize, ShouldEqual, 2)
		})
	})

	Convey("Given only copied responses", t, func() {
		c := scoring.NewCalculator()
		events := spaced(
			model.KindAIResponseUsed,
			model.KindAICodeCopied,
			model.KindAICodeCopied,
			model.KindAICodeCopied,
		)

		Convey("Then the score floors at zero", func() {
			m := c.Compute(events, 1.0).Metrics[scoring.MetricAICollaboration]
			So(m.Value, ShouldEqual, 0)
			So(m.Interpretation, ShouldEqual, "passive_ai_copying")
		})
	})
}
