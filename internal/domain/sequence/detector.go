// Package sequence detects named behavioral patterns in the ordered
// event stream of a session.
//
// Order matters here: the same event counts tell a different story
// depending on whether exploration happened before or after the first
// query. The detector makes one pass over the chronological list with
// bounded lookahead windows and always terminates, including on empty
// and single-event lists.
package sequence

import (
	"time"

	"github.com/hirelens/hirelens/internal/domain/model"
)

// PatternType names a recognized behavioral sequence.
type PatternType string

// Known pattern types.
const (
	DataFirst         PatternType = "data_first"
	DependencyLoop    PatternType = "ai_dependency_loop"
	AnalysisParalysis PatternType = "analysis_paralysis"
	NoExploration     PatternType = "no_exploration"
)

// Quality scores per pattern. Scores live in [0,1]; low scores flag
// concerning tendencies.
const (
	dataFirstQuality         = 1.0
	dependencyLoopQuality    = 0.2
	analysisParalysisQuality = 0.4
	noExplorationQuality     = 0.3
)

// Default window sizes.
const (
	defaultExploreLookahead = 5 // events between exploration and the query it informs
	defaultLoopLookahead    = 2 // events between loop stages
	defaultRunLength        = 3 // consecutive events that make a streak
)

// Span marks the region of the event list a pattern covers.
type Span struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	FirstSeq int       `json:"first_seq"`
	LastSeq  int       `json:"last_seq"`
}

// Pattern is one detected behavioral sequence. Derived and read-only;
// recomputed per report. EventKinds carry the raw event vocabulary and
// stay out of the marshaled shape: externally facing documents hold
// only the pattern type, its span and its quality score.
type Pattern struct {
	Type         PatternType       `json:"pattern_type"`
	EventKinds   []model.EventKind `json:"-"`
	Span         Span              `json:"event_span"`
	QualityScore float64           `json:"quality_score"`
}

// Detector scans event lists for behavioral patterns.
type Detector struct {
	exploreLookahead int
	loopLookahead    int
	runLength        int
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithExploreLookahead sets how many events after an exploration still
// count as "closely preceding" a query run.
func WithExploreLookahead(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.exploreLookahead = n
		}
	}
}

// WithRunLength sets the streak length for paralysis and
// no-exploration detection.
func WithRunLength(n int) Option {
	return func(d *Detector) {
		if n > 1 {
			d.runLength = n
		}
	}
}

// NewDetector creates a Detector with default windows.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		exploreLookahead: defaultExploreLookahead,
		loopLookahead:    defaultLoopLookahead,
		runLength:        defaultRunLength,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func isExploration(e model.Event) bool {
	return e.Kind.Category() == model.CategoryExploration
}

func isQueryRun(e model.Event) bool {
	return e.Kind == model.KindSQLRun
}

// Detect scans the chronologically ordered event list and returns every
// detected pattern. Empty and single-event lists yield an empty result.
func (d *Detector) Detect(events []model.Event) []Pattern {
	patterns := []Pattern{}
	if len(events) < 2 {
		return patterns
	}
	if p, ok := d.detectDataFirst(events); ok {
		patterns = append(patterns, p)
	}
	patterns = append(patterns, d.detectDependencyLoops(events)...)
	patterns = append(patterns, d.detectStreaks(events)...)
	return patterns
}

// detectDataFirst finds exploration events closely followed by a query
// run and folds all matches into one pattern spanning from the first
// informing exploration to the last informed query.
func (d *Detector) detectDataFirst(events []model.Event) (Pattern, bool) {
	var first, last *model.Event
	for i := range events {
		if !isExploration(events[i]) {
			continue
		}
		limit := min(i+d.exploreLookahead+1, len(events))
		for j := i + 1; j < limit; j++ {
			if isQueryRun(events[j]) {
				if first == nil {
					first = &events[i]
				}
				last = &events[j]
				break
			}
		}
	}
	if first == nil {
		return Pattern{}, false
	}
	return Pattern{
		Type:         DataFirst,
		EventKinds:   []model.EventKind{first.Kind, model.KindSQLRun},
		Span:         spanOf(*first, *last),
		QualityScore: dataFirstQuality,
	}, true
}

// detectDependencyLoops finds error → AI prompt → error again within a
// short window. Matches do not overlap: scanning resumes past each hit.
func (d *Detector) detectDependencyLoops(events []model.Event) []Pattern {
	var patterns []Pattern
	i := 0
	for i < len(events) {
		if events[i].Kind != model.KindErrorOccurred {
			i++
			continue
		}
		promptIdx := indexWithin(events, i+1, d.loopLookahead, model.KindAIPrompt)
		if promptIdx < 0 {
			i++
			continue
		}
		errIdx := indexWithin(events, promptIdx+1, d.loopLookahead, model.KindErrorOccurred)
		if errIdx < 0 {
			i++
			continue
		}
		patterns = append(patterns, Pattern{
			Type:         DependencyLoop,
			EventKinds:   []model.EventKind{model.KindErrorOccurred, model.KindAIPrompt, model.KindErrorOccurred},
			Span:         spanOf(events[i], events[errIdx]),
			QualityScore: dependencyLoopQuality,
		})
		i = errIdx
	}
	return patterns
}

// detectStreaks finds runs of exploration events with no intervening
// execution (analysis paralysis) and runs of consecutive query
// executions in a session with no prior exploration at all
// (no-exploration).
func (d *Detector) detectStreaks(events []model.Event) []Pattern {
	var patterns []Pattern

	explorationSeen := false
	var exploreRun, queryRun []int // indexes of the current streaks

	flushExplore := func() {
		if len(exploreRun) >= d.runLength {
			patterns = append(patterns, Pattern{
				Type:         AnalysisParalysis,
				EventKinds:   kindsAt(events, exploreRun),
				Span:         spanOf(events[exploreRun[0]], events[exploreRun[len(exploreRun)-1]]),
				QualityScore: analysisParalysisQuality,
			})
		}
		exploreRun = nil
	}
	flushQueries := func() {
		if len(queryRun) >= d.runLength && !explorationSeen {
			patterns = append(patterns, Pattern{
				Type:         NoExploration,
				EventKinds:   kindsAt(events, queryRun),
				Span:         spanOf(events[queryRun[0]], events[queryRun[len(queryRun)-1]]),
				QualityScore: noExplorationQuality,
			})
		}
		queryRun = nil
	}

	for i := range events {
		switch {
		case isExploration(events[i]):
			flushQueries()
			exploreRun = append(exploreRun, i)
			explorationSeen = true
		case isQueryRun(events[i]):
			flushExplore()
			queryRun = append(queryRun, i)
		case events[i].Kind.Category() == model.CategoryExecution:
			// Any execution breaks an exploration streak; other event
			// kinds (edits, idle, chat) do not.
			flushExplore()
			flushQueries()
		default:
			flushQueries()
		}
	}
	flushExplore()
	flushQueries()
	return patterns
}

func kindsAt(events []model.Event, idx []int) []model.EventKind {
	out := make([]model.EventKind, len(idx))
	for i, j := range idx {
		out[i] = events[j].Kind
	}
	return out
}

func spanOf(first, last model.Event) Span {
	return Span{
		Start:    first.Timestamp,
		End:      last.Timestamp,
		FirstSeq: first.SequenceNumber,
		LastSeq:  last.SequenceNumber,
	}
}

// indexWithin returns the index of the first event with the given kind
// in events[from : from+window], or -1.
func indexWithin(events []model.Event, from, window int, kind model.EventKind) int {
	limit := min(from+window, len(events))
	for i := from; i < limit; i++ {
		if events[i].Kind == kind {
			return i
		}
	}
	return -1
}
