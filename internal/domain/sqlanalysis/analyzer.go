// Package sqlanalysis extracts structural features from SQL query text.
//
// The analysis is purely lexical: it never executes or fully parses the
// query, and malformed or empty input yields a zero-complexity result
// instead of an error so a bad query can never abort report generation.
package sqlanalysis

import (
	"strings"
	"unicode"
)

// Category buckets a query's structural complexity.
type Category string

// Complexity categories, simplest first.
const (
	CategoryBasic        Category = "basic"
	CategoryIntermediate Category = "intermediate"
	CategoryAdvanced     Category = "advanced"
	CategoryExpert       Category = "expert"
)

// Feature weights for the complexity score.
const (
	joinWeight      = 2.0
	nestingWeight   = 3.0
	cteWeight       = 4.0
	aggregateWeight = 1.5
	windowWeight    = 5.0
)

// Thresholds holds the category cutoffs. Kept as one named table so the
// boundaries can be calibrated from real candidate data without
// touching analysis code.
type Thresholds struct {
	Expert       float64 `koanf:"expert"`
	Advanced     float64 `koanf:"advanced"`
	Intermediate float64 `koanf:"intermediate"`
}

// DefaultThresholds returns the calibrated default cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Expert: 13, Advanced: 8, Intermediate: 4}
}

// Categorize maps a complexity score to its category.
func (t Thresholds) Categorize(score float64) Category {
	switch {
	case score >= t.Expert:
		return CategoryExpert
	case score >= t.Advanced:
		return CategoryAdvanced
	case score >= t.Intermediate:
		return CategoryIntermediate
	default:
		return CategoryBasic
	}
}

// Analysis is the structural breakdown of one query.
type Analysis struct {
	JoinDepth       int      `json:"join_depth"`
	NestingLevel    int      `json:"nesting_level"`
	CTECount        int      `json:"cte_count"`
	Aggregations    int      `json:"aggregations"`
	WindowFunctions int      `json:"window_functions"`
	Complexity      float64  `json:"complexity_score"`
	Category        Category `json:"category"`
}

// aggregate function names counted toward aggregation complexity.
var aggregateFuncs = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
	"STDDEV": true, "VARIANCE": true,
}

// Analyzer computes structural analyses under one threshold table.
type Analyzer struct {
	thresholds Thresholds
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithThresholds overrides the default category cutoffs.
func WithThresholds(t Thresholds) Option {
	return func(a *Analyzer) {
		if t.Expert > 0 && t.Advanced > 0 && t.Intermediate > 0 {
			a.thresholds = t
		}
	}
}

// NewAnalyzer creates an Analyzer with the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze extracts structural features from raw query text. Pure
// function over the text; safe on empty and malformed input.
func (a *Analyzer) Analyze(query string) Analysis {
	var out Analysis
	upper := strings.ToUpper(query)

	// Paren frames: a frame opened right after AS holds a CTE body,
	// whose depth does not count toward subquery nesting.
	type frame struct{ cte bool }
	var stack []frame
	cteOpen := 0

	prev2, prev1 := "", ""
	flushWord := func(word string) {
		if word == "" {
			return
		}
		switch word {
		case "JOIN":
			out.JoinDepth++
		case "SELECT":
			depth := len(stack) - cteOpen
			if depth > out.NestingLevel {
				out.NestingLevel = depth
			}
		case "AS":
			if prev2 == "WITH" && prev1 != "" {
				out.CTECount++
			}
		}
		prev2, prev1 = prev1, word
	}

	var word strings.Builder
	for _, r := range upper {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
			continue
		}
		flushWord(word.String())
		word.Reset()
		switch r {
		case '(':
			f := frame{cte: prev1 == "AS"}
			if aggregateFuncs[prev1] {
				out.Aggregations++
			}
			if prev1 == "OVER" {
				out.WindowFunctions++
			}
			if f.cte {
				cteOpen++
			}
			stack = append(stack, f)
		case ')':
			if n := len(stack); n > 0 {
				if stack[n-1].cte {
					cteOpen--
				}
				stack = stack[:n-1]
			}
		}
	}
	flushWord(word.String())

	out.Complexity = float64(out.JoinDepth)*joinWeight +
		float64(out.NestingLevel)*nestingWeight +
		float64(out.CTECount)*cteWeight +
		float64(out.Aggregations)*aggregateWeight +
		float64(out.WindowFunctions)*windowWeight
	out.Category = a.thresholds.Categorize(out.Complexity)
	return out
}
