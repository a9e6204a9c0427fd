// Package intent classifies AI assistant interactions by what the
// candidate was asking for.
//
// The classifier is a pluggable strategy: the keyword implementation
// here can be swapped for a model-based one without changing the
// metrics calculator's contract.
package intent

import "strings"

// Intent is the purpose category of one AI prompt/response pair.
type Intent string

// Interaction intents.
const (
	ConceptualHelp  Intent = "conceptual"
	HintRequest     Intent = "hint"
	DebugAssistance Intent = "debug"
	CodeGeneration  Intent = "code_gen"
	Validation      Intent = "validation"
	Explanation     Intent = "explanation"
)

// Intents returns every intent, highest dependency weight first.
func Intents() []Intent {
	return []Intent{CodeGeneration, DebugAssistance, ConceptualHelp, Explanation, HintRequest, Validation}
}

// dependencyWeights express how much each intent leans on the assistant.
// Asking for finished code is full dependency; asking whether an
// approach is right is nearly none.
var dependencyWeights = map[Intent]float64{
	CodeGeneration:  1.0,
	DebugAssistance: 0.7,
	ConceptualHelp:  0.5,
	Explanation:     0.4,
	HintRequest:     0.3,
	Validation:      0.2,
}

// DependencyWeight returns the dependency weight for in. Unknown
// intents weigh as Explanation, the classifier's fallback.
func (in Intent) DependencyWeight() float64 {
	if w, ok := dependencyWeights[in]; ok {
		return w
	}
	return dependencyWeights[Explanation]
}

// Classifier assigns exactly one intent to a prompt. Implementations
// must be total: unclassifiable input gets a fallback intent, never an
// error.
type Classifier interface {
	Classify(prompt string) Intent
}

// KeywordClassifier classifies prompts by lexical pattern matching.
// Keyword lists are checked in a fixed priority order so a prompt
// matching several lists classifies deterministically.
type KeywordClassifier struct {
	rules []keywordRule
}

type keywordRule struct {
	intent   Intent
	keywords []string
}

// Option applies a configuration option to the KeywordClassifier.
type Option func(*KeywordClassifier)

// WithKeywords replaces the keyword list for one intent, keeping the
// priority order. Empty lists are ignored.
func WithKeywords(in Intent, keywords []string) Option {
	return func(c *KeywordClassifier) {
		if len(keywords) == 0 {
			return
		}
		for i := range c.rules {
			if c.rules[i].intent == in {
				c.rules[i].keywords = keywords
			}
		}
	}
}

// NewKeywordClassifier creates a classifier with the default keyword
// lists. The defaults are calibration constants, not ground truth;
// override them per deployment as baselines accumulate.
func NewKeywordClassifier(opts ...Option) *KeywordClassifier {
	c := &KeywordClassifier{
		rules: []keywordRule{
			{HintRequest, []string{"hint", "clue", "nudge", "point me", "guide me"}},
			{DebugAssistance, []string{"error", "bug", "broken", "wrong", "fix", "debug", "traceback", "exception"}},
			{CodeGeneration, []string{"write the", "write a", "give me the", "generate", "create the query", "code for", "full query", "full solution"}},
			{Validation, []string{"is this right", "is this correct", "is that right", "check my", "validate", "verify", "does this look"}},
			{ConceptualHelp, []string{"what is", "what does", "why does", "how does", "difference between", "when should"}},
			{Explanation, []string{"explain", "walk me through", "what happened", "meaning of"}},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify assigns an intent to the prompt. Every prompt classifies
// exactly once; anything that matches no keyword list falls back to
// Explanation.
func (c *KeywordClassifier) Classify(prompt string) Intent {
	p := strings.ToLower(prompt)
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(p, kw) {
				return rule.intent
			}
		}
	}
	return Explanation
}
