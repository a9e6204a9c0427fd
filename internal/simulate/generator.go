package simulate

import (
	"fmt"
	"math/rand"
	"time"
)

// Archetype names a scripted candidate working style. Each archetype
// produces a different event mix, so the scored profiles should spread
// across the classification space.
type Archetype string

// Candidate archetypes.
const (
	ArchetypeIndependent  Archetype = "independent"
	ArchetypeCollaborator Archetype = "collaborator"
	ArchetypeDependent    Archetype = "dependent"
)

// ExpectedProfile returns the profile the scoring engine is likely to
// assign to sessions scripted for this archetype.
func (a Archetype) ExpectedProfile() string {
	switch a {
	case ArchetypeIndependent:
		return "Independent"
	case ArchetypeDependent:
		return "AIDependent"
	default:
		return "HealthyCollaborator"
	}
}

// archetypes cycles per session index.
var archetypes = []Archetype{
	ArchetypeIndependent,
	ArchetypeCollaborator,
	ArchetypeDependent,
}

// Candidate name pool for generated sessions.
var candidateNames = []string{
	"Alex Chen", "Priya Patel", "Jordan Baker", "Sofia Reyes",
	"Marcus Webb", "Yuki Tanaka", "Fatima Noor", "Liam O'Brien",
}

// SQL snippets by rough structural complexity.
var (
	basicQueries = []string{
		"SELECT * FROM orders LIMIT 10",
		"SELECT id, status FROM shipments WHERE status = 'late'",
	}
	intermediateQueries = []string{
		"SELECT c.name, COUNT(*) FROM orders o JOIN customers c ON c.id = o.customer_id GROUP BY c.name",
		"SELECT region, SUM(amount) FROM sales GROUP BY region HAVING SUM(amount) > 1000",
	}
	advancedQueries = []string{
		"WITH late AS (SELECT * FROM shipments WHERE delay > 2) SELECT carrier, COUNT(*) FROM late GROUP BY carrier",
		"SELECT * FROM orders o JOIN (SELECT customer_id, MAX(ts) AS last FROM orders GROUP BY customer_id) m ON m.customer_id = o.customer_id",
	}
)

// Prompt pools per archetype, chosen so the intent classifier sees the
// expected mix: dependents ask for code, collaborators ask concepts.
var (
	dependentPrompts = []string{
		"write the SQL query to find the top customers for me",
		"generate code that joins orders and shipments",
		"give me the full query to compute late deliveries",
	}
	collaboratorPrompts = []string{
		"what is the difference between a left join and an inner join",
		"explain how window functions partition rows",
		"does my approach of aggregating before joining make sense",
	}
	independentPrompts = []string{
		"is it correct that HAVING filters after aggregation",
	}
)

// script is one scripted session.
type script struct {
	Session sessionRequest
	Events  []eventRequest
}

// scriptBuilder accumulates events with strictly increasing timestamps.
type scriptBuilder struct {
	sessionID string
	rng       *rand.Rand
	now       time.Time
	events    []eventRequest
}

func (b *scriptBuilder) add(kind string, meta map[string]any) {
	// 5-40s of scripted "thinking time" between actions.
	b.now = b.now.Add(time.Duration(5+b.rng.Intn(36)) * time.Second)
	b.events = append(b.events, eventRequest{
		EventID:   fmt.Sprintf("%s-evt-%d", b.sessionID, len(b.events)+1),
		SessionID: b.sessionID,
		Kind:      kind,
		TS:        b.now.UTC().Format(time.RFC3339),
		Metadata:  meta,
	})
}

func (b *scriptBuilder) pick(pool []string) string {
	return pool[b.rng.Intn(len(pool))]
}

// buildScript generates one scripted session for the archetype.
func buildScript(index int, arch Archetype, rng *rand.Rand) script {
	id := fmt.Sprintf("sim-%s-%03d", arch, index)
	b := &scriptBuilder{
		sessionID: id,
		rng:       rng,
		now:       time.Now().Add(-1 * time.Hour),
	}

	// Everyone starts with some exploration; dependents skip most of it.
	b.add("SESSION_START", nil)
	exploration := 4 + rng.Intn(3)
	if arch == ArchetypeDependent {
		exploration = 1
	}
	for i := 0; i < exploration; i++ {
		b.add(b.pick([]string{"SCHEMA_EXPLORED", "TABLE_PREVIEWED", "ROW_COUNT_CHECKED", "DATA_QUALITY_CHECKED"}), nil)
	}

	switch arch {
	case ArchetypeIndependent:
		independentScript(b)
	case ArchetypeCollaborator:
		collaboratorScript(b)
	case ArchetypeDependent:
		dependentScript(b)
	}

	b.add("SESSION_COMPLETED", nil)

	return script{
		Session: sessionRequest{
			SessionID:         id,
			CandidateName:     candidateNames[index%len(candidateNames)],
			ProblemID:         fmt.Sprintf("late-shipments-%d", 1+index%3),
			ProblemDifficulty: 1.0,
		},
		Events: b.events,
	}
}

// independentScript: heavy querying and validation, almost no AI use.
func independentScript(b *scriptBuilder) {
	for i := 0; i < 4; i++ {
		b.add("SQL_RUN", map[string]any{"query": b.pick(intermediateQueries)})
		b.add("QUERY_MODIFIED", map[string]any{"query": b.pick(advancedQueries)})
		b.add("SQL_RUN", map[string]any{"query": b.pick(advancedQueries)})
	}
	b.add("ERROR_OCCURRED", map[string]any{"message": "ambiguous column reference"})
	b.add("CODE_EDIT", nil)
	b.add("ERROR_RESOLVED", nil)
	if b.rng.Intn(2) == 0 {
		b.add("AI_PROMPT", map[string]any{"prompt_text": b.pick(independentPrompts)})
		b.add("AI_RESPONSE", map[string]any{"response_text": "yes, HAVING applies after GROUP BY"})
	}
	for i := 0; i < 3; i++ {
		b.add(b.pick([]string{"RESULT_VALIDATED", "SANITY_CHECKED", "EDGE_CASE_TESTED"}), nil)
	}
}

// collaboratorScript: alternates own work with conceptual questions and
// reworks whatever the assistant suggests.
func collaboratorScript(b *scriptBuilder) {
	for i := 0; i < 3; i++ {
		b.add("SQL_RUN", map[string]any{"query": b.pick(intermediateQueries)})
		b.add("AI_PROMPT", map[string]any{"prompt_text": b.pick(collaboratorPrompts)})
		b.add("AI_RESPONSE", map[string]any{"response_text": "an inner join drops unmatched rows"})
		b.add("AI_CODE_MODIFIED", nil)
		b.add("CODE_EDIT", nil)
	}
	b.add("ERROR_OCCURRED", map[string]any{"message": "division by zero"})
	b.add("NULL_HANDLED", nil)
	b.add("ERROR_RESOLVED", nil)
	b.add("RESULT_VALIDATED", nil)
	b.add("VALIDATION_ATTEMPT", nil)
}

// dependentScript: prompts for generated code, copies it verbatim,
// loops back to the assistant whenever something breaks.
func dependentScript(b *scriptBuilder) {
	for i := 0; i < 5; i++ {
		b.add("AI_PROMPT", map[string]any{"prompt_text": b.pick(dependentPrompts)})
		b.add("AI_RESPONSE", map[string]any{"response_text": "SELECT ... FROM orders"})
		b.add("AI_CODE_COPIED", nil)
		b.add("SQL_RUN", map[string]any{"query": b.pick(basicQueries)})
		if i%2 == 1 {
			b.add("ERROR_OCCURRED", map[string]any{"message": "syntax error near FROM"})
			b.add("AI_PROMPT", map[string]any{"prompt_text": "fix this error for me"})
			b.add("AI_RESPONSE", map[string]any{"response_text": "try this corrected query"})
			b.add("AI_CODE_COPIED", nil)
		}
	}
}
