package model

import "time"

// SessionStatus tracks the lifecycle of an interview session.
type SessionStatus string

// Session statuses. A session accepts events only while active; the
// transition to completed freezes the event log for metric purposes.
const (
	StatusActive     SessionStatus = "active"
	StatusCompleted  SessionStatus = "completed"
	StatusTerminated SessionStatus = "terminated"
)

// Session is one candidate interview run.
type Session struct {
	ID                string        `json:"session_id"`
	CandidateName     string        `json:"candidate_name"`
	ProblemID         string        `json:"problem_id,omitempty"`
	ProblemDifficulty float64       `json:"problem_difficulty"`
	Status            SessionStatus `json:"status"`
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time,omitzero"`
}

// Interaction is one AI prompt/response pair reconstructed from the
// event log by pairing an AI_PROMPT with the next AI_RESPONSE.
type Interaction struct {
	Prompt    string
	Response  string
	Timestamp time.Time
}

// Interactions derives prompt/response pairs from a chronologically
// ordered event list. A prompt with no following response still yields
// an interaction with an empty response, so every prompt is classified
// exactly once.
func Interactions(events []Event) []Interaction {
	var out []Interaction
	for i, e := range events {
		if e.Kind != KindAIPrompt {
			continue
		}
		in := Interaction{
			Prompt:    e.MetaString(MetaPromptText),
			Timestamp: e.Timestamp,
		}
		for j := i + 1; j < len(events); j++ {
			if events[j].Kind == KindAIResponse {
				in.Response = events[j].MetaString(MetaResponseText)
				break
			}
			if events[j].Kind == KindAIPrompt {
				break
			}
		}
		out = append(out, in)
	}
	return out
}
