package simulate

import "time"

// Config holds configuration for the session simulator.
type Config struct {
	BaseURL  string        // Base URL of the service
	Sessions int           // Number of sessions to simulate
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     int64         // Seed for deterministic scripts
	Verbose  bool          // Enable verbose logging
}

// sessionRequest mirrors POST /api/sessions.
type sessionRequest struct {
	SessionID         string  `json:"session_id,omitempty"`
	CandidateName     string  `json:"candidate_name"`
	ProblemID         string  `json:"problem_id,omitempty"`
	ProblemDifficulty float64 `json:"problem_difficulty,omitempty"`
}

// sessionResponse mirrors the created session.
type sessionResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// eventRequest mirrors POST /api/events.
type eventRequest struct {
	EventID   string         `json:"event_id"`
	SessionID string         `json:"session_id"`
	Kind      string         `json:"kind"`
	TS        string         `json:"ts,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ackResponse mirrors the ingestion acknowledgement.
type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// reportResponse carries the fields the simulator verifies.
type reportResponse struct {
	SessionID         string         `json:"session_id"`
	Profile           string         `json:"profile"`
	OverallConfidence float64        `json:"overall_confidence"`
	Metrics           map[string]any `json:"metrics"`
	Narrative         string         `json:"narrative"`
}

// Stats holds simulation statistics.
type Stats struct {
	SessionsRun     int
	EventsSubmitted int
	EventsFailed    int
	ReportsFetched  int
	ProfileMatches  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
