// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hirelens/hirelens/internal/domain/model"
	"github.com/hirelens/hirelens/internal/domain/report"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session lifecycle.
	CreateSession(ctx context.Context, sess model.Session) (model.Session, error)
	Session(ctx context.Context, id string) (model.Session, error)
	Sessions(ctx context.Context) ([]model.Session, error)
	CompleteSession(ctx context.Context, id string) (*report.Report, error)

	// Event ingestion and retrieval.
	IngestEvent(ctx context.Context, e model.Event) (model.Event, error)
	Events(ctx context.Context, sessionID string) ([]model.Event, error)

	// Report retrieval.
	Report(ctx context.Context, id string) (*report.Report, error)

	// Subscribe opens a live feed of one session's ingested events.
	Subscribe(sessionID string) (<-chan model.Event, func())
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
	eventsHandler   *EventsHandler
	reportsHandler  *ReportsHandler
	liveHandler     *LiveHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sessionsHandler: NewSessionsHandler(deps),
		eventsHandler:   NewEventsHandler(deps),
		reportsHandler:  NewReportsHandler(deps),
		liveHandler:     NewLiveHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /api/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreateSession, "sessions"))
	mux.HandleFunc("GET /api/sessions", MetricsMiddleware(s.sessionsHandler.HandleListSessions, "sessions"))
	mux.HandleFunc("GET /api/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGetSession, "session"))
	mux.HandleFunc("POST /api/sessions/{id}/complete", MetricsMiddleware(s.sessionsHandler.HandleCompleteSession, "complete"))

	mux.HandleFunc("POST /api/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("GET /api/sessions/{id}/events", MetricsMiddleware(s.eventsHandler.HandleListEvents, "events"))

	mux.HandleFunc("GET /api/sessions/{id}/report", MetricsMiddleware(s.reportsHandler.HandleGetReport, "report"))
	mux.HandleFunc("GET /api/sessions/{id}/live", s.liveHandler.HandleLive)
}

type ackResponse struct {
	Status         string `json:"status"`
	EventID        string `json:"event_id,omitempty"`
	SequenceNumber int    `json:"sequence_number,omitempty"`
	Duplicate      bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
