package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hirelens/hirelens/internal/adapters/repository"
	service "github.com/hirelens/hirelens/internal/app"
	"github.com/hirelens/hirelens/internal/domain/model"
)

// EventsHandler handles event ingestion and retrieval requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the OpenAPI schema for POST /api/events.
type eventRequest struct {
	EventID   string         `json:"event_id"`
	SessionID string         `json:"session_id"`
	Kind      string         `json:"kind"`
	TS        string         `json:"ts"`
	Metadata  map[string]any `json:"metadata"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.SessionID) == "":
		return errors.New("missing session_id")
	case strings.TrimSpace(e.Kind) == "":
		return errors.New("missing kind")
	}
	if e.TS != "" {
		if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

// HandlePostEvent handles POST /api/events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	e := model.Event{
		ID:        req.EventID,
		SessionID: req.SessionID,
		Kind:      model.EventKind(req.Kind),
		Metadata:  req.Metadata,
	}
	if req.TS != "" {
		ts, _ := time.Parse(time.RFC3339, req.TS)
		e.Timestamp = ts
	}

	appended, err := h.deps.IngestEvent(r.Context(), e)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEvent):
			writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", EventID: req.EventID, Duplicate: true})
		case errors.Is(err, service.ErrInvalidEvent):
			writeError(w, http.StatusBadRequest, "bad_request", err)
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, repository.ErrSessionCompleted):
			writeError(w, http.StatusConflict, "session_completed", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal", err)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{
		Status:         "accepted",
		EventID:        appended.ID,
		SequenceNumber: appended.SequenceNumber,
	})
}

// HandleListEvents handles GET /api/sessions/{id}/events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.Events(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
