package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hirelens/hirelens/internal/adapters/repository"
	service "github.com/hirelens/hirelens/internal/app"
	"github.com/hirelens/hirelens/internal/domain/model"
)

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// sessionRequest mirrors the OpenAPI schema for POST /api/sessions.
type sessionRequest struct {
	SessionID         string  `json:"session_id"`
	CandidateName     string  `json:"candidate_name"`
	ProblemID         string  `json:"problem_id"`
	ProblemDifficulty float64 `json:"problem_difficulty"`
}

func (s sessionRequest) validate() error {
	if strings.TrimSpace(s.CandidateName) == "" {
		return errors.New("missing candidate_name")
	}
	if s.ProblemDifficulty < 0 {
		return errors.New("problem_difficulty must not be negative")
	}
	return nil
}

// HandleCreateSession handles POST /api/sessions requests.
func (h *SessionsHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sess, err := h.deps.CreateSession(r.Context(), model.Session{
		ID:                req.SessionID,
		CandidateName:     req.CandidateName,
		ProblemID:         req.ProblemID,
		ProblemDifficulty: req.ProblemDifficulty,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "already_exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// HandleListSessions handles GET /api/sessions requests.
func (h *SessionsHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.deps.Sessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// HandleGetSession handles GET /api/sessions/{id} requests.
func (h *SessionsHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// HandleCompleteSession handles POST /api/sessions/{id}/complete requests.
// The assembled report is returned in the response body.
func (h *SessionsHandler) HandleCompleteSession(w http.ResponseWriter, r *http.Request) {
	rep, err := h.deps.CompleteSession(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, repository.ErrSessionCompleted):
			writeError(w, http.StatusConflict, "already_completed", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// interface guard: the app service satisfies the handler contract.
var _ Dependencies = (*service.Service)(nil)
