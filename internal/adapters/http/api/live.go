package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hirelens/hirelens/internal/adapters/repository"
	"github.com/hirelens/hirelens/pkg/logger"
	"github.com/hirelens/hirelens/pkg/metrics"
)

// Live feed timing constants.
const (
	liveWriteTimeout = 10 * time.Second
	livePingInterval = 30 * time.Second
)

// LiveHandler streams a session's ingested events over a websocket.
type LiveHandler struct {
	deps     Dependencies
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a new live feed handler.
func NewLiveHandler(deps Dependencies) *LiveHandler {
	return &LiveHandler{
		deps: deps,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is read-only observer tooling for interviewers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleLive handles GET /api/sessions/{id}/live requests. Each event
// appended to the session is pushed as one JSON message.
func (h *LiveHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.deps.Session(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		return
	}
	metrics.WebsocketConnected()
	defer metrics.WebsocketDisconnected()
	defer conn.Close()

	feed, cancel := h.deps.Subscribe(id)
	defer cancel()

	// Reader goroutine: the client sends nothing meaningful, but reads
	// must be drained for close and pong frames to be processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log := logger.Get().Named("live-feed")
	ping := time.NewTicker(livePingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case e, ok := <-feed:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteJSON(e); err != nil {
				log.Debug(r.Context(), "live feed write failed",
					logger.String("session_id", id),
					logger.Error(err),
				)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
