// Package repository defines the session store interface and its
// in-memory sharded implementation.
package repository

import (
	"context"

	"github.com/hirelens/hirelens/internal/domain/model"
)

// Store provides read/write access to sessions and their event logs.
type Store interface {
	// CreateSession registers a new active session.
	// Returns ErrAlreadyExists when the id is taken.
	CreateSession(ctx context.Context, sess model.Session) error

	// Session returns the session by id.
	// Returns ErrNotFound for unknown ids.
	Session(ctx context.Context, id string) (model.Session, error)

	// Sessions lists every known session. Order is unspecified.
	Sessions(ctx context.Context) ([]model.Session, error)

	// AppendEvent appends one event to an active session's log and
	// assigns its sequence number. The returned event carries the
	// assigned number. Returns ErrNotFound for unknown sessions and
	// ErrSessionCompleted once the log is frozen.
	AppendEvent(ctx context.Context, e model.Event) (model.Event, error)

	// Events returns the session's event log in sequence order.
	Events(ctx context.Context, sessionID string) ([]model.Event, error)

	// CompleteSession freezes the session's event log and returns the
	// final session state. Completing twice returns ErrSessionCompleted.
	CompleteSession(ctx context.Context, id string) (model.Session, error)

	// Count returns the number of sessions tracked.
	Count(ctx context.Context) int
}
