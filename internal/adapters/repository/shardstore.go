package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/hirelens/hirelens/internal/domain/model"
)

// Sharded, in-memory Store implementation.
//
// Sessions hash to a fixed shard by id, so contention is spread across
// independent RWMutexes and two sessions never block each other. All
// per-session operations touch exactly one shard.

const defaultShardCount = 16

// sessionState is the mutable record behind one session.
type sessionState struct {
	sess    model.Session
	events  []model.Event
	nextSeq int
}

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

// ShardStore is the in-memory sharded session store.
type ShardStore struct {
	shardCount int
	shards     []*shard
}

var _ Store = (*ShardStore)(nil)

// NewShardStore constructs a sharded store with configuration options.
func NewShardStore(opts ...Option) *ShardStore {
	s := &ShardStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*sessionState)}
	}
	return s
}

func (s *ShardStore) shardFor(id string) *shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// CreateSession implements Store.CreateSession.
func (s *ShardStore) CreateSession(_ context.Context, sess model.Session) error {
	sh := s.shardFor(sess.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.sessions[sess.ID]; ok {
		return ErrAlreadyExists
	}
	if sess.Status == "" {
		sess.Status = model.StatusActive
	}
	if sess.StartTime.IsZero() {
		sess.StartTime = time.Now().UTC()
	}
	sh.sessions[sess.ID] = &sessionState{sess: sess, nextSeq: 1}
	return nil
}

// Session implements Store.Session.
func (s *ShardStore) Session(_ context.Context, id string) (model.Session, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	st, ok := sh.sessions[id]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return st.sess, nil
}

// Sessions implements Store.Sessions.
func (s *ShardStore) Sessions(_ context.Context) ([]model.Session, error) {
	var out []model.Session
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, st := range sh.sessions {
			out = append(out, st.sess)
		}
		sh.mu.RUnlock()
	}
	return out, nil
}

// AppendEvent implements Store.AppendEvent. The sequence number is
// assigned under the shard lock, so concurrent appends to one session
// get distinct, strictly increasing numbers.
func (s *ShardStore) AppendEvent(_ context.Context, e model.Event) (model.Event, error) {
	sh := s.shardFor(e.SessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.sessions[e.SessionID]
	if !ok {
		return model.Event{}, ErrNotFound
	}
	if st.sess.Status != model.StatusActive {
		return model.Event{}, ErrSessionCompleted
	}

	e.SequenceNumber = st.nextSeq
	st.nextSeq++
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	st.events = append(st.events, e)
	return e, nil
}

// Events implements Store.Events. The returned slice is a copy; callers
// can hold it across requests without racing appends.
func (s *ShardStore) Events(_ context.Context, sessionID string) ([]model.Event, error) {
	sh := s.shardFor(sessionID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	st, ok := sh.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.Event, len(st.events))
	copy(out, st.events)
	return out, nil
}

// CompleteSession implements Store.CompleteSession.
func (s *ShardStore) CompleteSession(_ context.Context, id string) (model.Session, error) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.sessions[id]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	if st.sess.Status != model.StatusActive {
		return model.Session{}, ErrSessionCompleted
	}
	st.sess.Status = model.StatusCompleted
	st.sess.EndTime = time.Now().UTC()
	return st.sess, nil
}

// Count implements Store.Count.
func (s *ShardStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return total
}
