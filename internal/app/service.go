// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
//
// It owns the session store, the ingestion path (validation plus
// dedupe), synchronous report assembly at completion, the report cache
// and the asynchronous narrative pipeline.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hirelens/hirelens/internal/adapters/mq/queue"
	"github.com/hirelens/hirelens/internal/adapters/mq/worker"
	"github.com/hirelens/hirelens/internal/adapters/repository"
	"github.com/hirelens/hirelens/internal/adapters/summarizer"
	"github.com/hirelens/hirelens/internal/domain/dedupe"
	"github.com/hirelens/hirelens/internal/domain/model"
	"github.com/hirelens/hirelens/internal/domain/report"
	"github.com/hirelens/hirelens/pkg/logger"
	"github.com/hirelens/hirelens/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultShardCount      = 16
	defaultDedupeSize      = 100_000
	defaultReportCacheSize = 512
	defaultQueueSize       = 256
	defaultWorkerCount     = 2
	defaultDifficulty      = 1.0
	liveFeedBuffer         = 16
)

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	deduper   dedupe.Deduper
	assembler *report.Assembler
	reports   *lru.Cache[string, *report.Report]
	jobs      queue.Queue
	pool      *worker.Pool

	// Configuration
	shardCount        int
	dedupeSize        int
	cacheSize         int
	queueSize         int
	workerCount       int
	defaultDifficulty float64
	summarizer        report.Summarizer

	// Live feed subscribers keyed by session id.
	subMu       sync.RWMutex
	subscribers map[string]map[chan model.Event]struct{}

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithShardCount sets the number of session store shards.
func WithShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithDedupeSize sets the size of the event-id idempotency window.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithReportCacheSize bounds the LRU cache of assembled reports.
func WithReportCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithQueueSize sets the narrative job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the summarizer pool size.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDefaultDifficulty sets the difficulty assumed for sessions
// created without one.
func WithDefaultDifficulty(d float64) Option {
	return func(s *Service) {
		if d >= 0.5 && d <= 1.5 {
			s.defaultDifficulty = d
		}
	}
}

// WithAssembler sets the report assembler.
func WithAssembler(a *report.Assembler) Option {
	return func(s *Service) {
		if a != nil {
			s.assembler = a
		}
	}
}

// WithSummarizer sets the narrative summarizer used by the worker pool.
func WithSummarizer(sum report.Summarizer) Option {
	return func(s *Service) {
		if sum != nil {
			s.summarizer = sum
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		shardCount:        defaultShardCount,
		dedupeSize:        defaultDedupeSize,
		cacheSize:         defaultReportCacheSize,
		queueSize:         defaultQueueSize,
		workerCount:       defaultWorkerCount,
		defaultDifficulty: defaultDifficulty,
		subscribers:       make(map[string]map[chan model.Event]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.store = repository.NewShardStore(
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	if s.assembler == nil {
		s.assembler = report.NewAssembler()
	}

	cache, err := lru.New[string, *report.Report](s.cacheSize)
	if err != nil {
		return fmt.Errorf("create report cache: %w", err)
	}
	s.reports = cache

	if s.summarizer == nil {
		s.summarizer = summarizer.Template{}
	}
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobs, s.summarizer, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("shards", s.shardCount),
		logger.Int("reportCache", s.cacheSize),
		logger.Int("summarizerWorkers", s.workerCount),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.subMu.Lock()
	for id, subs := range s.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(s.subscribers, id)
	}
	s.subMu.Unlock()

	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// CreateSession registers a new session. A missing id is generated and
// a missing or out-of-range difficulty falls back to the default.
func (s *Service) CreateSession(ctx context.Context, sess model.Session) (model.Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.ProblemDifficulty <= 0 {
		sess.ProblemDifficulty = s.defaultDifficulty
	}
	if sess.StartTime.IsZero() {
		sess.StartTime = time.Now().UTC()
	}
	sess.Status = model.StatusActive

	if err := s.store.CreateSession(ctx, sess); err != nil {
		return model.Session{}, err
	}
	metrics.RecordSessionCreated()
	s.logger.Debug(ctx, "session created",
		logger.String("session_id", sess.ID),
		logger.Float64("difficulty", sess.ProblemDifficulty),
	)
	return sess, nil
}

// Session returns the session by id.
func (s *Service) Session(ctx context.Context, id string) (model.Session, error) {
	return s.store.Session(ctx, id)
}

// Sessions lists every known session.
func (s *Service) Sessions(ctx context.Context) ([]model.Session, error) {
	return s.store.Sessions(ctx)
}

// Events returns the session's event log in sequence order.
func (s *Service) Events(ctx context.Context, sessionID string) ([]model.Event, error) {
	return s.store.Events(ctx, sessionID)
}

// IngestEvent validates, deduplicates and appends one event. The
// returned event carries its assigned sequence number.
func (s *Service) IngestEvent(ctx context.Context, e model.Event) (model.Event, error) {
	if !e.Kind.Valid() {
		metrics.RecordEventRejected()
		return model.Event{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	if err := model.ValidateMetadata(e); err != nil {
		metrics.RecordEventRejected()
		return model.Event{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, e.ID) {
		metrics.RecordEventDuplicate()
		return model.Event{}, fmt.Errorf("%w: %s", ErrDuplicateEvent, e.ID)
	}

	appended, err := s.store.AppendEvent(ctx, e)
	if err != nil {
		// Forget the id so a retry after a transient failure can land.
		s.deduper.Unrecord(ctx, e.ID)
		return model.Event{}, err
	}

	metrics.RecordEventIngested(string(appended.Kind.Category()))
	s.broadcast(appended)
	return appended, nil
}

// CompleteSession freezes the session, assembles its report
// synchronously and queues narrative enrichment.
func (s *Service) CompleteSession(ctx context.Context, id string) (*report.Report, error) {
	sess, err := s.store.CompleteSession(ctx, id)
	if err != nil {
		return nil, err
	}
	events, err := s.store.Events(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	r := s.assembler.Assemble(sess, events)
	metrics.ObserveReportLatency(time.Since(start))
	metrics.RecordSessionCompleted()

	s.reports.Add(id, r)

	if !s.jobs.Enqueue(ctx, queue.Job{SessionID: id, Report: r}) {
		s.logger.Warn(ctx, "narrative queue full, keeping template narrative",
			logger.String("session_id", id),
		)
	}

	s.logger.Info(ctx, "session completed",
		logger.String("session_id", id),
		logger.Int("events", len(events)),
		logger.String("profile", string(r.Profile)),
	)
	return r, nil
}

// Report returns the session's report, reassembling it on a cache miss.
// Active sessions have no report yet.
func (s *Service) Report(ctx context.Context, id string) (*report.Report, error) {
	if r, ok := s.reports.Get(id); ok {
		metrics.RecordReportCacheHit()
		return r, nil
	}
	metrics.RecordReportCacheMiss()

	sess, err := s.store.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status == model.StatusActive {
		return nil, ErrReportNotReady
	}
	events, err := s.store.Events(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	r := s.assembler.Assemble(sess, events)
	metrics.ObserveReportLatency(time.Since(start))

	s.reports.Add(id, r)
	return r, nil
}

// StoreNarrative swaps the cached report's narrative for generated
// prose. The cached value is replaced, never mutated, so readers
// holding the old pointer stay consistent.
func (s *Service) StoreNarrative(ctx context.Context, sessionID, narrative string) error {
	r, ok := s.reports.Get(sessionID)
	if !ok {
		// Evicted since completion. The report rebuilds on demand with
		// its template narrative, so there is nothing to attach to.
		s.logger.Debug(ctx, "report evicted before narrative arrived",
			logger.String("session_id", sessionID),
		)
		return nil
	}
	enriched := *r
	enriched.Narrative = narrative
	s.reports.Add(sessionID, &enriched)
	return nil
}

// Subscribe registers a live feed for one session's ingested events.
// The returned cancel func must be called exactly once.
func (s *Service) Subscribe(sessionID string) (<-chan model.Event, func()) {
	ch := make(chan model.Event, liveFeedBuffer)

	s.subMu.Lock()
	subs, ok := s.subscribers[sessionID]
	if !ok {
		subs = make(map[chan model.Event]struct{})
		s.subscribers[sessionID] = subs
	}
	subs[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if subs, ok := s.subscribers[sessionID]; ok {
			if _, live := subs[ch]; live {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(s.subscribers, sessionID)
			}
		}
	}
	return ch, cancel
}

// broadcast fans an appended event out to the session's subscribers.
// Slow consumers lose events rather than stall ingestion.
func (s *Service) broadcast(e model.Event) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for ch := range s.subscribers[e.SessionID] {
		select {
		case ch <- e:
		default:
		}
	}
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":            s.started,
		"shard_count":        s.shardCount,
		"summarizer_workers": s.workerCount,
	}
	if s.started {
		stats["sessions"] = s.store.Count(ctx)
		stats["dedupe_size"] = s.deduper.Size()
		stats["cached_reports"] = s.reports.Len()
		stats["narrative_queue"] = s.jobs.Len(ctx)
	}
	return stats
}
