// Package worker runs the narrative summarizer pool.
//
// Workers drain the job queue, ask the summarizer for recruiter prose
// and hand the result to the sink. Failures are terminal per job: the
// report already carries its template narrative, so a failed job is
// recorded and dropped, never retried into a hot loop.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hirelens/hirelens/internal/adapters/mq/queue"
	"github.com/hirelens/hirelens/internal/domain/report"
	"github.com/hirelens/hirelens/pkg/logger"
	"github.com/hirelens/hirelens/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount  = 2
	poolShutdownTimeout = 30 * time.Second
)

// Sink receives generated narratives.
type Sink interface {
	// StoreNarrative attaches prose to the session's report.
	StoreNarrative(ctx context.Context, sessionID, narrative string) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes narrative jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for summarizer jobs.
type InMemoryWorker struct {
	queue      Queue
	summarizer report.Summarizer
	sink       Sink
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, s report.Summarizer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		summarizer: s,
		sink:       sink,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("summarizer-worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "narrative job failed",
					logger.String("session_id", job.SessionID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob handles a single narrative job.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error {
	metrics.RecordSummarizerJob()

	prose, err := w.summarizer.Summarize(ctx, job.Report)
	if err != nil {
		metrics.RecordSummarizerFailure()
		return fmt.Errorf("summarize session %s: %w", job.SessionID, err)
	}

	if err := w.sink.StoreNarrative(ctx, job.SessionID, prose); err != nil {
		return fmt.Errorf("store narrative for session %s: %w", job.SessionID, err)
	}
	return nil
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a worker pool of the given size.
func NewPool(workerCount int, q Queue, s report.Summarizer, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("summarizer-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, s, sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for every worker to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
