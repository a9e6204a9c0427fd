// Package simulate drives synthetic interview sessions against a
// running service: scripted candidates create sessions, stream events,
// complete, and the resulting profiles are checked against each
// script's archetype.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hirelens/hirelens/pkg/logger"
)

// Run executes the full simulation.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}

	log := logger.Get().Named("simulate")
	log.Info(ctx, "starting session simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", cfg.Seed),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.checkHealth(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Scripts are generated up front from one seeded source so a given
	// seed always produces the same sessions.
	rng := rand.New(rand.NewSource(cfg.Seed))
	scripts := make([]script, cfg.Sessions)
	expected := make([]Archetype, cfg.Sessions)
	for i := range scripts {
		arch := archetypes[i%len(archetypes)]
		expected[i] = arch
		scripts[i] = buildScript(i, arch, rand.New(rand.NewSource(rng.Int63())))
	}

	var submitted, failed, fetched, matched atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range scripts {
		g.Go(func() error {
			rep, err := runSession(gctx, c, scripts[i], &submitted, &failed)
			if err != nil {
				return fmt.Errorf("session %s: %w", scripts[i].Session.SessionID, err)
			}
			fetched.Add(1)

			if rep.Profile == expected[i].ExpectedProfile() {
				matched.Add(1)
			} else if cfg.Verbose {
				log.Info(gctx, "profile differs from archetype",
					logger.String("session_id", rep.SessionID),
					logger.String("archetype", string(expected[i])),
					logger.String("profile", rep.Profile),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats.SessionsRun = cfg.Sessions
	stats.EventsSubmitted = int(submitted.Load())
	stats.EventsFailed = int(failed.Load())
	stats.ReportsFetched = int(fetched.Load())
	stats.ProfileMatches = int(matched.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)
	return nil
}

// runSession plays one script end to end and returns the report.
func runSession(ctx context.Context, c *client, s script, submitted, failed *atomic.Int64) (reportResponse, error) {
	if _, err := c.createSession(ctx, s.Session); err != nil {
		return reportResponse{}, err
	}

	for _, e := range s.Events {
		ok, err := c.postEvent(ctx, e)
		if err != nil {
			failed.Add(1)
			return reportResponse{}, err
		}
		if ok {
			submitted.Add(1)
		}
	}

	rep, err := c.completeSession(ctx, s.Session.SessionID)
	if err != nil {
		return reportResponse{}, err
	}

	// Exercise the read path too: the cached report must round-trip.
	got, err := c.fetchReport(ctx, s.Session.SessionID)
	if err != nil {
		return reportResponse{}, err
	}
	if got.SessionID != rep.SessionID {
		return reportResponse{}, fmt.Errorf("report mismatch: got session %s", got.SessionID)
	}
	return got, nil
}

// displayFinalStats logs the simulation outcome.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Named("simulate").Info(ctx, "simulation finished",
		logger.Int("sessions", stats.SessionsRun),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsFailed", stats.EventsFailed),
		logger.Int("reportsFetched", stats.ReportsFetched),
		logger.Int("profileMatches", stats.ProfileMatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("eventsPerSecond", perSecond),
	)
}
