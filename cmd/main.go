package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hirelens/hirelens/internal/adapters/http/api"
	"github.com/hirelens/hirelens/internal/adapters/http/swagger"
	"github.com/hirelens/hirelens/internal/adapters/summarizer"
	app "github.com/hirelens/hirelens/internal/app"
	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/domain/intent"
	"github.com/hirelens/hirelens/internal/domain/report"
	"github.com/hirelens/hirelens/internal/domain/scoring"
	"github.com/hirelens/hirelens/internal/domain/sqlanalysis"
	"github.com/hirelens/hirelens/pkg/logger"
	"github.com/hirelens/hirelens/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Runtime collectors share the registry served on /healthz.
	metrics.GetRegistry().MustRegister(collectors.NewGoCollector())

	opts := []app.Option{
		app.WithLogger(log),
		app.WithShardCount(cfg.ShardCount),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithReportCacheSize(cfg.ReportCacheSize),
		app.WithDefaultDifficulty(cfg.DefaultDifficulty),
		app.WithQueueSize(cfg.Summarizer.QueueSize),
		app.WithWorkerCount(cfg.Summarizer.Workers),
		app.WithAssembler(buildAssembler(cfg)),
	}
	if cfg.Summarizer.Enabled {
		gem, err := summarizer.NewGemini(ctx, cfg.Summarizer.Model)
		if err != nil {
			log.Warn(ctx, "summarizer unavailable; narratives keep the template text",
				logger.Error(err))
		} else {
			opts = append(opts, app.WithSummarizer(gem))
			log.Info(ctx, "generative narratives enabled",
				logger.String("model", cfg.Summarizer.Model))
		}
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop(context.Background())

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// buildAssembler wires the scoring pipeline from calibration config.
func buildAssembler(cfg *config.Config) *report.Assembler {
	analyzer := sqlanalysis.NewAnalyzer(
		sqlanalysis.WithThresholds(cfg.SQLThresholds),
	)
	classifier := intent.NewKeywordClassifier(intentOptions(cfg.IntentKeywords)...)
	calc := scoring.NewCalculator(
		scoring.WithTable(cfg.Scoring),
		scoring.WithAnalyzer(analyzer),
		scoring.WithClassifier(classifier),
	)
	return report.NewAssembler(
		report.WithCalculator(calc),
		report.WithCutoffs(cfg.Profile),
		report.WithLowConfidence(cfg.LowConfidence),
	)
}

// intentOptions turns configured keyword lists into classifier options.
func intentOptions(m map[string][]string) []intent.Option {
	opts := make([]intent.Option, 0, len(m))
	for name, words := range m {
		opts = append(opts, intent.WithKeywords(intent.Intent(name), words))
	}
	return opts
}
