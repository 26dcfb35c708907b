// monitord runs the factor decay monitor as a daemon: a scheduled daily
// check plus an HTTP surface for on-demand runs, results and metrics.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"factorgate/adapters/alerts"
	"factorgate/adapters/postgres"
	"factorgate/adapters/report"
	"factorgate/app"
	"factorgate/domain/core"
	"factorgate/domain/decay"
	"factorgate/internal/config"
	"factorgate/internal/logging"
	"factorgate/internal/metrics"
)

type server struct {
	monitor     *app.DecayMonitorService
	factors     *postgres.FactorRepository
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	reportDir   string
	historyDays int

	mu     sync.RWMutex
	latest *decay.DailyCheckResult
}

func main() {
	_ = godotenv.Load()

	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	factorRepo := postgres.NewFactorRepository(db)
	monitor := app.NewDecayMonitorService(
		factorRepo,
		cfg.Monitor.Thresholds,
		logger,
	).WithAlertSink(alerts.NewLogSink(logger))
	if cfg.Monitor.MarketDataEnable {
		monitor = monitor.WithMarketData(postgres.NewMarketDataRepository(db))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	srv := &server{
		monitor:     monitor,
		factors:     factorRepo,
		metrics:     metrics.New(registry),
		logger:      logger,
		reportDir:   cfg.Report.Dir,
		historyDays: cfg.Monitor.Thresholds.CorrelationLookbackDays,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Post("/v1/checks/run", srv.handleRunCheck)
	router.Get("/v1/checks/latest", srv.handleLatest)
	router.Get("/v1/checks/latest/report", srv.handleLatestReport)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go srv.runScheduler(ctx, cfg.Monitor.CheckInterval)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("monitord listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}

// runScheduler runs one check at startup, then on every interval tick
func (s *server) runScheduler(ctx context.Context, interval time.Duration) {
	s.runCheck(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCheck(ctx)
		}
	}
}

func (s *server) runCheck(ctx context.Context) *decay.DailyCheckResult {
	result, err := s.monitor.RunDailyCheck(ctx)
	if err != nil {
		s.metrics.ObserveFailure()
		s.logger.Error().Err(err).Msg("daily check failed")
		return nil
	}
	s.metrics.ObserveCheck(result, result.Duration)

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	if s.reportDir != "" {
		path := filepath.Join(s.reportDir, "daily_check_"+result.RunID.String()+".xlsx")
		if err := report.WriteWorkbook(result, s.flaggedHistories(ctx, result), path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("workbook export failed")
		}
	}
	return result
}

// flaggedHistories bulk-fetches recent performance for every factor the check
// flagged, so the workbook's history sheet shows what tripped each alert.
// Fetch failure degrades the report rather than failing the run.
func (s *server) flaggedHistories(ctx context.Context, result *decay.DailyCheckResult) map[core.FactorID][]core.PerformanceRecord {
	flagged := make(map[core.FactorID]bool)
	for _, id := range result.DecayingFactors {
		flagged[id] = true
	}
	for _, id := range result.CrowdedFactors {
		flagged[id] = true
	}
	if len(flagged) == 0 {
		return nil
	}

	ids := make([]core.FactorID, 0, len(flagged))
	for id := range flagged {
		ids = append(ids, id)
	}
	histories, err := s.factors.GetPerformanceHistories(ctx, ids, s.historyDays)
	if err != nil {
		s.logger.Warn().Err(err).Msg("history prefetch for report failed")
		return nil
	}
	return histories
}

func (s *server) handleRunCheck(w http.ResponseWriter, r *http.Request) {
	result := s.runCheck(r.Context())
	if result == nil {
		http.Error(w, "daily check failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest == nil {
		http.Error(w, "no check has completed yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (s *server) handleLatestReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest == nil {
		http.Error(w, "no check has completed yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.HTML(latest))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
