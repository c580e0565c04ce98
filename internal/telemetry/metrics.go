package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	profileLookups *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "market_commands_total",
				Help: "Total bot commands by name and outcome.",
			},
			[]string{"command", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "market_command_duration_seconds",
				Help:    "Bot command latency in seconds by name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		dbQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "market_db_queries_total",
				Help: "Total store method calls by method and status.",
			},
			[]string{"method", "status"},
		),
		dbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "market_db_query_duration_seconds",
				Help:    "Store method duration in seconds by method and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
		profileLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "market_profile_lookups_total",
				Help: "Player profile lookups by result.",
			},
			[]string{"result"},
		),
	}

	registerer.MustRegister(
		m.commandsTotal,
		m.commandDuration,
		m.dbQueriesTotal,
		m.dbQueryDuration,
		m.profileLookups,
	)

	return m
}

func (m *Metrics) ObserveCommand(command, outcome string, duration time.Duration) {
	if m == nil {
		return
	}

	m.commandsTotal.WithLabelValues(command, outcome).Inc()
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDB(method, status string, duration time.Duration) {
	if m == nil {
		return
	}

	m.dbQueriesTotal.WithLabelValues(method, status).Inc()
	m.dbQueryDuration.WithLabelValues(method, status).Observe(duration.Seconds())
}

func (m *Metrics) ObserveProfileLookup(result string) {
	if m == nil {
		return
	}

	m.profileLookups.WithLabelValues(result).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
