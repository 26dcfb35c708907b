// Package metrics exposes Prometheus instrumentation for the monitoring
// daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"factorgate/domain/decay"
)

// Metrics holds the daemon's Prometheus collectors
type Metrics struct {
	ChecksTotal      *prometheus.CounterVec
	AlertsTotal      *prometheus.CounterVec
	CheckDuration    prometheus.Histogram
	FactorsChecked   prometheus.Gauge
	DecayingFactors  prometheus.Gauge
	CrowdedFactors   prometheus.Gauge
	CorrelatedPairs  prometheus.Gauge
}

// New creates the collectors and registers them with the registry
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factorgate",
			Name:      "daily_checks_total",
			Help:      "Daily decay checks run, by outcome.",
		}, []string{"outcome"}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "factorgate",
			Name:      "alerts_total",
			Help:      "Alerts raised, by type and severity.",
		}, []string{"type", "severity"}),
		CheckDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "factorgate",
			Name:      "check_duration_seconds",
			Help:      "Wall time of a full daily check.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		FactorsChecked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "factorgate",
			Name:      "factors_checked",
			Help:      "Active factors examined in the latest check.",
		}),
		DecayingFactors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "factorgate",
			Name:      "decaying_factors",
			Help:      "Factors flagged as decaying in the latest check.",
		}),
		CrowdedFactors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "factorgate",
			Name:      "crowded_factors",
			Help:      "Factors flagged as crowded in the latest check.",
		}),
		CorrelatedPairs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "factorgate",
			Name:      "correlated_pairs",
			Help:      "Factor pairs above the correlation spike threshold in the latest check.",
		}),
	}

	reg.MustRegister(
		m.ChecksTotal,
		m.AlertsTotal,
		m.CheckDuration,
		m.FactorsChecked,
		m.DecayingFactors,
		m.CrowdedFactors,
		m.CorrelatedPairs,
	)
	return m
}

// ObserveCheck records the outcome of one daily check
func (m *Metrics) ObserveCheck(result *decay.DailyCheckResult, duration time.Duration) {
	m.ChecksTotal.WithLabelValues("success").Inc()
	m.CheckDuration.Observe(duration.Seconds())
	m.FactorsChecked.Set(float64(result.FactorsChecked))
	m.DecayingFactors.Set(float64(len(result.DecayingFactors)))
	m.CrowdedFactors.Set(float64(len(result.CrowdedFactors)))
	m.CorrelatedPairs.Set(float64(len(result.CorrelatedPairs)))
	for _, a := range result.Alerts {
		m.AlertsTotal.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	}
}

// ObserveFailure records a failed daily check
func (m *Metrics) ObserveFailure() {
	m.ChecksTotal.WithLabelValues("failure").Inc()
}
