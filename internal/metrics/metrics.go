// Package metrics records per-run counters and writes them in the Prometheus
// textfile format, for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reachwatch"

// Recorder captures the outcome of a check run.
type Recorder interface {
	SetCandidates(n int)
	IncRetrieval(status string)
	IncArtifact(fresh bool)
	ObserveRun(success bool, duration time.Duration)
}

// Noop implements Recorder without emitting anything.
type Noop struct{}

func (Noop) SetCandidates(int)              {}
func (Noop) IncRetrieval(string)            {}
func (Noop) IncArtifact(bool)               {}
func (Noop) ObserveRun(bool, time.Duration) {}

// Prom implements Recorder on a private registry.
type Prom struct {
	registry    *prometheus.Registry
	candidates  prometheus.Gauge
	retrievals  *prometheus.CounterVec
	artifacts   *prometheus.CounterVec
	runSuccess  prometheus.Gauge
	runDuration prometheus.Gauge
	lastRun     prometheus.Gauge
	now         func() time.Time
}

// NewProm constructs a Prom recorder.
func NewProm() *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidate_downloads",
			Help:      "Storefront downloads selected for retrieval",
		}),
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrievals_total",
			Help:      "Download retrievals by outcome",
		}, []string{"status"}),
		artifacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_total",
			Help:      "Extracted game jars by archive state",
		}, []string{"state"}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run completed, 0 if it failed",
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		now: time.Now,
	}
	p.registry.MustRegister(p.candidates, p.retrievals, p.artifacts, p.runSuccess, p.runDuration, p.lastRun)
	return p
}

// Registry exposes the underlying registry for gathering.
func (p *Prom) Registry() *prometheus.Registry { return p.registry }

func (p *Prom) SetCandidates(n int) {
	p.candidates.Set(float64(n))
}

func (p *Prom) IncRetrieval(status string) {
	p.retrievals.WithLabelValues(status).Inc()
}

func (p *Prom) IncArtifact(fresh bool) {
	state := "archived"
	if fresh {
		state = "fresh"
	}
	p.artifacts.WithLabelValues(state).Inc()
}

func (p *Prom) ObserveRun(success bool, duration time.Duration) {
	if success {
		p.runSuccess.Set(1)
	} else {
		p.runSuccess.Set(0)
	}
	p.runDuration.Set(duration.Seconds())
	p.lastRun.Set(float64(p.now().Unix()))
}

// WriteTextfile atomically writes the gathered metrics to path.
func (p *Prom) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
