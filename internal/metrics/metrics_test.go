package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	var m Noop
	m.SetCandidates(2)
	m.IncRetrieval("ok")
	m.IncArtifact(true)
	m.ObserveRun(true, time.Second)
}

func TestPromMetrics(t *testing.T) {
	m := NewProm()
	m.SetCandidates(2)
	m.IncRetrieval("ok")
	m.IncRetrieval("ok")
	m.IncRetrieval("failed")
	m.IncArtifact(true)
	m.IncArtifact(false)
	m.ObserveRun(true, 1500*time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if v, ok := metricValue(families, "reachwatch_candidate_downloads", nil); !ok || v != 2 {
		t.Fatalf("expected candidate_downloads=2, got %v (%v)", v, ok)
	}
	if v, ok := metricValue(families, "reachwatch_retrievals_total", map[string]string{"status": "ok"}); !ok || v != 2 {
		t.Fatalf("expected two ok retrievals, got %v (%v)", v, ok)
	}
	if v, ok := metricValue(families, "reachwatch_retrievals_total", map[string]string{"status": "failed"}); !ok || v != 1 {
		t.Fatalf("expected one failed retrieval, got %v (%v)", v, ok)
	}
	if _, ok := metricValue(families, "reachwatch_artifacts_total", map[string]string{"state": "fresh"}); !ok {
		t.Fatal("expected fresh artifact metric")
	}
	if v, ok := metricValue(families, "reachwatch_last_run_success", nil); !ok || v != 1 {
		t.Fatalf("expected last_run_success=1, got %v (%v)", v, ok)
	}
	if v, ok := metricValue(families, "reachwatch_last_run_duration_seconds", nil); !ok || v != 1.5 {
		t.Fatalf("expected duration 1.5, got %v (%v)", v, ok)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := NewProm()
	m.now = func() time.Time { return time.Unix(1700000000, 0) }
	m.ObserveRun(false, time.Second)

	path := filepath.Join(t.TempDir(), "textfile", "reachwatch.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, fragment := range []string{"reachwatch_last_run_success 0", "reachwatch_last_run_timestamp_seconds 1.7e+09"} {
		if !strings.Contains(string(data), fragment) {
			t.Fatalf("expected %q in textfile:\n%s", fragment, data)
		}
	}
}

func metricValue(families []*dto.MetricFamily, name string, labels map[string]string) (float64, bool) {
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if !labelsMatch(metric, labels) {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue(), true
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(labels) == 0 {
		return true
	}
	found := 0
	for _, label := range metric.GetLabel() {
		if v, ok := labels[label.GetName()]; ok && v == label.GetValue() {
			found++
		}
	}
	return found == len(labels)
}
