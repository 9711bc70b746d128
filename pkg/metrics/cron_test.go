package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCronJobMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)

	m.IncSuccess("rider reconcile")
	m.IncSuccess("rider reconcile")
	m.IncFailure("rider reconcile")
	m.ObserveDuration("rider reconcile", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.success.WithLabelValues("rider_reconcile")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("rider_reconcile")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewCronJobMetrics(nil)
	m.IncSuccess("x")
	m.IncFailure("x")
	m.ObserveDuration("x", time.Second)
}
