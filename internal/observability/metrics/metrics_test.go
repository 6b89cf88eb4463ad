package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBotMetricsRegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)

	m.ObserveUpdate("message")
	m.ObserveUpdate("message")
	m.ObserveUpdate("callback")
	m.ObserveSearch("flights", "ok")
	m.ObserveCache("flights", true)
	m.ObserveCache("flights", false)
	m.ObserveSearchLatency("flights", 0.25)

	if got := testutil.ToFloat64(m.updatesTotal.WithLabelValues("message")); got != 2 {
		t.Fatalf("expected 2 message updates, got %v", got)
	}
	if got := testutil.ToFloat64(m.searchesTotal.WithLabelValues("flights", "ok")); got != 1 {
		t.Fatalf("expected 1 flight search, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheTotal.WithLabelValues("flights", "hit")); got != 1 {
		t.Fatalf("expected 1 cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheTotal.WithLabelValues("flights", "miss")); got != 1 {
		t.Fatalf("expected 1 cache miss, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *BotMetrics
	m.ObserveUpdate("message")
	m.ObserveSearch("buses", "error")
	m.ObserveCache("buses", false)
	m.ObserveSearchLatency("buses", 1.5)
}
