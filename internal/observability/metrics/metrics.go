package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the conversation flow.
type BotMetrics struct {
	updatesTotal  *prometheus.CounterVec
	searchesTotal *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
	searchLatency *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		updatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traveldeals",
			Subsystem: "bot",
			Name:      "updates_total",
			Help:      "Total inbound Telegram updates",
		}, []string{"kind"}),
		searchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traveldeals",
			Subsystem: "bot",
			Name:      "searches_total",
			Help:      "Total upstream offer searches",
		}, []string{"service", "status"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "traveldeals",
			Subsystem: "bot",
			Name:      "cache_lookups_total",
			Help:      "Offer cache lookups by result",
		}, []string{"service", "result"}),
		searchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "traveldeals",
			Subsystem: "bot",
			Name:      "search_latency_seconds",
			Help:      "Latency of upstream offer searches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.updatesTotal, m.searchesTotal, m.cacheTotal, m.searchLatency)
	return m
}

func (m *BotMetrics) ObserveUpdate(kind string) {
	if m == nil {
		return
	}
	m.updatesTotal.WithLabelValues(kind).Inc()
}

func (m *BotMetrics) ObserveSearch(service, status string) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(service, status).Inc()
}

func (m *BotMetrics) ObserveCache(service string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheTotal.WithLabelValues(service, result).Inc()
}

func (m *BotMetrics) ObserveSearchLatency(service string, seconds float64) {
	if m == nil {
		return
	}
	m.searchLatency.WithLabelValues(service).Observe(seconds)
}
