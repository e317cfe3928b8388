package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики источников котировок
// ============================================================

// QuoteFetchLatency - время получения котировки с площадки
var QuoteFetchLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "arbscan",
		Subsystem: "feed",
		Name:      "quote_fetch_latency_ms",
		Help:      "Latency of a single quote fetch in milliseconds",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 3000},
	},
	[]string{"venue"},
)

// QuotesFetched - количество запросов котировок по результату
var QuotesFetched = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "arbscan",
		Subsystem: "feed",
		Name:      "quotes_fetched_total",
		Help:      "Total number of quote fetch attempts",
	},
	[]string{"venue", "result"}, // result: ok, error, unusable
)
