package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики сканера
// ============================================================

// ============ Метрики латентности ============

// ScanDuration - длительность полного прохода сканера
var ScanDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "arbscan",
		Subsystem: "scanner",
		Name:      "scan_duration_ms",
		Help:      "Duration of a full scan pass in milliseconds",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	},
)

// SpreadObserved - спред найденных возможностей в процентах
var SpreadObserved = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "arbscan",
		Subsystem: "scanner",
		Name:      "opportunity_spread_pct",
		Help:      "Spread of detected opportunities in percent",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	},
)

// ============ Счётчики событий ============

// OpportunitiesFound - количество найденных возможностей
var OpportunitiesFound = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "arbscan",
		Subsystem: "scanner",
		Name:      "opportunities_found_total",
		Help:      "Total number of detected arbitrage opportunities",
	},
	[]string{"symbol"},
)

// ScansTotal - количество проходов сканера
var ScansTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "arbscan",
		Subsystem: "scanner",
		Name:      "scans_total",
		Help:      "Total number of scan passes",
	},
)

// ============ Метрики состояния ============

// LastScanOpportunities - количество возможностей в последнем проходе
var LastScanOpportunities = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "arbscan",
		Subsystem: "scanner",
		Name:      "last_scan_opportunities",
		Help:      "Number of opportunities in the most recent scan",
	},
)

// CapitalUtilization - текущая доля капитала в позициях
var CapitalUtilization = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "arbscan",
		Subsystem: "risk",
		Name:      "capital_utilization",
		Help:      "Fraction of capital currently allocated to positions",
	},
)

// RiskScore - интегральная оценка риска портфеля (1-10)
var RiskScore = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "arbscan",
		Subsystem: "risk",
		Name:      "risk_score",
		Help:      "Aggregate portfolio risk score from 1 to 10",
	},
)
