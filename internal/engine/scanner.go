package engine

import (
	"context"
	"sync"
	"time"

	"arbscan/internal/feed"
	"arbscan/internal/models"
	"arbscan/internal/risk"
	"arbscan/pkg/utils"
)

// Broadcaster рассылает результаты проходов подписчикам.
// Реализуется WebSocket хабом, в тестах подменяется заглушкой.
type Broadcaster interface {
	BroadcastOpportunities([]models.Opportunity)
	BroadcastRiskMetrics(models.RiskMetrics)
}

// Scanner - координатор периодических проходов.
//
// Каждый тик: снимок котировок, поиск возможностей, пересчёт
// риск-метрик, рассылка подписчикам. Проходы не перекрываются,
// долгий проход просто сдвигает следующий тик.
type Scanner struct {
	symbols    []string
	interval   time.Duration
	aggregator *feed.Aggregator
	detector   *Detector
	riskMgr    *risk.Manager
	broadcast  Broadcaster
	logger     *utils.Logger

	trigger chan struct{}

	mu            sync.RWMutex
	lastScan      time.Time
	opportunities []models.Opportunity
}

// NewScanner создаёт сканер
func NewScanner(
	symbols []string,
	interval time.Duration,
	aggregator *feed.Aggregator,
	detector *Detector,
	riskMgr *risk.Manager,
	broadcast Broadcaster,
	logger *utils.Logger,
) *Scanner {
	if logger == nil {
		logger = utils.L()
	}
	return &Scanner{
		symbols:    symbols,
		interval:   interval,
		aggregator: aggregator,
		detector:   detector,
		riskMgr:    riskMgr,
		broadcast:  broadcast,
		logger:     logger.WithComponent("scanner"),
		trigger:    make(chan struct{}, 1),
	}
}

// Run крутит цикл сканирования до отмены контекста.
// Первый проход выполняется сразу, не дожидаясь тика.
func (s *Scanner) Run(ctx context.Context) {
	s.logger.Info("сканер запущен",
		utils.Int("symbols", len(s.symbols)),
		utils.String("interval", s.interval.String()),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("сканер остановлен")
			return
		case <-ticker.C:
			s.scan(ctx)
		case <-s.trigger:
			s.scan(ctx)
		}
	}
}

// TriggerScan запрашивает внеочередной проход.
// Не блокирует: если проход уже запрошен, повторный запрос сливается.
func (s *Scanner) TriggerScan() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Snapshot возвращает результат последнего прохода
func (s *Scanner) Snapshot() ([]models.Opportunity, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opportunities := make([]models.Opportunity, len(s.opportunities))
	copy(opportunities, s.opportunities)
	return opportunities, s.lastScan
}

// scan выполняет один полный проход
func (s *Scanner) scan(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()

	snapshot := s.aggregator.FetchSnapshot(ctx, s.symbols)
	opportunities := s.detector.Scan(s.symbols, snapshot)

	s.riskMgr.RecordCurrentPnl()
	metrics := s.riskMgr.CalculateRiskMetrics()

	s.mu.Lock()
	s.opportunities = opportunities
	s.lastScan = time.Now().UTC()
	s.mu.Unlock()

	ScansTotal.Inc()
	ScanDuration.Observe(float64(time.Since(start).Milliseconds()))
	LastScanOpportunities.Set(float64(len(opportunities)))
	CapitalUtilization.Set(metrics.UtilizationRate)
	RiskScore.Set(float64(metrics.RiskScore))
	for _, opp := range opportunities {
		OpportunitiesFound.WithLabelValues(opp.Symbol).Inc()
		SpreadObserved.Observe(utils.SpreadPct(opp.BuyPrice, opp.SellPrice))
	}

	if s.broadcast != nil {
		s.broadcast.BroadcastOpportunities(opportunities)
		s.broadcast.BroadcastRiskMetrics(metrics)
	}

	s.logger.Info("проход завершён",
		utils.Int("opportunities", len(opportunities)),
		utils.Latency(float64(time.Since(start).Milliseconds())),
	)
}
