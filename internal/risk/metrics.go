package risk

import (
	"math"

	"arbscan/internal/models"
	"arbscan/pkg/utils"
)

// Минимальные объёмы истории для статистических метрик.
// На меньших выборках оценки бессмысленны и возвращается 0.
const (
	minSamplesDrawdown = 2
	minSamplesVar      = 30
	minSamplesSharpe   = 30
)

// tradingDaysPerYear - годовая база для аннуализации Sharpe
const tradingDaysPerYear = 365.0

// CalculateRiskMetrics считает сводные метрики портфеля.
//
// Снимок состояния берётся один раз под блокировкой чтения,
// сами расчёты идут на копиях.
func (m *Manager) CalculateRiskMetrics() models.RiskMetrics {
	m.mu.RLock()

	used := m.usedCapitalLocked()
	totalPnl := m.totalPnlLocked()
	capital := m.initialCapital + totalPnl

	history := make([]float64, len(m.pnlHistory))
	for i, sample := range m.pnlHistory {
		history[i] = sample.TotalPnl
	}

	exposure := make(map[string]float64)
	for _, pos := range m.positions {
		exposure[models.BaseAsset(pos.Symbol)] += pos.ValueUSD
	}

	m.mu.RUnlock()

	utilization := 0.0
	if capital > 0 {
		utilization = used / capital
	}

	equity := equityCurve(m.initialCapital, history)
	maxDD, currentDD := drawdowns(equity)
	returns := pctReturns(equity)

	varValue := valueAtRisk(returns, capital)
	sharpe := sharpeRatio(returns, m.riskFreeRate)

	return models.RiskMetrics{
		TotalCapital:     utils.Round4(capital),
		UsedCapital:      utils.Round4(used),
		AvailableCapital: utils.Round4(capital - used),
		UtilizationRate:  utils.Round4(utilization),
		MaxDrawdown:      utils.Round4(maxDD),
		CurrentDrawdown:  utils.Round4(currentDD),
		Var1d:            utils.Round4(varValue),
		SharpeRatio:      utils.Round4(sharpe),
		RiskScore:        riskScore(utilization, currentDD, varValue, capital),
		ExposureByAsset:  exposure,
	}
}

// CurrentDrawdown возвращает текущую просадку портфеля
func (m *Manager) CurrentDrawdown() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentDrawdownLocked()
}

func (m *Manager) currentDrawdownLocked() float64 {
	history := make([]float64, len(m.pnlHistory))
	for i, sample := range m.pnlHistory {
		history[i] = sample.TotalPnl
	}
	_, current := drawdowns(equityCurve(m.initialCapital, history))
	return current
}

// equityCurve строит кривую капитала из истории PnL
func equityCurve(initialCapital float64, pnlHistory []float64) []float64 {
	equity := make([]float64, len(pnlHistory))
	for i, pnl := range pnlHistory {
		equity[i] = initialCapital + pnl
	}
	return equity
}

// drawdowns возвращает максимальную и текущую просадку кривой капитала.
// Просадка - относительное падение от достигнутого пика.
func drawdowns(equity []float64) (maxDD, currentDD float64) {
	if len(equity) < minSamplesDrawdown {
		return 0, 0
	}

	peak := equity[0]
	for _, value := range equity {
		if value > peak {
			peak = value
		}
		if peak > 0 {
			if dd := (peak - value) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}

	if peak > 0 {
		currentDD = (peak - equity[len(equity)-1]) / peak
	}
	if currentDD < 0 {
		currentDD = 0
	}

	return maxDD, currentDD
}

// pctReturns считает последовательные относительные приращения кривой
func pctReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] != 0 {
			returns = append(returns, (equity[i]-equity[i-1])/equity[i-1])
		}
	}
	return returns
}

// valueAtRisk - однодневный VaR с доверием 95%.
// Модуль 5-го перцентиля доходностей, переведённый в USD по текущему
// капиталу. На выборке меньше minSamplesVar возвращается 0.
func valueAtRisk(returns []float64, capital float64) float64 {
	if len(returns) < minSamplesVar || capital <= 0 {
		return 0
	}
	return math.Abs(utils.Percentile(returns, 5)) * capital
}

// sharpeRatio - аннуализированный коэффициент Шарпа.
// Дневная безрисковая ставка = годовая / 365. На выборке меньше
// minSamplesSharpe и при нулевой дисперсии доходностей возвращается 0.
func sharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < minSamplesSharpe {
		return 0
	}

	daily := riskFreeRate / tradingDaysPerYear
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - daily
	}

	std := utils.StdDev(excess)
	if std == 0 {
		return 0
	}

	return utils.Mean(excess) / std * math.Sqrt(tradingDaysPerYear)
}

// riskScore - интегральная оценка риска портфеля от 1 до 10.
// База 1, за каждую зону риска добавляются баллы лесенкой.
func riskScore(utilization, currentDD, varValue, capital float64) int {
	score := 1

	switch {
	case utilization > 0.8:
		score += 3
	case utilization > 0.6:
		score += 2
	case utilization > 0.4:
		score += 1
	}

	switch {
	case currentDD > 0.15:
		score += 3
	case currentDD > 0.10:
		score += 2
	case currentDD > 0.05:
		score += 1
	}

	varRatio := utils.SafeDiv(varValue, capital)
	switch {
	case varRatio > 0.05:
		score += 3
	case varRatio > 0.03:
		score += 2
	case varRatio > 0.01:
		score += 1
	}

	if score > 10 {
		score = 10
	}
	return score
}
