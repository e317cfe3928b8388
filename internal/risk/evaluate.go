package risk

import (
	"arbscan/internal/models"
	"arbscan/pkg/utils"
)

// MarketConditions - рыночный контекст для оценки возможности
type MarketConditions struct {
	Volume24h      float64 `json:"volume_24h"`      // суточный оборот символа в USD
	LiquidityScore float64 `json:"liquidity_score"` // 0.0 - 1.0
}

// sizeMultipliers - множители размера позиции по уровню риска
var sizeMultipliers = map[string]float64{
	models.RiskLevelLow:    2.0,
	models.RiskLevelMedium: 1.0,
	models.RiskLevelHigh:   0.5,
}

// EvaluateOpportunity оценивает возможность с точки зрения риска.
//
// Возвращает рекомендацию по размеру позиции, сложность исполнения,
// уровень риска и уверенность. Состояние менеджера не меняется,
// используется только текущий капитал.
func (m *Manager) EvaluateOpportunity(opp models.Opportunity, market MarketConditions) models.EvaluatedOpportunity {
	m.mu.RLock()
	capital := m.initialCapital + m.totalPnlLocked()
	maxPositionSize := m.limits.MaxPositionSize
	m.mu.RUnlock()

	spread := utils.SpreadPct(opp.BuyPrice, opp.SellPrice)

	difficulty := executionDifficulty(spread, market)
	riskLevel := spreadRiskLevel(spread)
	recommended := recommendedAmount(capital, spread, riskLevel, maxPositionSize)
	confidence := confidenceScore(spread, difficulty, market)

	// Ожидаемый профит консервативен: 95% от теоретического спреда
	expectedProfit := recommended * spread / 100 * 0.95

	return models.EvaluatedOpportunity{
		Symbol:              opp.Symbol,
		BuyVenue:            opp.BuyVenue,
		SellVenue:           opp.SellVenue,
		BuyPrice:            opp.BuyPrice,
		SellPrice:           opp.SellPrice,
		SpreadPct:           utils.Round4(spread),
		ExpectedProfit:      utils.Round4(expectedProfit),
		ExecutionDifficulty: difficulty,
		RiskLevel:           riskLevel,
		RecommendedAmount:   utils.Round4(recommended),
		ConfidenceScore:     utils.Round4(confidence),
	}
}

// executionDifficulty оценивает сложность исполнения.
// Лёгкая - ликвидный рынок с умеренным спредом, большой спред
// на тонком рынке почти наверняка не исполнится по котировкам.
func executionDifficulty(spread float64, market MarketConditions) string {
	switch {
	case market.Volume24h > 10_000_000 && market.LiquidityScore > 0.8 && spread < 5:
		return models.DifficultyEasy
	case market.Volume24h > 1_000_000 && market.LiquidityScore > 0.5 && spread < 10:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

// spreadRiskLevel - уровень риска по величине спреда.
// Аномально большой спред означает устаревшие котировки
// или проблемы на площадке.
func spreadRiskLevel(spread float64) string {
	switch {
	case spread > 10:
		return models.RiskLevelHigh
	case spread > 2:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// recommendedAmount - рекомендуемый размер позиции в USD.
// База 5% капитала, множитель по уровню риска, скидка за широкий
// спред. Потолок - действующий лимит размера позиции.
func recommendedAmount(capital, spread float64, riskLevel string, maxPositionSize float64) float64 {
	if capital <= 0 {
		return 0
	}

	amount := capital * 0.05 * sizeMultipliers[riskLevel]

	if spread > 5 {
		amount *= 0.5
	} else if spread > 2 {
		amount *= 0.8
	}

	if ceiling := capital * maxPositionSize; amount > ceiling {
		amount = ceiling
	}
	return amount
}

// confidenceScore - уверенность в оценке от 0 до 1
func confidenceScore(spread float64, difficulty string, market MarketConditions) float64 {
	confidence := 0.5

	if spread > 1 && spread < 5 {
		confidence += 0.3
	} else if spread >= 5 {
		confidence += 0.1
	}

	confidence += market.LiquidityScore * 0.3

	switch difficulty {
	case models.DifficultyEasy:
		confidence += 0.2
	case models.DifficultyMedium:
		confidence += 0.1
	}

	return utils.Clamp(confidence, 0, 1)
}
