package models

// Opportunity - найденная арбитражная возможность между двумя площадками
//
// Неизменяемое значение: создаётся детектором один раз и дальше только
// читается (риск-менеджером, API, WebSocket клиентами).
// Все денежные и процентные поля округлены до 4 знаков.
type Opportunity struct {
	ID          string  `json:"id"`             // symbol-buyVenue-sellVenue
	Symbol      string  `json:"symbol"`         // BTC/USDT
	BuyVenue    string  `json:"buy_at"`         // где покупаем (по ask)
	SellVenue   string  `json:"sell_at"`        // где продаём (по bid)
	BuyPrice    float64 `json:"buy_price"`      // ask на площадке покупки
	SellPrice   float64 `json:"sell_price"`     // bid на площадке продажи
	GrossProfit float64 `json:"gross_profit_usd"` // sellPrice - buyPrice, до комиссий
	TotalFees   float64 `json:"total_fees_usd"`   // тейкер-комиссии + вывод
	NetProfit   float64 `json:"net_profit_usd"`   // прибыль после всех комиссий
	ProfitPct   float64 `json:"profit_percentage"` // netProfit / totalCost * 100
}

// Уровни риска и сложности исполнения для оценённых возможностей
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// EvaluatedOpportunity - результат оценки возможности риск-менеджером
//
// Дополняет сырую возможность рекомендацией по размеру позиции,
// оценкой сложности исполнения и уровнем уверенности.
type EvaluatedOpportunity struct {
	Symbol              string  `json:"symbol"`
	BuyVenue            string  `json:"buy_venue"`
	SellVenue           string  `json:"sell_venue"`
	BuyPrice            float64 `json:"buy_price"`
	SellPrice           float64 `json:"sell_price"`
	SpreadPct           float64 `json:"spread_percent"`
	ExpectedProfit      float64 `json:"expected_profit"`      // recommended * spread * 0.95
	ExecutionDifficulty string  `json:"execution_difficulty"` // easy, medium, hard
	RiskLevel           string  `json:"risk_level"`           // low, medium, high
	RecommendedAmount   float64 `json:"recommended_amount"`   // USD к размещению
	ConfidenceScore     float64 `json:"confidence_score"`     // 0.0 - 1.0
}
