package models

import "time"

// Position - открытая позиция в портфеле
//
// Ключом служит пара (symbol, venue); повторный UpdatePosition с тем же
// ключом полностью перезаписывает запись, а не сливает её со старой.
type Position struct {
	Symbol       string  `json:"symbol"`        // BTC/USDT
	Venue        string  `json:"venue"`         // площадка, где открыта позиция
	Amount       float64 `json:"amount"`        // объём в базовом активе
	ValueUSD     float64 `json:"value_usd"`     // amount * currentPrice
	EntryPrice   float64 `json:"entry_price"`
	CurrentPrice float64 `json:"current_price"`
	Pnl          float64 `json:"pnl"`           // amount * (current - entry)
	PnlPct       float64 `json:"pnl_percent"`
	RiskLevel    string  `json:"risk_level"`    // low, medium, high по |PnlPct|
}

// PnlSample - точка истории совокупного PNL портфеля
type PnlSample struct {
	Timestamp time.Time `json:"timestamp"`
	TotalPnl  float64   `json:"total_pnl"` // накопленный PNL на момент снятия
}
