package models

// RiskMetrics - сводные риск-метрики портфеля
//
// Производное значение: пересчитывается по требованию из текущих позиций
// и истории PNL, между вызовами не кэшируется.
type RiskMetrics struct {
	TotalCapital     float64            `json:"total_capital"`
	UsedCapital      float64            `json:"used_capital"`      // Σ value позиций
	AvailableCapital float64            `json:"available_capital"` // total - used
	UtilizationRate  float64            `json:"utilization_rate"`  // used / total
	MaxDrawdown      float64            `json:"max_drawdown"`      // худшая просадка за историю
	CurrentDrawdown  float64            `json:"current_drawdown"`  // просадка от пика к текущему
	Var1d            float64            `json:"var_1d"`            // 1-дневный VaR, 95%
	SharpeRatio      float64            `json:"sharpe_ratio"`
	RiskScore        int                `json:"risk_score"`        // 1-10, 10 = максимальный риск
	ExposureByAsset  map[string]float64 `json:"exposure_by_asset"` // базовый актив -> USD
}
