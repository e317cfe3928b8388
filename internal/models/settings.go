package models

import "time"

// Settings - глобальные настройки сканера и риск-менеджера
//
// В БД всегда ровно одна запись с id=1. Изменения через API применяются
// к работающему сканеру без перезапуска.
type Settings struct {
	ID int `json:"id" db:"id"`

	// Минимальный чистый профит в процентах, чтобы возможность
	// попала в выдачу (0.2 означает 0.2%)
	ProfitThresholdPct float64 `json:"profit_threshold_pct" db:"profit_threshold_pct"`

	// Лимиты риск-менеджера (доли от капитала)
	MaxUtilization   float64 `json:"max_utilization" db:"max_utilization"`       // 0.80
	MaxPositionSize  float64 `json:"max_position_size" db:"max_position_size"`   // 0.20
	MaxDrawdownLimit float64 `json:"max_drawdown_limit" db:"max_drawdown_limit"` // 0.15

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultSettings возвращает настройки по умолчанию
func DefaultSettings() *Settings {
	return &Settings{
		ID:                 1,
		ProfitThresholdPct: 0.1,
		MaxUtilization:     0.80,
		MaxPositionSize:    0.20,
		MaxDrawdownLimit:   0.15,
	}
}
