package models

import "time"

// DefaultVenueKey - ключ запасной записи в таблице комиссий.
// Используется для площадок, у которых нет собственной записи.
const DefaultVenueKey = "default"

// Venue - площадка-источник котировок с её комиссионной схемой
//
// Хранится в БД; карта комиссий за вывод сериализуется в JSONB.
// TakerFeeRate задаётся долей (0.001 = 0.1%), комиссия за вывод -
// в единицах выводимого актива ("BTC": 0.0005).
type Venue struct {
	ID             int                `json:"id" db:"id"`
	Name           string             `json:"name" db:"name"`                         // binance, kraken, default
	TakerFeeRate   float64            `json:"taker_fee_rate" db:"taker_fee_rate"`
	WithdrawalFees map[string]float64 `json:"withdrawal_fees" db:"withdrawal_fees"`   // актив -> комиссия
	Enabled        bool               `json:"enabled" db:"enabled"`                   // участвует ли в сканировании
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}

// FeeSchedule - комиссионная схема площадки, используемая детектором
type FeeSchedule struct {
	TakerFeeRate   float64            `json:"taker_fee_rate"`
	WithdrawalFees map[string]float64 `json:"withdrawal_fees"`
}

// Schedule возвращает комиссионную схему площадки
func (v *Venue) Schedule() FeeSchedule {
	return FeeSchedule{
		TakerFeeRate:   v.TakerFeeRate,
		WithdrawalFees: v.WithdrawalFees,
	}
}

// WithdrawalFee возвращает комиссию за вывод актива (0 если не задана)
func (f FeeSchedule) WithdrawalFee(asset string) float64 {
	if f.WithdrawalFees == nil {
		return 0
	}
	return f.WithdrawalFees[asset]
}
