package models

import "time"

// Quote - лучшие bid/ask цены для символа на одной площадке
//
// Создаётся заново при каждом проходе агрегатора, нигде не сохраняется.
// Котировка пригодна для анализа только если обе цены положительны:
// отсутствующая цена означает "нет данных", а не ноль.
type Quote struct {
	Symbol    string    `json:"symbol"`    // BTC/USDT
	Venue     string    `json:"venue"`     // название площадки-источника
	Bid       float64   `json:"bid"`       // лучшая цена покупки
	Ask       float64   `json:"ask"`       // лучшая цена продажи
	Timestamp time.Time `json:"timestamp"` // время получения котировки
}

// Usable сообщает, пригодна ли котировка для поиска арбитража
func (q Quote) Usable() bool {
	return q.Bid > 0 && q.Ask > 0
}

// BaseAsset возвращает базовый актив символа (часть до '/')
//
// Для "BTC/USDT" вернёт "BTC". Если разделителя нет,
// возвращается весь символ целиком.
func BaseAsset(symbol string) string {
	for i := 0; i < len(symbol); i++ {
		if symbol[i] == '/' {
			return symbol[:i]
		}
	}
	return symbol
}
