package utils

import (
	"math"
	"sort"
)

// math.go - математические утилиты для анализа спредов и риск-метрик
//
// Назначение:
// Чистые функции без побочных эффектов, используемые детектором
// возможностей и риск-менеджером. Все функции с делением защищены
// от нулевого знаменателя и возвращают 0 вместо NaN/Inf.

// Round4 округляет значение до 4 знаков после запятой.
//
// Все денежные и процентные поля возможностей округляются именно так,
// чтобы выдача была детерминированной и сравнимой байт в байт.
//
// Примеры:
//   - Round4(394.49999999) = 394.5
//   - Round4(0.78821178) = 0.7882
func Round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}

// SpreadPct рассчитывает спред между ценой продажи и покупки в процентах.
//
// Формула:
//
//	Спред (%) = ((sellPrice - buyPrice) / buyPrice) × 100
//
// Параметры:
//   - buyPrice: цена покупки (ask на площадке покупки)
//   - sellPrice: цена продажи (bid на площадке продажи)
//
// Возвращает:
//   - Спред в процентах; может быть отрицательным
//   - Если buyPrice <= 0, возвращает 0
//
// Примеры:
//   - SpreadPct(50000, 50500) = 1.0
//   - SpreadPct(100, 99) = -1.0
func SpreadPct(buyPrice, sellPrice float64) float64 {
	if buyPrice <= 0 {
		return 0
	}
	return (sellPrice - buyPrice) / buyPrice * 100
}

// Mean возвращает среднее арифметическое выборки.
// Пустая выборка даёт 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev возвращает стандартное отклонение выборки (population, N в знаменателе).
// Выборка короче 1 элемента даёт 0.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Percentile возвращает p-й перцентиль выборки (0 <= p <= 100)
// с линейной интерполяцией между соседними значениями.
//
// Семантика совпадает с numpy.percentile(..., interpolation='linear'),
// на которой построен расчёт VaR в исходной модели рисков.
//
// Параметры:
//   - values: выборка (не обязана быть отсортированной, не мутируется)
//   - p: перцентиль от 0 до 100
//
// Возвращает:
//   - Значение перцентиля; 0 для пустой выборки
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) == 1 {
		return values[0]
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	// Дробный ранг: p% от интервала [0, n-1]
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// SafeDiv возвращает a/b, либо 0 при нулевом знаменателе.
// Защищает расчёты долей (процент PnL, доля VaR в капитале)
// от NaN/Inf на пустом портфеле.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Clamp ограничивает значение диапазоном [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
