// Package risk реализует учёт позиций и оценку рисков портфеля.
package risk

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"arbscan/internal/models"
	"arbscan/pkg/utils"
)

// Причины отказа в открытии позиции.
// Проверки выполняются в фиксированном порядке: утилизация,
// размер позиции, текущая просадка.
var (
	ErrUtilizationExceeded = errors.New("capital utilization limit exceeded")
	ErrPositionTooLarge    = errors.New("position size limit exceeded")
	ErrDrawdownExceeded    = errors.New("drawdown limit exceeded")
)

// maxPnlHistory - глубина истории PnL для расчёта VaR и Sharpe
const maxPnlHistory = 1000

// Limits - лимиты риск-менеджера, задаются настройками
type Limits struct {
	MaxUtilization   float64 // доля капитала в позициях
	MaxPositionSize  float64 // доля капитала на одну позицию
	MaxDrawdownLimit float64 // допустимая текущая просадка
}

// DefaultLimits возвращает консервативные лимиты по умолчанию
func DefaultLimits() Limits {
	return Limits{
		MaxUtilization:   0.80,
		MaxPositionSize:  0.20,
		MaxDrawdownLimit: 0.15,
	}
}

// Manager ведёт позиции и историю PnL портфеля.
//
// Всё состояние под одним мьютексом: операций немного и они дешёвые,
// шардирование здесь не окупается.
type Manager struct {
	mu sync.RWMutex

	initialCapital float64
	riskFreeRate   float64 // годовая ставка для Sharpe
	limits         Limits

	positions  map[string]models.Position // ключ: symbol_venue
	pnlHistory []models.PnlSample

	logger *utils.Logger
}

// NewManager создаёт риск-менеджер
func NewManager(initialCapital, riskFreeRate float64, limits Limits, logger *utils.Logger) (*Manager, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %f", initialCapital)
	}
	if logger == nil {
		logger = utils.L()
	}

	return &Manager{
		initialCapital: initialCapital,
		riskFreeRate:   riskFreeRate,
		limits:         limits,
		positions:      make(map[string]models.Position),
		logger:         logger.WithComponent("risk"),
	}, nil
}

// positionKey - ключ позиции в портфеле.
// Одна пара symbol+venue хранится в единственном экземпляре,
// повторное обновление перезаписывает запись.
func positionKey(symbol, venue string) string {
	return symbol + "_" + venue
}

// SetLimits применяет новые лимиты на лету
func (m *Manager) SetLimits(limits Limits) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = limits
}

// UpdatePosition добавляет или перезаписывает позицию.
//
// Стоимость позиции всегда выводится из количества и текущей цены,
// переданное значение ValueUSD игнорируется. PnL и его процент
// пересчитываются по текущей цене, уровень риска позиции выставляется
// по абсолютному проценту PnL: выше 10% - high, выше 5% - medium,
// иначе low.
func (m *Manager) UpdatePosition(pos models.Position) models.Position {
	pos.ValueUSD = pos.Amount * pos.CurrentPrice
	pos.Pnl = (pos.CurrentPrice - pos.EntryPrice) * pos.Amount
	pos.PnlPct = utils.SafeDiv(pos.Pnl, pos.EntryPrice*pos.Amount) * 100

	absPct := pos.PnlPct
	if absPct < 0 {
		absPct = -absPct
	}
	switch {
	case absPct > 10:
		pos.RiskLevel = models.RiskLevelHigh
	case absPct > 5:
		pos.RiskLevel = models.RiskLevelMedium
	default:
		pos.RiskLevel = models.RiskLevelLow
	}

	m.mu.Lock()
	m.positions[positionKey(pos.Symbol, pos.Venue)] = pos
	m.mu.Unlock()

	m.logger.Debug("позиция обновлена",
		utils.Symbol(pos.Symbol),
		utils.Venue(pos.Venue),
		utils.Float64("pnl", pos.Pnl),
		utils.String("risk_level", pos.RiskLevel),
	)

	return pos
}

// RemovePosition убирает позицию из портфеля
func (m *Manager) RemovePosition(symbol, venue string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, positionKey(symbol, venue))
}

// Positions возвращает копию списка позиций
func (m *Manager) Positions() []models.Position {
	m.mu.RLock()
	defer m.mu.RUnlock()

	positions := make([]models.Position, 0, len(m.positions))
	for _, pos := range m.positions {
		positions = append(positions, pos)
	}
	return positions
}

// RecordPnl добавляет точку в историю суммарного PnL.
// История ограничена maxPnlHistory записями, старые вытесняются.
func (m *Manager) RecordPnl(totalPnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pnlHistory = append(m.pnlHistory, models.PnlSample{
		Timestamp: time.Now().UTC(),
		TotalPnl:  totalPnl,
	})
	if len(m.pnlHistory) > maxPnlHistory {
		m.pnlHistory = m.pnlHistory[len(m.pnlHistory)-maxPnlHistory:]
	}
}

// RecordCurrentPnl снимает суммарный PnL открытых позиций в историю
func (m *Manager) RecordCurrentPnl() {
	m.mu.RLock()
	total := 0.0
	for _, pos := range m.positions {
		total += pos.Pnl
	}
	m.mu.RUnlock()

	m.RecordPnl(total)
}

// usedCapitalLocked суммирует стоимость открытых позиций.
// Вызывается только под мьютексом.
func (m *Manager) usedCapitalLocked() float64 {
	used := 0.0
	for _, pos := range m.positions {
		used += pos.ValueUSD
	}
	return used
}

// totalPnlLocked суммирует PnL открытых позиций.
// Вызывается только под мьютексом.
func (m *Manager) totalPnlLocked() float64 {
	total := 0.0
	for _, pos := range m.positions {
		total += pos.Pnl
	}
	return total
}

// CheckRiskLimits проверяет, можно ли разместить позицию заданной
// стоимости. Состояние не меняется, проверки идут в фиксированном
// порядке и возвращается первая нарушенная.
//
// Нарушение лимита это не ошибка, а ожидаемое решение для вызывающего
// слоя, поэтому результат - пара (разрешено, причина).
func (m *Manager) CheckRiskLimits(positionValue float64) (bool, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkRiskLimitsLocked(positionValue); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func (m *Manager) checkRiskLimitsLocked(positionValue float64) error {
	capital := m.initialCapital + m.totalPnlLocked()
	if capital <= 0 {
		return fmt.Errorf("%w: no capital available", ErrUtilizationExceeded)
	}

	used := m.usedCapitalLocked()

	if (used+positionValue)/capital > m.limits.MaxUtilization {
		return fmt.Errorf("%w: %.2f%% > %.2f%%",
			ErrUtilizationExceeded,
			(used+positionValue)/capital*100,
			m.limits.MaxUtilization*100,
		)
	}

	if positionValue/capital > m.limits.MaxPositionSize {
		return fmt.Errorf("%w: %.2f%% > %.2f%%",
			ErrPositionTooLarge,
			positionValue/capital*100,
			m.limits.MaxPositionSize*100,
		)
	}

	if dd := m.currentDrawdownLocked(); dd > m.limits.MaxDrawdownLimit {
		return fmt.Errorf("%w: %.2f%% > %.2f%%",
			ErrDrawdownExceeded,
			dd*100,
			m.limits.MaxDrawdownLimit*100,
		)
	}

	return nil
}

// ReserveCapital атомарно проверяет лимиты и открывает позицию.
// Между проверкой и записью никто не может изменить портфель.
//
// При известной текущей цене стоимость позиции выводится из неё,
// чтобы резерв не расходился с учётом капитала. Резерв без котировки
// полагается на переданное ValueUSD.
func (m *Manager) ReserveCapital(pos models.Position) error {
	if pos.Amount > 0 && pos.CurrentPrice > 0 {
		pos.ValueUSD = pos.Amount * pos.CurrentPrice
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkRiskLimitsLocked(pos.ValueUSD); err != nil {
		return err
	}

	m.positions[positionKey(pos.Symbol, pos.Venue)] = pos
	return nil
}
