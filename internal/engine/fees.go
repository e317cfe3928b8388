// Package engine содержит детектор арбитражных возможностей.
package engine

import (
	"strings"
	"sync"

	"arbscan/internal/models"
)

// Комиссии по умолчанию для площадок без известной схемы
const (
	DefaultTakerFeeRate  = 0.002
	DefaultWithdrawalFee = 0.0
)

// FeeTable хранит комиссионные схемы площадок.
//
// Поиск нечувствителен к регистру имени площадки. Для неизвестной
// площадки используется схема "default", а при её отсутствии -
// консервативные значения по умолчанию.
type FeeTable struct {
	mu        sync.RWMutex
	schedules map[string]models.FeeSchedule
}

// NewFeeTable создаёт таблицу комиссий.
// Ключи схем нормализуются к нижнему регистру.
func NewFeeTable(schedules map[string]models.FeeSchedule) *FeeTable {
	t := &FeeTable{schedules: make(map[string]models.FeeSchedule, len(schedules))}
	for venue, schedule := range schedules {
		t.schedules[strings.ToLower(venue)] = schedule
	}
	return t
}

// Lookup возвращает комиссионную схему площадки
func (t *FeeTable) Lookup(venue string) models.FeeSchedule {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if schedule, ok := t.schedules[strings.ToLower(venue)]; ok {
		return schedule
	}
	if schedule, ok := t.schedules[models.DefaultVenueKey]; ok {
		return schedule
	}

	return models.FeeSchedule{
		TakerFeeRate:   DefaultTakerFeeRate,
		WithdrawalFees: nil,
	}
}

// Update заменяет схему площадки
func (t *FeeTable) Update(venue string, schedule models.FeeSchedule) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.schedules[strings.ToLower(venue)] = schedule
}

// Replace атомарно заменяет всю таблицу
func (t *FeeTable) Replace(schedules map[string]models.FeeSchedule) {
	normalized := make(map[string]models.FeeSchedule, len(schedules))
	for venue, schedule := range schedules {
		normalized[strings.ToLower(venue)] = schedule
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.schedules = normalized
}

// Venues возвращает имена площадок с известными схемами
func (t *FeeTable) Venues() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	venues := make([]string, 0, len(t.schedules))
	for venue := range t.schedules {
		venues = append(venues, venue)
	}
	return venues
}
