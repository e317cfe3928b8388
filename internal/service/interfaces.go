// Package service - бизнес-логика поверх репозиториев.
package service

import "arbscan/internal/models"

// SettingsStore - доступ к хранилищу настроек.
// Реализуется repository.SettingsRepository, в тестах подменяется моком.
type SettingsStore interface {
	Get() (*models.Settings, error)
	Update(settings *models.Settings) error
}

// VenueStore - доступ к хранилищу площадок
type VenueStore interface {
	GetAll() ([]*models.Venue, error)
	GetByName(name string) (*models.Venue, error)
	Create(venue *models.Venue) error
	Update(venue *models.Venue) error
	Delete(name string) error
}

// SettingsApplier применяет изменённые настройки к работающим
// компонентам: детектору и риск-менеджеру
type SettingsApplier interface {
	ApplySettings(settings *models.Settings)
}

// ApplierFunc адаптирует функцию к интерфейсу SettingsApplier
type ApplierFunc func(settings *models.Settings)

// ApplySettings вызывает f(settings)
func (f ApplierFunc) ApplySettings(settings *models.Settings) {
	f(settings)
}
