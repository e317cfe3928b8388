package service

import (
	"arbscan/internal/models"
)

// mockSettingsStore - мок хранилища настроек
type mockSettingsStore struct {
	settings  *models.Settings
	getErr    error
	updateErr error
	updated   []*models.Settings
}

func (m *mockSettingsStore) Get() (*models.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	copy := *m.settings
	return &copy, nil
}

func (m *mockSettingsStore) Update(settings *models.Settings) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	copy := *settings
	m.updated = append(m.updated, &copy)
	m.settings = &copy
	return nil
}

// mockVenueStore - мок хранилища площадок
type mockVenueStore struct {
	venues    map[string]*models.Venue
	getAllErr error
}

func newMockVenueStore(venues ...*models.Venue) *mockVenueStore {
	store := &mockVenueStore{venues: make(map[string]*models.Venue)}
	for _, v := range venues {
		store.venues[v.Name] = v
	}
	return store
}

func (m *mockVenueStore) GetAll() ([]*models.Venue, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	var all []*models.Venue
	for _, v := range m.venues {
		all = append(all, v)
	}
	return all, nil
}

func (m *mockVenueStore) GetByName(name string) (*models.Venue, error) {
	if v, ok := m.venues[name]; ok {
		return v, nil
	}
	return nil, errNotFound
}

func (m *mockVenueStore) Create(venue *models.Venue) error {
	if _, ok := m.venues[venue.Name]; ok {
		return errExists
	}
	m.venues[venue.Name] = venue
	return nil
}

func (m *mockVenueStore) Update(venue *models.Venue) error {
	if _, ok := m.venues[venue.Name]; !ok {
		return errNotFound
	}
	m.venues[venue.Name] = venue
	return nil
}

func (m *mockVenueStore) Delete(name string) error {
	if _, ok := m.venues[name]; !ok {
		return errNotFound
	}
	delete(m.venues, name)
	return nil
}

// mockApplier запоминает применённые настройки
type mockApplier struct {
	applied []*models.Settings
}

func (m *mockApplier) ApplySettings(settings *models.Settings) {
	m.applied = append(m.applied, settings)
}
