package handlers

import (
	"errors"
	"strings"
	"sync"
	"time"

	"arbscan/internal/models"
	"arbscan/internal/repository"
	"arbscan/internal/risk"
	"arbscan/internal/service"
)

// ErrMockDatabase имитирует отказ хранилища
var ErrMockDatabase = errors.New("mock database error")

// ============ Mock Scan Provider ============

// MockScanProvider мок для ScanProvider
type MockScanProvider struct {
	opportunities []models.Opportunity
	lastScan      time.Time
	triggered     int
	mu            sync.Mutex
}

func (m *MockScanProvider) Snapshot() ([]models.Opportunity, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opportunities, m.lastScan
}

func (m *MockScanProvider) TriggerScan() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggered++
}

func (m *MockScanProvider) Triggered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.triggered
}

// ============ Mock Risk Manager ============

// MockRiskManager мок для RiskManager
type MockRiskManager struct {
	metrics    models.RiskMetrics
	positions  []models.Position
	limitErr   error
	reserveErr error
	evaluated  models.EvaluatedOpportunity
	updated    []models.Position
	reserved   []models.Position
	mu         sync.Mutex
}

func (m *MockRiskManager) CalculateRiskMetrics() models.RiskMetrics {
	return m.metrics
}

func (m *MockRiskManager) Positions() []models.Position {
	return m.positions
}

func (m *MockRiskManager) UpdatePosition(pos models.Position) models.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, pos)
	return pos
}

func (m *MockRiskManager) RemovePosition(symbol, venue string) {}

func (m *MockRiskManager) CheckRiskLimits(positionValue float64) (bool, string) {
	if m.limitErr != nil {
		return false, m.limitErr.Error()
	}
	return true, ""
}

func (m *MockRiskManager) ReserveCapital(pos models.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserveErr != nil {
		return m.reserveErr
	}
	m.reserved = append(m.reserved, pos)
	return nil
}

func (m *MockRiskManager) EvaluateOpportunity(opp models.Opportunity, market risk.MarketConditions) models.EvaluatedOpportunity {
	return m.evaluated
}

// ============ Mock Settings Service ============

// MockSettingsService мок для SettingsProvider
type MockSettingsService struct {
	settings  *models.Settings
	getErr    error
	updateErr error
	mu        sync.Mutex
}

func NewMockSettingsService() *MockSettingsService {
	return &MockSettingsService{settings: models.DefaultSettings()}
}

func (m *MockSettingsService) GetSettings() (*models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.settings, nil
}

func (m *MockSettingsService) UpdateSettings(req *service.UpdateSettingsRequest) (*models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if req.ProfitThresholdPct != nil {
		if *req.ProfitThresholdPct < 0 {
			return nil, service.ErrInvalidThreshold
		}
		m.settings.ProfitThresholdPct = *req.ProfitThresholdPct
	}
	if req.MaxUtilization != nil {
		m.settings.MaxUtilization = *req.MaxUtilization
	}
	if req.MaxPositionSize != nil {
		m.settings.MaxPositionSize = *req.MaxPositionSize
	}
	if req.MaxDrawdownLimit != nil {
		m.settings.MaxDrawdownLimit = *req.MaxDrawdownLimit
	}
	return m.settings, nil
}

// ============ Mock Venue Service ============

// MockVenueService мок для VenueProvider
type MockVenueService struct {
	venues    map[string]*models.Venue
	listErr   error
	createErr error
	mu        sync.Mutex
}

func NewMockVenueService() *MockVenueService {
	return &MockVenueService{venues: make(map[string]*models.Venue)}
}

func (m *MockVenueService) ListVenues() ([]*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*models.Venue, 0, len(m.venues))
	for _, v := range m.venues {
		result = append(result, v)
	}
	return result, nil
}

func (m *MockVenueService) GetVenue(name string) (*models.Venue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if venue, ok := m.venues[strings.ToLower(name)]; ok {
		return venue, nil
	}
	return nil, repository.ErrVenueNotFound
}

func (m *MockVenueService) CreateVenue(venue *models.Venue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	key := strings.ToLower(venue.Name)
	if _, ok := m.venues[key]; ok {
		return repository.ErrVenueExists
	}
	venue.ID = len(m.venues) + 1
	m.venues[key] = venue
	return nil
}

func (m *MockVenueService) UpdateVenue(venue *models.Venue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(venue.Name)
	if _, ok := m.venues[key]; !ok {
		return repository.ErrVenueNotFound
	}
	m.venues[key] = venue
	return nil
}

func (m *MockVenueService) DeleteVenue(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(name)
	if _, ok := m.venues[key]; !ok {
		return repository.ErrVenueNotFound
	}
	delete(m.venues, key)
	return nil
}
