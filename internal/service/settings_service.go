package service

import (
	"errors"
	"fmt"

	"arbscan/internal/models"
	"arbscan/pkg/utils"
)

// Ошибки сервиса настроек
var (
	ErrInvalidThreshold = errors.New("profit_threshold_pct must be >= 0")
)

// SettingsService управляет глобальными настройками.
//
// Отвечает за:
// - Получение и обновление настроек сканера и риск-менеджера
// - Валидацию параметров
// - Применение изменений к работающим компонентам без перезапуска
type SettingsService struct {
	store    SettingsStore
	appliers []SettingsApplier
	logger   *utils.Logger
}

// NewSettingsService создаёт сервис настроек.
// Каждый applier получает настройки после успешного сохранения.
func NewSettingsService(store SettingsStore, logger *utils.Logger, appliers ...SettingsApplier) *SettingsService {
	if logger == nil {
		logger = utils.L()
	}
	return &SettingsService{
		store:    store,
		appliers: appliers,
		logger:   logger.WithComponent("settings"),
	}
}

// GetSettings возвращает текущие настройки.
// Если записи в БД нет, создаётся запись с дефолтными значениями.
func (s *SettingsService) GetSettings() (*models.Settings, error) {
	return s.store.Get()
}

// UpdateSettingsRequest - запрос на обновление настроек.
// Все поля опциональны, обновляются только переданные.
type UpdateSettingsRequest struct {
	ProfitThresholdPct *float64 `json:"profit_threshold_pct,omitempty"`
	MaxUtilization     *float64 `json:"max_utilization,omitempty"`
	MaxPositionSize    *float64 `json:"max_position_size,omitempty"`
	MaxDrawdownLimit   *float64 `json:"max_drawdown_limit,omitempty"`
}

// UpdateSettings валидирует, сохраняет и применяет новые настройки
func (s *SettingsService) UpdateSettings(req *UpdateSettingsRequest) (*models.Settings, error) {
	settings, err := s.store.Get()
	if err != nil {
		return nil, err
	}

	if req.ProfitThresholdPct != nil {
		if *req.ProfitThresholdPct < 0 {
			return nil, ErrInvalidThreshold
		}
		settings.ProfitThresholdPct = *req.ProfitThresholdPct
	}
	if req.MaxUtilization != nil {
		if err := utils.ValidateFraction("max_utilization", *req.MaxUtilization); err != nil {
			return nil, err
		}
		settings.MaxUtilization = *req.MaxUtilization
	}
	if req.MaxPositionSize != nil {
		if err := utils.ValidateFraction("max_position_size", *req.MaxPositionSize); err != nil {
			return nil, err
		}
		settings.MaxPositionSize = *req.MaxPositionSize
	}
	if req.MaxDrawdownLimit != nil {
		if err := utils.ValidateFraction("max_drawdown_limit", *req.MaxDrawdownLimit); err != nil {
			return nil, err
		}
		settings.MaxDrawdownLimit = *req.MaxDrawdownLimit
	}

	if err := s.store.Update(settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	for _, applier := range s.appliers {
		applier.ApplySettings(settings)
	}

	s.logger.Info("настройки обновлены",
		utils.Float64("profit_threshold_pct", settings.ProfitThresholdPct),
		utils.Float64("max_utilization", settings.MaxUtilization),
	)

	return settings, nil
}
