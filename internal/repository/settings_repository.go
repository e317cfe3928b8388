// Package repository - доступ к PostgreSQL.
package repository

import (
	"database/sql"
	"errors"
	"time"

	"arbscan/internal/models"
)

// Ошибки репозитория настроек
var (
	ErrSettingsNotFound = errors.New("settings not found")
)

// SettingsRepository - работа с таблицей settings
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository создаёт репозиторий настроек
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get возвращает глобальные настройки (всегда id=1, одна запись).
// Если записи ещё нет, она создаётся с дефолтными значениями.
func (r *SettingsRepository) Get() (*models.Settings, error) {
	query := `
		SELECT id, profit_threshold_pct, max_utilization, max_position_size, max_drawdown_limit, updated_at
		FROM settings
		WHERE id = 1`

	settings := &models.Settings{}
	err := r.db.QueryRow(query).Scan(
		&settings.ID,
		&settings.ProfitThresholdPct,
		&settings.MaxUtilization,
		&settings.MaxPositionSize,
		&settings.MaxDrawdownLimit,
		&settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.createDefault()
		}
		return nil, err
	}

	return settings, nil
}

// Update обновляет настройки
func (r *SettingsRepository) Update(settings *models.Settings) error {
	query := `
		UPDATE settings
		SET profit_threshold_pct = $1, max_utilization = $2, max_position_size = $3, max_drawdown_limit = $4, updated_at = $5
		WHERE id = 1`

	settings.UpdatedAt = time.Now()

	result, err := r.db.Exec(query,
		settings.ProfitThresholdPct,
		settings.MaxUtilization,
		settings.MaxPositionSize,
		settings.MaxDrawdownLimit,
		settings.UpdatedAt,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

// createDefault создаёт запись настроек с дефолтными значениями
func (r *SettingsRepository) createDefault() (*models.Settings, error) {
	settings := models.DefaultSettings()
	settings.UpdatedAt = time.Now()

	query := `
		INSERT INTO settings (id, profit_threshold_pct, max_utilization, max_position_size, max_drawdown_limit, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		settings.ProfitThresholdPct,
		settings.MaxUtilization,
		settings.MaxPositionSize,
		settings.MaxDrawdownLimit,
		settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return settings, nil
}
