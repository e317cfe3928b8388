package handlers

import (
	"errors"
	"net/http"

	"arbscan/internal/models"
	"arbscan/internal/service"
)

// SettingsProvider - операции сервиса настроек
type SettingsProvider interface {
	GetSettings() (*models.Settings, error)
	UpdateSettings(req *service.UpdateSettingsRequest) (*models.Settings, error)
}

// SettingsHandler - эндпоинты глобальных настроек
type SettingsHandler struct {
	service SettingsProvider
}

// NewSettingsHandler создаёт обработчик
func NewSettingsHandler(service SettingsProvider) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get возвращает текущие настройки
//
// GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.GetSettings()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Data: settings})
}

// Update обновляет настройки. Все поля опциональны,
// изменения применяются к работающему сканеру сразу.
//
// PATCH /api/v1/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateSettingsRequest
	if err := jsonAPI.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.service.UpdateSettings(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidThreshold) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Ошибки валидации долей тоже клиентские
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "settings updated", Data: settings})
}
