package handlers

import (
	"errors"
	"net/http"

	"arbscan/internal/models"
	"arbscan/internal/risk"
)

// RiskManager - операции риск-менеджера, нужные API
type RiskManager interface {
	CalculateRiskMetrics() models.RiskMetrics
	Positions() []models.Position
	UpdatePosition(pos models.Position) models.Position
	RemovePosition(symbol, venue string)
	CheckRiskLimits(positionValue float64) (bool, string)
	ReserveCapital(pos models.Position) error
	EvaluateOpportunity(opp models.Opportunity, market risk.MarketConditions) models.EvaluatedOpportunity
}

// RiskHandler - эндпоинты риск-менеджера
type RiskHandler struct {
	manager RiskManager
}

// NewRiskHandler создаёт обработчик
func NewRiskHandler(manager RiskManager) *RiskHandler {
	return &RiskHandler{manager: manager}
}

// Metrics возвращает сводные риск-метрики портфеля
//
// GET /api/v1/risk/metrics
func (h *RiskHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.manager.CalculateRiskMetrics())
}

// Positions возвращает открытые позиции
//
// GET /api/v1/risk/positions
func (h *RiskHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions := h.manager.Positions()
	if positions == nil {
		positions = []models.Position{}
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Data: positions})
}

// UpdatePosition добавляет или обновляет позицию
//
// PUT /api/v1/risk/positions
func (h *RiskHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var pos models.Position
	if err := jsonAPI.NewDecoder(r.Body).Decode(&pos); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if pos.Symbol == "" || pos.Venue == "" {
		respondError(w, http.StatusBadRequest, "symbol and venue are required")
		return
	}

	updated := h.manager.UpdatePosition(pos)
	respondJSON(w, http.StatusOK, SuccessResponse{Data: updated})
}

// checkRequest - запрос POST /risk/check
type checkRequest struct {
	PositionValue float64 `json:"position_value"`
}

// checkResponse - результат проверки лимитов
type checkResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Check проверяет позицию против лимитов без изменения состояния
//
// POST /api/v1/risk/check
func (h *RiskHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := jsonAPI.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PositionValue <= 0 {
		respondError(w, http.StatusBadRequest, "position_value must be positive")
		return
	}

	allowed, reason := h.manager.CheckRiskLimits(req.PositionValue)
	respondJSON(w, http.StatusOK, checkResponse{Allowed: allowed, Reason: reason})
}

// Reserve атомарно проверяет лимиты и открывает позицию
//
// POST /api/v1/risk/reserve
func (h *RiskHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var pos models.Position
	if err := jsonAPI.NewDecoder(r.Body).Decode(&pos); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if pos.Symbol == "" || pos.Venue == "" || pos.ValueUSD <= 0 {
		respondError(w, http.StatusBadRequest, "symbol, venue and positive value_usd are required")
		return
	}

	if err := h.manager.ReserveCapital(pos); err != nil {
		if errors.Is(err, risk.ErrUtilizationExceeded) ||
			errors.Is(err, risk.ErrPositionTooLarge) ||
			errors.Is(err, risk.ErrDrawdownExceeded) {
			respondJSON(w, http.StatusConflict, checkResponse{Allowed: false, Reason: err.Error()})
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, checkResponse{Allowed: true})
}

// evaluateRequest - запрос POST /risk/evaluate
type evaluateRequest struct {
	Opportunity models.Opportunity    `json:"opportunity"`
	Market      risk.MarketConditions `json:"market"`
}

// Evaluate оценивает возможность с точки зрения риска
//
// POST /api/v1/risk/evaluate
func (h *RiskHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := jsonAPI.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Opportunity.BuyPrice <= 0 || req.Opportunity.SellPrice <= 0 {
		respondError(w, http.StatusBadRequest, "opportunity prices must be positive")
		return
	}

	respondJSON(w, http.StatusOK, h.manager.EvaluateOpportunity(req.Opportunity, req.Market))
}
