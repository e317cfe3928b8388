package handlers

import (
	"net/http"
	"time"

	"arbscan/internal/models"
)

// ScanProvider - доступ к результатам сканера
type ScanProvider interface {
	Snapshot() ([]models.Opportunity, time.Time)
	TriggerScan()
}

// OpportunitiesHandler отдаёт результаты последнего прохода
type OpportunitiesHandler struct {
	scanner ScanProvider
}

// NewOpportunitiesHandler создаёт обработчик
func NewOpportunitiesHandler(scanner ScanProvider) *OpportunitiesHandler {
	return &OpportunitiesHandler{scanner: scanner}
}

// opportunitiesResponse - ответ GET /opportunities
type opportunitiesResponse struct {
	Count    int                  `json:"count"`
	LastScan time.Time            `json:"last_scan"`
	Data     []models.Opportunity `json:"data"`
}

// List возвращает возможности последнего прохода
//
// GET /api/v1/opportunities
func (h *OpportunitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	opportunities, lastScan := h.scanner.Snapshot()
	if opportunities == nil {
		opportunities = []models.Opportunity{}
	}

	respondJSON(w, http.StatusOK, opportunitiesResponse{
		Count:    len(opportunities),
		LastScan: lastScan,
		Data:     opportunities,
	})
}

// TriggerScan запрашивает внеочередной проход
//
// POST /api/v1/scan
func (h *OpportunitiesHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	h.scanner.TriggerScan()
	respondJSON(w, http.StatusAccepted, SuccessResponse{Message: "scan triggered"})
}
