// Package api - HTTP маршруты и их зависимости.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"arbscan/internal/api/handlers"
	"arbscan/internal/api/middleware"
	"arbscan/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Scanner         handlers.ScanProvider
	RiskManager     handlers.RiskManager
	SettingsService handlers.SettingsProvider
	VenueService    handlers.VenueProvider
	Hub             *websocket.Hub

	// bcrypt-хеш админского токена; пустая строка закрывает
	// изменяющие эндпоинты полностью
	AdminTokenHash string
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── GET    /opportunities       - возможности последнего прохода
//	├── POST   /scan                - внеочередной проход сканера
//	├── /risk/
//	│   ├── GET  /metrics           - риск-метрики портфеля
//	│   ├── GET  /positions         - открытые позиции
//	│   ├── PUT  /positions         - добавить/обновить позицию (admin)
//	│   ├── POST /check             - проверка лимитов без изменений
//	│   ├── POST /reserve           - атомарная проверка + открытие (admin)
//	│   └── POST /evaluate          - оценка возможности
//	├── /venues/
//	│   ├── GET    /                - список площадок
//	│   ├── POST   /                - создать площадку (admin)
//	│   ├── GET    /{name}          - получить площадку
//	│   ├── PUT    /{name}          - обновить площадку (admin)
//	│   └── DELETE /{name}          - удалить площадку (admin)
//	└── /settings/
//	    ├── GET   /                 - получить настройки
//	    └── PATCH /                 - обновить настройки (admin)
//
// /ws/stream - WebSocket для real-time обновлений
// /metrics   - Prometheus метрики
// /health    - проверка живости
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. AdminAuth (только для изменяющих маршрутов)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)

	// API v1: публичная часть и admin-часть с проверкой токена
	api := router.PathPrefix("/api/v1").Subrouter()
	admin := router.PathPrefix("/api/v1").Subrouter()
	admin.Use(middleware.AdminAuth(deps.AdminTokenHash))

	// Scanner routes
	if deps.Scanner != nil {
		opportunitiesHandler := handlers.NewOpportunitiesHandler(deps.Scanner)
		api.HandleFunc("/opportunities", opportunitiesHandler.List).Methods("GET")
		api.HandleFunc("/scan", opportunitiesHandler.TriggerScan).Methods("POST")
	}

	// Risk routes
	if deps.RiskManager != nil {
		riskHandler := handlers.NewRiskHandler(deps.RiskManager)
		api.HandleFunc("/risk/metrics", riskHandler.Metrics).Methods("GET")
		api.HandleFunc("/risk/positions", riskHandler.Positions).Methods("GET")
		api.HandleFunc("/risk/check", riskHandler.Check).Methods("POST")
		api.HandleFunc("/risk/evaluate", riskHandler.Evaluate).Methods("POST")
		admin.HandleFunc("/risk/positions", riskHandler.UpdatePosition).Methods("PUT")
		admin.HandleFunc("/risk/reserve", riskHandler.Reserve).Methods("POST")
	}

	// Venue routes
	if deps.VenueService != nil {
		venueHandler := handlers.NewVenueHandler(deps.VenueService)
		api.HandleFunc("/venues", venueHandler.List).Methods("GET")
		api.HandleFunc("/venues/{name}", venueHandler.Get).Methods("GET")
		admin.HandleFunc("/venues", venueHandler.Create).Methods("POST")
		admin.HandleFunc("/venues/{name}", venueHandler.Update).Methods("PUT")
		admin.HandleFunc("/venues/{name}", venueHandler.Delete).Methods("DELETE")
	}

	// Settings routes
	if deps.SettingsService != nil {
		settingsHandler := handlers.NewSettingsHandler(deps.SettingsService)
		api.HandleFunc("/settings", settingsHandler.Get).Methods("GET")
		admin.HandleFunc("/settings", settingsHandler.Update).Methods("PATCH")
	}

	// WebSocket route
	if deps.Hub != nil {
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, w, r)
		})
	}

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
