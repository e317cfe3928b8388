package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"arbscan/internal/api"
	"arbscan/internal/config"
	"arbscan/internal/engine"
	"arbscan/internal/feed"
	"arbscan/internal/models"
	"arbscan/internal/repository"
	"arbscan/internal/risk"
	"arbscan/internal/service"
	"arbscan/internal/websocket"
	"arbscan/pkg/retry"
	"arbscan/pkg/utils"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	// Инициализация логгера
	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных с повторами: при старте вместе с
	// контейнером БД может быть ещё не готова
	db, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к базе данных", utils.Err(err))
	}
	defer db.Close()
	logger.Info("подключение к базе данных установлено")

	// Репозитории
	settingsRepo := repository.NewSettingsRepository(db)
	venueRepo := repository.NewVenueRepository(db)

	// Таблица комиссий и детектор
	feeTable := engine.NewFeeTable(nil)
	detector := engine.NewDetector(feeTable, cfg.Scanner.ProfitThresholdPct, logger)

	// Риск-менеджер
	riskMgr, err := risk.NewManager(
		cfg.Risk.InitialCapital,
		cfg.Risk.RiskFreeRate,
		risk.Limits{
			MaxUtilization:   cfg.Risk.MaxUtilization,
			MaxPositionSize:  cfg.Risk.MaxPositionSize,
			MaxDrawdownLimit: cfg.Risk.MaxDrawdownLimit,
		},
		logger,
	)
	if err != nil {
		logger.Fatal("не удалось создать риск-менеджер", utils.Err(err))
	}

	// Сервисы. Изменения настроек через API сразу применяются
	// к детектору и риск-менеджеру.
	settingsService := service.NewSettingsService(settingsRepo, logger,
		service.ApplierFunc(func(s *models.Settings) {
			detector.SetThreshold(s.ProfitThresholdPct)
		}),
		service.ApplierFunc(func(s *models.Settings) {
			riskMgr.SetLimits(risk.Limits{
				MaxUtilization:   s.MaxUtilization,
				MaxPositionSize:  s.MaxPositionSize,
				MaxDrawdownLimit: s.MaxDrawdownLimit,
			})
		}),
	)
	venueService := service.NewVenueService(venueRepo, feeTable, logger)

	// Применяем сохранённые в БД настройки и комиссии площадок
	applyStoredState(settingsService, venueService, detector, riskMgr, logger)

	// Источники котировок
	aggregator, err := buildAggregator(cfg, logger)
	if err != nil {
		logger.Fatal("не удалось создать агрегатор котировок", utils.Err(err))
	}

	// WebSocket hub
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// Сканер
	scanner := engine.NewScanner(
		cfg.Scanner.Symbols,
		cfg.Scanner.ScanInterval,
		aggregator,
		detector,
		riskMgr,
		hub,
		logger,
	)
	go scanner.Run(ctx)

	// HTTP роутер и сервер
	router := api.SetupRoutes(&api.Dependencies{
		Scanner:         scanner,
		RiskManager:     riskMgr,
		SettingsService: settingsService,
		VenueService:    venueService,
		Hub:             hub,
		AdminTokenHash:  cfg.Security.AdminTokenHash,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("сервер запущен", utils.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("сервер остановился с ошибкой", utils.Err(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("сервер остановлен принудительно", utils.Err(err))
		return
	}
	logger.Info("сервер остановлен")
}

// connectDatabase подключается к БД с экспоненциальными повторами
func connectDatabase(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*sql.DB, error) {
	retryCfg := retry.NetworkConfig()
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn("база данных недоступна, повтор",
			utils.Int("attempt", attempt),
			utils.String("delay", delay.String()),
			utils.Err(err),
		)
	}

	return retry.DoWithResult(ctx, func() (*sql.DB, error) {
		return repository.Connect(ctx, cfg.Database.DSN())
	}, retryCfg)
}

// applyStoredState загружает настройки и комиссии из БД.
// Отказ не фатален: сканер стартует на значениях из окружения
// и встроенных комиссиях по умолчанию.
func applyStoredState(
	settings *service.SettingsService,
	venues *service.VenueService,
	detector *engine.Detector,
	riskMgr *risk.Manager,
	logger *utils.Logger,
) {
	if stored, err := settings.GetSettings(); err != nil {
		logger.Warn("не удалось загрузить настройки из БД", utils.Err(err))
	} else {
		detector.SetThreshold(stored.ProfitThresholdPct)
		riskMgr.SetLimits(risk.Limits{
			MaxUtilization:   stored.MaxUtilization,
			MaxPositionSize:  stored.MaxPositionSize,
			MaxDrawdownLimit: stored.MaxDrawdownLimit,
		})
	}

	if err := venues.LoadFeeTable(); err != nil {
		logger.Warn("не удалось загрузить таблицу комиссий из БД", utils.Err(err))
	}
}

// buildAggregator создаёт источники котировок для настроенных площадок
func buildAggregator(cfg *config.Config, logger *utils.Logger) (*feed.Aggregator, error) {
	sources := make([]feed.QuoteSource, 0, len(cfg.Scanner.Venues))
	for _, name := range cfg.Scanner.Venues {
		src, err := feed.NewBuiltinSource(name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return feed.NewAggregator(sources, cfg.Scanner.FetchTimeout, logger)
}
