//go:build integration

// Package integration contains integration tests for the arbitrage scanner.
//
// These tests verify the correct interaction between components:
// - API integration tests: full HTTP request cycle against a real database
// - WebSocket tests: connection, broadcast messaging
// - Scanner tests: quote fetch, detection and broadcast against stub venues
//
// Integration tests use build tag "integration" to separate from unit tests.
// Run with: go test -tags=integration ./tests/integration/...
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"arbscan/internal/api"
	"arbscan/internal/engine"
	"arbscan/internal/feed"
	"arbscan/internal/models"
	"arbscan/internal/repository"
	"arbscan/internal/risk"
	"arbscan/internal/service"
	"arbscan/internal/websocket"
	"arbscan/pkg/crypto"
	"arbscan/pkg/utils"
)

// AdminToken is the plaintext token used against the admin endpoints.
// Its bcrypt hash is wired into the router during setup.
const AdminToken = "integration-admin-token"

// TestConfig contains configuration for integration tests
type TestConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
}

// TestServer encapsulates all components needed for integration testing
type TestServer struct {
	DB       *sql.DB
	Router   *mux.Router
	Server   *httptest.Server
	Hub      *websocket.Hub
	Scanner  *engine.Scanner
	RiskMgr  *risk.Manager
	Cleanup  func()

	// Stub venue servers returning fixed bid/ask quotes
	BinanceStub *httptest.Server
	KrakenStub  *httptest.Server
}

// getTestConfig returns configuration from environment variables or defaults
func getTestConfig() TestConfig {
	return TestConfig{
		DBHost:     getEnv("TEST_DB_HOST", "localhost"),
		DBPort:     getEnv("TEST_DB_PORT", "5432"),
		DBName:     getEnv("TEST_DB_NAME", "arbscan_test"),
		DBUser:     getEnv("TEST_DB_USER", "postgres"),
		DBPassword: getEnv("TEST_DB_PASSWORD", "postgres"),
		DBSSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	}
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SetupTestDB creates a test database connection
func SetupTestDB(t *testing.T) (*sql.DB, func()) {
	config := getTestConfig()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil, func() {}
	}

	if err := db.Ping(); err != nil {
		t.Skipf("Skipping integration test: cannot ping database: %v", err)
		return nil, func() {}
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, func() { db.Close() }
}

// stubQuoteServer returns an httptest server that always answers
// with the given bid/ask in the default {"bid":...,"ask":...} format
func stubQuoteServer(bid, ask float64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"bid": %f, "ask": %f}`, bid, ask)
	}))
}

// SetupTestServer creates a complete test server with all components.
//
// The two stub venues produce a known profitable spread on BTC/USDT:
// buy at binance ask 50000, sell at kraken bid 50500. With the seeded
// fee schedules the detector must report a net profit of 394.5 USD.
func SetupTestServer(t *testing.T) *TestServer {
	db, dbCleanup := SetupTestDB(t)
	if db == nil {
		return nil
	}

	if err := initTestTables(db); err != nil {
		dbCleanup()
		t.Skipf("Skipping integration test: cannot initialize tables: %v", err)
		return nil
	}

	logger := utils.InitLogger(utils.LogConfig{Level: "error", Format: "json"})

	// Stub venues
	binanceStub := stubQuoteServer(49990, 50000)
	krakenStub := stubQuoteServer(50500, 50510)

	binanceSrc, err := feed.NewRESTSource(feed.RESTSourceConfig{
		Name:        "binance",
		URLTemplate: binanceStub.URL + "/ticker/%s",
	})
	if err != nil {
		t.Fatalf("failed to create binance stub source: %v", err)
	}
	krakenSrc, err := feed.NewRESTSource(feed.RESTSourceConfig{
		Name:        "kraken",
		URLTemplate: krakenStub.URL + "/ticker/%s",
	})
	if err != nil {
		t.Fatalf("failed to create kraken stub source: %v", err)
	}

	aggregator, err := feed.NewAggregator([]feed.QuoteSource{binanceSrc, krakenSrc}, 2*time.Second, logger)
	if err != nil {
		t.Fatalf("failed to create aggregator: %v", err)
	}

	// Core components
	feeTable := engine.NewFeeTable(nil)
	detector := engine.NewDetector(feeTable, 0.1, logger)

	riskMgr, err := risk.NewManager(10000, 0.02, risk.DefaultLimits(), logger)
	if err != nil {
		t.Fatalf("failed to create risk manager: %v", err)
	}

	// Services on top of the real database
	settingsRepo := repository.NewSettingsRepository(db)
	venueRepo := repository.NewVenueRepository(db)

	settingsService := service.NewSettingsService(settingsRepo, logger,
		service.ApplierFunc(func(s *models.Settings) { detector.SetThreshold(s.ProfitThresholdPct) }),
	)
	venueService := service.NewVenueService(venueRepo, feeTable, logger)
	if err := venueService.LoadFeeTable(); err != nil {
		t.Fatalf("failed to load fee table: %v", err)
	}

	// Hub and scanner
	ctx, cancel := context.WithCancel(context.Background())
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	scanner := engine.NewScanner(
		[]string{"BTC/USDT"},
		100*time.Millisecond,
		aggregator,
		detector,
		riskMgr,
		hub,
		logger,
	)
	go scanner.Run(ctx)

	// Router and HTTP server
	tokenHash, err := crypto.HashSecretWithCost(AdminToken, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash admin token: %v", err)
	}

	router := api.SetupRoutes(&api.Dependencies{
		Scanner:         scanner,
		RiskManager:     riskMgr,
		SettingsService: settingsService,
		VenueService:    venueService,
		Hub:             hub,
		AdminTokenHash:  tokenHash,
	})
	server := httptest.NewServer(router)

	cleanup := func() {
		cancel()
		server.Close()
		binanceStub.Close()
		krakenStub.Close()
		cleanupTestTables(db)
		dbCleanup()
	}

	return &TestServer{
		DB:          db,
		Router:      router,
		Server:      server,
		Hub:         hub,
		Scanner:     scanner,
		RiskMgr:     riskMgr,
		Cleanup:     cleanup,
		BinanceStub: binanceStub,
		KrakenStub:  krakenStub,
	}
}

// initTestTables creates tables and seeds the venues used by the stubs
func initTestTables(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			id INT PRIMARY KEY DEFAULT 1,
			profit_threshold_pct DECIMAL(10, 4) DEFAULT 0.1,
			max_utilization DECIMAL(5, 4) DEFAULT 0.80,
			max_position_size DECIMAL(5, 4) DEFAULT 0.20,
			max_drawdown_limit DECIMAL(5, 4) DEFAULT 0.15,
			updated_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS venues (
			id SERIAL PRIMARY KEY,
			name VARCHAR(50) UNIQUE NOT NULL,
			taker_fee_rate DECIMAL(10, 6) NOT NULL DEFAULT 0.002,
			withdrawal_fees JSONB DEFAULT '{}',
			enabled BOOLEAN DEFAULT true,
			updated_at TIMESTAMP DEFAULT NOW(),
			created_at TIMESTAMP DEFAULT NOW()
		)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if _, err := db.Exec(`INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
		return fmt.Errorf("failed to insert default settings: %w", err)
	}

	seed := `
		INSERT INTO venues (name, taker_fee_rate, withdrawal_fees, enabled)
		VALUES
			('binance', 0.001, '{"BTC": 0.0001}', true),
			('kraken',  0.001, '{"BTC": 0.0001}', true)
		ON CONFLICT (name) DO UPDATE
		SET taker_fee_rate = EXCLUDED.taker_fee_rate,
		    withdrawal_fees = EXCLUDED.withdrawal_fees,
		    enabled = EXCLUDED.enabled`
	if _, err := db.Exec(seed); err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	return nil
}

// cleanupTestTables removes test data
func cleanupTestTables(db *sql.DB) {
	db.Exec(`DELETE FROM venues`)
	db.Exec(`DELETE FROM settings`)
}
