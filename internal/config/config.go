package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Scanner  ScannerConfig
	Risk     RiskConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// SecurityConfig - настройки доступа к служебным эндпоинтам
type SecurityConfig struct {
	// AdminTokenHash - bcrypt-хеш токена для /settings и /venues.
	// Пустое значение отключает защищённые эндпоинты.
	AdminTokenHash string
}

// ScannerConfig - настройки сканера возможностей
type ScannerConfig struct {
	// Symbols - торговые пары в формате BASE/QUOTE
	Symbols []string

	// Venues - имена опрашиваемых площадок
	Venues []string

	// ProfitThresholdPct - минимальный чистый профит в процентах
	ProfitThresholdPct float64

	// ScanInterval - период между проходами сканера
	ScanInterval time.Duration

	// FetchTimeout - таймаут запроса котировки у одного источника
	FetchTimeout time.Duration
}

// RiskConfig - настройки риск-менеджера
type RiskConfig struct {
	InitialCapital float64
	RiskFreeRate   float64 // годовая безрисковая ставка для Sharpe

	MaxUtilization   float64 // доля капитала в позициях
	MaxPositionSize  float64 // доля капитала на одну позицию
	MaxDrawdownLimit float64 // допустимая текущая просадка
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "arbscan"),
			User:     getEnv("DB_USER", "arbscan"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Security: SecurityConfig{
			AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),
		},
		Scanner: ScannerConfig{
			Symbols:            getEnvAsList("SCAN_SYMBOLS", []string{"BTC/USDT", "ETH/USDT"}),
			Venues:             getEnvAsList("SCAN_VENUES", []string{"binance", "kraken"}),
			ProfitThresholdPct: getEnvAsFloat("PROFIT_THRESHOLD_PCT", 0.1),
			ScanInterval:       getEnvAsDuration("SCAN_INTERVAL", 5*time.Second),
			FetchTimeout:       getEnvAsDuration("FETCH_TIMEOUT", 3*time.Second),
		},
		Risk: RiskConfig{
			InitialCapital:   getEnvAsFloat("INITIAL_CAPITAL", 10000),
			RiskFreeRate:     getEnvAsFloat("RISK_FREE_RATE", 0.02),
			MaxUtilization:   getEnvAsFloat("MAX_UTILIZATION", 0.80),
			MaxPositionSize:  getEnvAsFloat("MAX_POSITION_SIZE", 0.20),
			MaxDrawdownLimit: getEnvAsFloat("MAX_DRAWDOWN_LIMIT", 0.15),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate проверяет диапазоны критичных параметров
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	if len(c.Scanner.Symbols) == 0 {
		return fmt.Errorf("SCAN_SYMBOLS cannot be empty")
	}
	if len(c.Scanner.Venues) < 2 {
		return fmt.Errorf("SCAN_VENUES requires at least 2 venues, got %d", len(c.Scanner.Venues))
	}
	if c.Scanner.ProfitThresholdPct < 0 {
		return fmt.Errorf("PROFIT_THRESHOLD_PCT cannot be negative, got %f", c.Scanner.ProfitThresholdPct)
	}
	if c.Scanner.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be positive, got %v", c.Scanner.ScanInterval)
	}
	if c.Scanner.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %v", c.Scanner.FetchTimeout)
	}

	if c.Risk.InitialCapital <= 0 {
		return fmt.Errorf("INITIAL_CAPITAL must be positive, got %f", c.Risk.InitialCapital)
	}
	if c.Risk.RiskFreeRate < 0 || c.Risk.RiskFreeRate >= 1 {
		return fmt.Errorf("RISK_FREE_RATE must be in [0, 1), got %f", c.Risk.RiskFreeRate)
	}
	for name, value := range map[string]float64{
		"MAX_UTILIZATION":    c.Risk.MaxUtilization,
		"MAX_POSITION_SIZE":  c.Risk.MaxPositionSize,
		"MAX_DRAWDOWN_LIMIT": c.Risk.MaxDrawdownLimit,
	} {
		if value <= 0 || value > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %f", name, value)
		}
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList читает список значений, разделённых запятыми
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
