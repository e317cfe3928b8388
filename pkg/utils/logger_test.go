package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ============================================================
// Тесты InitLogger
// ============================================================

func TestInitLogger_Defaults(t *testing.T) {
	logger := InitLogger(LogConfig{})

	if logger == nil {
		t.Fatal("InitLogger вернул nil")
	}
	if logger.Logger == nil || logger.sugar == nil {
		t.Fatal("внутренние логгеры не инициализированы")
	}
}

func TestInitLogger_AllLevels(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "fatal", "invalid", ""}

	for _, level := range levels {
		t.Run(level, func(t *testing.T) {
			if logger := InitLogger(LogConfig{Level: level}); logger == nil {
				t.Fatalf("InitLogger вернул nil для уровня %q", level)
			}
		})
	}
}

func TestInitLogger_FileOutput(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "arbscan_logger_*.log")
	if err != nil {
		t.Fatalf("не удалось создать временный файл: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	logger := InitLogger(LogConfig{
		Level:  "info",
		Format: "json",
		Output: tmpFile.Name(),
	})

	logger.Info("test message", zap.String("key", "value"))
	logger.Sync()

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		t.Fatalf("не удалось прочитать лог-файл: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("лог-файл пуст")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Errorf("запись не является валидным JSON: %v", err)
	}
}

func TestInitLogger_InvalidFileOutput(t *testing.T) {
	// Несуществующая директория - fallback на stderr, без паники
	logger := InitLogger(LogConfig{
		Level:  "info",
		Output: "/nonexistent/directory/log.txt",
	})
	if logger == nil {
		t.Fatal("InitLogger вернул nil при невалидном Output")
	}
}

// ============================================================
// Тесты parseLevel
// ============================================================

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"invalid", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, ожидали %v", tt.input, got, tt.expected)
		}
	}
}

// ============================================================
// Тесты глобального логгера
// ============================================================

func TestGlobalLogger(t *testing.T) {
	globalMu.Lock()
	globalLogger = nil
	globalMu.Unlock()

	logger := GetGlobalLogger()
	if logger == nil {
		t.Fatal("GetGlobalLogger вернул nil")
	}

	if GetGlobalLogger() != logger {
		t.Error("повторный вызов должен возвращать тот же логгер")
	}
	if L() != logger {
		t.Error("L() должен возвращать глобальный логгер")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	logger := InitLogger(LogConfig{Level: "warn"})
	SetGlobalLogger(logger)

	if GetGlobalLogger() != logger {
		t.Error("SetGlobalLogger не установил логгер")
	}
}

// ============================================================
// Тесты конструкторов полей
// ============================================================

func TestFieldConstructors(t *testing.T) {
	var buf bytes.Buffer

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			MessageKey: "message",
			LevelKey:   "level",
		}),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	zl := zap.New(core)
	testLogger := &Logger{Logger: zl, sugar: zl.Sugar()}

	testLogger.Info("test",
		Venue("binance"),
		Symbol("BTC/USDT"),
		Price(50000.5),
		Spread(0.79),
		Profit(394.5),
		Latency(12.5),
		Component("detector"),
	)
	testLogger.Sync()

	output := buf.String()
	for _, want := range []string{
		"venue", "binance",
		"symbol", "BTC/USDT",
		"price", "50000.5",
		"spread_pct", "0.79",
		"profit_usd", "394.5",
		"latency_ms", "12.5",
		"component", "detector",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("в выводе нет %q: %s", want, output)
		}
	}
}

func TestWithHelpers(t *testing.T) {
	logger := InitLogger(LogConfig{Level: "info"})

	tests := []struct {
		name   string
		helper func() *Logger
	}{
		{"WithComponent", func() *Logger { return logger.WithComponent("scanner") }},
		{"WithVenue", func() *Logger { return logger.WithVenue("kraken") }},
		{"WithSymbol", func() *Logger { return logger.WithSymbol("ETH/USDT") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			child := tt.helper()
			if child == nil {
				t.Fatalf("%s вернул nil", tt.name)
			}
			if child == logger {
				t.Errorf("%s должен возвращать новый логгер", tt.name)
			}
		})
	}
}
