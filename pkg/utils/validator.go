package utils

import (
	"fmt"
	"strings"
)

// validator.go - валидация входных данных API и конфигурации

// ValidateSymbol проверяет формат торгового символа "BASE/QUOTE".
//
// Требования: непустые базовый и котируемый активы, один разделитель '/'.
// Регистр не проверяется - символы нормализует вызывающий код.
func ValidateSymbol(symbol string) error {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid symbol %q: expected BASE/QUOTE format", symbol)
	}
	return nil
}

// ValidateVenueName проверяет название площадки
func ValidateVenueName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("venue name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("venue name %q exceeds 64 characters", name)
	}
	return nil
}

// ValidateFeeRate проверяет комиссию, заданную долей (0.001 = 0.1%)
func ValidateFeeRate(rate float64) error {
	if rate < 0 {
		return fmt.Errorf("fee rate cannot be negative, got %f", rate)
	}
	if rate >= 1 {
		return fmt.Errorf("fee rate must be a fraction below 1.0, got %f", rate)
	}
	return nil
}

// ValidatePositiveAmount проверяет, что сумма/объём строго положительны
func ValidatePositiveAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %f", amount)
	}
	return nil
}

// ValidateFraction проверяет долю в диапазоне (0, 1]
func ValidateFraction(name string, value float64) error {
	if value <= 0 || value > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %f", name, value)
	}
	return nil
}
