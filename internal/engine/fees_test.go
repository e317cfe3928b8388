package engine

import (
	"testing"

	"arbscan/internal/models"
)

func TestFeeTable_Lookup(t *testing.T) {
	table := NewFeeTable(map[string]models.FeeSchedule{
		"Binance": {
			TakerFeeRate:   0.001,
			WithdrawalFees: map[string]float64{"BTC": 0.0005},
		},
		"default": {
			TakerFeeRate: 0.0015,
		},
	})

	tests := []struct {
		name      string
		venue     string
		wantTaker float64
	}{
		{"точное совпадение", "Binance", 0.001},
		{"нижний регистр", "binance", 0.001},
		{"верхний регистр", "BINANCE", 0.001},
		{"неизвестная площадка - default", "kraken", 0.0015},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Lookup(tt.venue).TakerFeeRate; got != tt.wantTaker {
				t.Errorf("Lookup(%q).TakerFeeRate = %f, ожидали %f", tt.venue, got, tt.wantTaker)
			}
		})
	}
}

func TestFeeTable_FallbackDefaults(t *testing.T) {
	// Без схемы "default" используются встроенные консервативные значения
	table := NewFeeTable(map[string]models.FeeSchedule{
		"binance": {TakerFeeRate: 0.001},
	})

	schedule := table.Lookup("unknown")
	if schedule.TakerFeeRate != DefaultTakerFeeRate {
		t.Errorf("TakerFeeRate = %f, ожидали %f", schedule.TakerFeeRate, DefaultTakerFeeRate)
	}
	if fee := schedule.WithdrawalFee("BTC"); fee != DefaultWithdrawalFee {
		t.Errorf("WithdrawalFee = %f, ожидали %f", fee, DefaultWithdrawalFee)
	}
}

func TestFeeTable_EmptyTable(t *testing.T) {
	table := NewFeeTable(nil)

	if got := table.Lookup("anything").TakerFeeRate; got != DefaultTakerFeeRate {
		t.Errorf("пустая таблица должна давать дефолт %f, получили %f", DefaultTakerFeeRate, got)
	}
}

func TestFeeTable_Update(t *testing.T) {
	table := NewFeeTable(nil)

	table.Update("Kraken", models.FeeSchedule{TakerFeeRate: 0.0026})

	if got := table.Lookup("kraken").TakerFeeRate; got != 0.0026 {
		t.Errorf("после Update: TakerFeeRate = %f, ожидали 0.0026", got)
	}
}

func TestFeeTable_Replace(t *testing.T) {
	table := NewFeeTable(map[string]models.FeeSchedule{
		"binance": {TakerFeeRate: 0.001},
	})

	table.Replace(map[string]models.FeeSchedule{
		"OKX": {TakerFeeRate: 0.0008},
	})

	if got := table.Lookup("okx").TakerFeeRate; got != 0.0008 {
		t.Errorf("после Replace: TakerFeeRate = %f, ожидали 0.0008", got)
	}
	// Старая схема должна исчезнуть
	if got := table.Lookup("binance").TakerFeeRate; got != DefaultTakerFeeRate {
		t.Errorf("старая схема пережила Replace: %f", got)
	}
}
