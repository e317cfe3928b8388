package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"arbscan/internal/models"
)

var venueColumns = []string{"id", "name", "taker_fee_rate", "withdrawal_fees", "enabled", "updated_at", "created_at"}

func venueRow(id int, name string, taker float64, fees map[string]float64) []driver.Value {
	feesJSON, _ := json.Marshal(fees)
	now := time.Now()
	return []driver.Value{id, name, taker, feesJSON, true, now, now}
}

// ============================================================
// VenueRepository Tests
// ============================================================

func TestVenueRepositoryGetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(venueColumns).
		AddRow(venueRow(1, "binance", 0.001, map[string]float64{"BTC": 0.0005})...).
		AddRow(venueRow(2, "kraken", 0.0026, nil)...)
	mock.ExpectQuery(`SELECT .+ FROM venues ORDER BY name`).WillReturnRows(rows)

	repo := NewVenueRepository(db)
	venues, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	if len(venues) != 2 {
		t.Fatalf("ожидали 2 площадки, получили %d", len(venues))
	}
	if venues[0].Name != "binance" || venues[0].TakerFeeRate != 0.001 {
		t.Errorf("первая площадка: %+v", venues[0])
	}
	if venues[0].WithdrawalFees["BTC"] != 0.0005 {
		t.Errorf("withdrawal_fees не десериализованы: %+v", venues[0].WithdrawalFees)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("неисполненные ожидания: %v", err)
	}
}

func TestVenueRepositoryGetByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(venueColumns).
		AddRow(venueRow(1, "binance", 0.001, map[string]float64{"BTC": 0.0005})...)
	mock.ExpectQuery(`SELECT .+ FROM venues WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("Binance").
		WillReturnRows(rows)

	repo := NewVenueRepository(db)
	venue, err := repo.GetByName("Binance")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if venue.Name != "binance" {
		t.Errorf("Name = %q", venue.Name)
	}
}

func TestVenueRepositoryGetByName_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM venues`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(venueColumns))

	repo := NewVenueRepository(db)
	if _, err := repo.GetByName("ghost"); !errors.Is(err, ErrVenueNotFound) {
		t.Errorf("ожидали ErrVenueNotFound, получили %v", err)
	}
}

func TestVenueRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	feesJSON, _ := json.Marshal(map[string]float64{"BTC": 0.0005})
	mock.ExpectQuery(`INSERT INTO venues`).
		WithArgs("okx", 0.0008, feesJSON, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	repo := NewVenueRepository(db)
	venue := &models.Venue{
		Name:           "OKX", // нормализуется к нижнему регистру
		TakerFeeRate:   0.0008,
		WithdrawalFees: map[string]float64{"BTC": 0.0005},
		Enabled:        true,
	}
	if err := repo.Create(venue); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if venue.ID != 7 {
		t.Errorf("ID = %d, ожидали 7", venue.ID)
	}
	if venue.Name != "okx" {
		t.Errorf("Name = %q, имя должно нормализоваться", venue.Name)
	}
}

func TestVenueRepositoryCreate_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO venues`).
		WillReturnError(&pq.Error{Code: "23505"})

	repo := NewVenueRepository(db)
	err = repo.Create(&models.Venue{Name: "binance", TakerFeeRate: 0.001})
	if !errors.Is(err, ErrVenueExists) {
		t.Errorf("ожидали ErrVenueExists, получили %v", err)
	}
}

func TestVenueRepositoryUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	feesJSON, _ := json.Marshal(map[string]float64{"ETH": 0.002})
	mock.ExpectExec(`UPDATE venues`).
		WithArgs(0.0015, feesJSON, true, sqlmock.AnyArg(), "binance").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewVenueRepository(db)
	err = repo.Update(&models.Venue{
		Name:           "binance",
		TakerFeeRate:   0.0015,
		WithdrawalFees: map[string]float64{"ETH": 0.002},
		Enabled:        true,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
}

func TestVenueRepositoryUpdate_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE venues`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewVenueRepository(db)
	err = repo.Update(&models.Venue{Name: "ghost"})
	if !errors.Is(err, ErrVenueNotFound) {
		t.Errorf("ожидали ErrVenueNotFound, получили %v", err)
	}
}

func TestVenueRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM venues`).
		WithArgs("binance").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewVenueRepository(db)
	if err := repo.Delete("binance"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	mock.ExpectExec(`DELETE FROM venues`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete("ghost"); !errors.Is(err, ErrVenueNotFound) {
		t.Errorf("ожидали ErrVenueNotFound, получили %v", err)
	}
}
