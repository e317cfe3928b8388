package service

import (
	"fmt"

	"arbscan/internal/engine"
	"arbscan/internal/models"
	"arbscan/pkg/utils"
)

// VenueService управляет площадками и их комиссионными схемами.
//
// Держит таблицу комиссий детектора в актуальном состоянии:
// любое изменение площадки сразу перечитывает таблицу из БД.
type VenueService struct {
	store  VenueStore
	fees   *engine.FeeTable
	logger *utils.Logger
}

// NewVenueService создаёт сервис площадок
func NewVenueService(store VenueStore, fees *engine.FeeTable, logger *utils.Logger) *VenueService {
	if logger == nil {
		logger = utils.L()
	}
	return &VenueService{
		store:  store,
		fees:   fees,
		logger: logger.WithComponent("venues"),
	}
}

// LoadFeeTable перечитывает комиссионные схемы всех площадок из БД
// и атомарно заменяет таблицу детектора. Отключённые площадки
// в таблицу не попадают.
func (s *VenueService) LoadFeeTable() error {
	venues, err := s.store.GetAll()
	if err != nil {
		return fmt.Errorf("load venues: %w", err)
	}

	schedules := make(map[string]models.FeeSchedule, len(venues))
	for _, venue := range venues {
		if !venue.Enabled && venue.Name != models.DefaultVenueKey {
			continue
		}
		schedules[venue.Name] = venue.Schedule()
	}

	s.fees.Replace(schedules)
	s.logger.Info("таблица комиссий загружена", utils.Int("venues", len(schedules)))
	return nil
}

// ListVenues возвращает все площадки
func (s *VenueService) ListVenues() ([]*models.Venue, error) {
	return s.store.GetAll()
}

// GetVenue возвращает площадку по имени
func (s *VenueService) GetVenue(name string) (*models.Venue, error) {
	return s.store.GetByName(name)
}

// CreateVenue валидирует и добавляет площадку
func (s *VenueService) CreateVenue(venue *models.Venue) error {
	if err := validateVenue(venue); err != nil {
		return err
	}
	if err := s.store.Create(venue); err != nil {
		return err
	}
	return s.LoadFeeTable()
}

// UpdateVenue валидирует и обновляет комиссионную схему площадки
func (s *VenueService) UpdateVenue(venue *models.Venue) error {
	if err := validateVenue(venue); err != nil {
		return err
	}
	if err := s.store.Update(venue); err != nil {
		return err
	}
	return s.LoadFeeTable()
}

// DeleteVenue удаляет площадку
func (s *VenueService) DeleteVenue(name string) error {
	if err := s.store.Delete(name); err != nil {
		return err
	}
	return s.LoadFeeTable()
}

// validateVenue проверяет имя и комиссии площадки
func validateVenue(venue *models.Venue) error {
	if err := utils.ValidateVenueName(venue.Name); err != nil {
		return err
	}
	if err := utils.ValidateFeeRate(venue.TakerFeeRate); err != nil {
		return err
	}
	for asset, fee := range venue.WithdrawalFees {
		if fee < 0 {
			return fmt.Errorf("withdrawal fee for %s cannot be negative, got %f", asset, fee)
		}
	}
	return nil
}
