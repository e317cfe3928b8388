package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"arbscan/internal/models"
)

// Ошибки репозитория площадок
var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrVenueExists   = errors.New("venue already exists")
)

// VenueRepository - работа с таблицей venues
type VenueRepository struct {
	db *sql.DB
}

// NewVenueRepository создаёт репозиторий площадок
func NewVenueRepository(db *sql.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

// GetAll возвращает все площадки в порядке имени
func (r *VenueRepository) GetAll() ([]*models.Venue, error) {
	query := `
		SELECT id, name, taker_fee_rate, withdrawal_fees, enabled, updated_at, created_at
		FROM venues
		ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []*models.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}

	return venues, rows.Err()
}

// GetByName возвращает площадку по имени (без учёта регистра)
func (r *VenueRepository) GetByName(name string) (*models.Venue, error) {
	query := `
		SELECT id, name, taker_fee_rate, withdrawal_fees, enabled, updated_at, created_at
		FROM venues
		WHERE lower(name) = lower($1)`

	venue, err := scanVenue(r.db.QueryRow(query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	return venue, nil
}

// Create добавляет площадку. Имя нормализуется к нижнему регистру.
func (r *VenueRepository) Create(venue *models.Venue) error {
	feesJSON, err := json.Marshal(venue.WithdrawalFees)
	if err != nil {
		return err
	}

	venue.Name = strings.ToLower(venue.Name)
	now := time.Now()
	venue.CreatedAt = now
	venue.UpdatedAt = now

	query := `
		INSERT INTO venues (name, taker_fee_rate, withdrawal_fees, enabled, updated_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err = r.db.QueryRow(query,
		venue.Name,
		venue.TakerFeeRate,
		feesJSON,
		venue.Enabled,
		venue.UpdatedAt,
		venue.CreatedAt,
	).Scan(&venue.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrVenueExists
		}
		return err
	}

	return nil
}

// Update обновляет комиссионную схему площадки
func (r *VenueRepository) Update(venue *models.Venue) error {
	feesJSON, err := json.Marshal(venue.WithdrawalFees)
	if err != nil {
		return err
	}

	venue.UpdatedAt = time.Now()

	query := `
		UPDATE venues
		SET taker_fee_rate = $1, withdrawal_fees = $2, enabled = $3, updated_at = $4
		WHERE lower(name) = lower($5)`

	result, err := r.db.Exec(query,
		venue.TakerFeeRate,
		feesJSON,
		venue.Enabled,
		venue.UpdatedAt,
		venue.Name,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrVenueNotFound
	}

	return nil
}

// Delete удаляет площадку по имени
func (r *VenueRepository) Delete(name string) error {
	result, err := r.db.Exec(`DELETE FROM venues WHERE lower(name) = lower($1)`, name)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrVenueNotFound
	}

	return nil
}

// scanner - общий интерфейс sql.Row и sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanVenue читает строку таблицы venues
func scanVenue(row scanner) (*models.Venue, error) {
	venue := &models.Venue{}
	var feesJSON []byte

	err := row.Scan(
		&venue.ID,
		&venue.Name,
		&venue.TakerFeeRate,
		&feesJSON,
		&venue.Enabled,
		&venue.UpdatedAt,
		&venue.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(feesJSON) > 0 {
		if err := json.Unmarshal(feesJSON, &venue.WithdrawalFees); err != nil {
			return nil, err
		}
	}

	return venue, nil
}

// isUniqueViolation распознаёт нарушение уникальности имени.
// Код 23505 - unique_violation в PostgreSQL.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
