package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"arbscan/internal/models"
	"arbscan/internal/repository"
)

// VenueProvider - операции сервиса площадок
type VenueProvider interface {
	ListVenues() ([]*models.Venue, error)
	GetVenue(name string) (*models.Venue, error)
	CreateVenue(venue *models.Venue) error
	UpdateVenue(venue *models.Venue) error
	DeleteVenue(name string) error
}

// VenueHandler - эндпоинты управления площадками
type VenueHandler struct {
	service VenueProvider
}

// NewVenueHandler создаёт обработчик
func NewVenueHandler(service VenueProvider) *VenueHandler {
	return &VenueHandler{service: service}
}

// List возвращает все площадки
//
// GET /api/v1/venues
func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	venues, err := h.service.ListVenues()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load venues")
		return
	}
	if venues == nil {
		venues = []*models.Venue{}
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Data: venues})
}

// Get возвращает площадку по имени
//
// GET /api/v1/venues/{name}
func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	venue, err := h.service.GetVenue(name)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			respondError(w, http.StatusNotFound, "venue not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load venue")
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Data: venue})
}

// Create добавляет новую площадку
//
// POST /api/v1/venues
func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var venue models.Venue
	if err := jsonAPI.NewDecoder(r.Body).Decode(&venue); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.CreateVenue(&venue); err != nil {
		if errors.Is(err, repository.ErrVenueExists) {
			respondError(w, http.StatusConflict, "venue already exists")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, SuccessResponse{Message: "venue created", Data: venue})
}

// Update обновляет комиссионную схему площадки
//
// PUT /api/v1/venues/{name}
func (h *VenueHandler) Update(w http.ResponseWriter, r *http.Request) {
	var venue models.Venue
	if err := jsonAPI.NewDecoder(r.Body).Decode(&venue); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Имя берётся из пути, тело его не переопределяет
	venue.Name = mux.Vars(r)["name"]

	if err := h.service.UpdateVenue(&venue); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			respondError(w, http.StatusNotFound, "venue not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "venue updated", Data: venue})
}

// Delete удаляет площадку
//
// DELETE /api/v1/venues/{name}
func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.service.DeleteVenue(name); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			respondError(w, http.StatusNotFound, "venue not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete venue")
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "venue deleted"})
}
