package handler

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/usecase"
)

// PetHandler — обработчик HTTP-запросов для объявлений о питомцах.
type PetHandler struct {
	pets          usecase.PetUseCase
	nearby        usecase.NearbyUseCase
	uploadLimiter chan struct{}
	logger        *slog.Logger
}

// NewPetHandler создаёт новый экземпляр PetHandler.
// limiter ограничивает число одновременных запросов с загрузкой изображения.
func NewPetHandler(pets usecase.PetUseCase, nearby usecase.NearbyUseCase, limiter chan struct{}, logger *slog.Logger) *PetHandler {
	return &PetHandler{pets: pets, nearby: nearby, uploadLimiter: limiter, logger: logger}
}

type petRequest struct {
	PetName     string   `json:"petName"`
	PetImgURL   string   `json:"petImgURL"`
	PetState    string   `json:"petState"`
	PetLat      *float64 `json:"petLat"`
	PetLong     *float64 `json:"petLong"`
	PetLocation string   `json:"petLocation"`
}

type petResponse struct {
	*domain.Pet
	IndexWarning string `json:"index_warning,omitempty"`
}

// acquireUpload занимает слот загрузки; false, если клиент ушёл раньше.
func (h *PetHandler) acquireUpload(r *http.Request) bool {
	if h.uploadLimiter == nil {
		return true
	}
	select {
	case h.uploadLimiter <- struct{}{}:
		return true
	case <-r.Context().Done():
		return false
	}
}

func (h *PetHandler) releaseUpload() {
	if h.uploadLimiter != nil {
		<-h.uploadLimiter
	}
}

// CreatePet — POST /users/{userID}/pets
func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		respondWithDomainError(w, err, "CreatePet", h.logger)
		return
	}
	var req petRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, err, "CreatePet", h.logger)
		return
	}

	if !h.acquireUpload(r) {
		respondWithError(w, http.StatusServiceUnavailable, "upload queue is full", h.logger)
		return
	}
	defer h.releaseUpload()

	res, err := h.pets.CreatePet(r.Context(), usecase.CreatePetInput{
		UserID:      userID,
		PetName:     req.PetName,
		Image:       req.PetImgURL,
		PetState:    req.PetState,
		PetLat:      req.PetLat,
		PetLong:     req.PetLong,
		PetLocation: req.PetLocation,
	})
	if err != nil {
		respondWithDomainError(w, err, "CreatePet", h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, petResponse{Pet: res.Pet, IndexWarning: indexWarning(res.IndexErr)}, h.logger)
}

// UpdatePet — PUT /users/{userID}/pets/{petID}
func (h *PetHandler) UpdatePet(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		respondWithDomainError(w, err, "UpdatePet", h.logger)
		return
	}
	petID, err := idParam(r, "petID")
	if err != nil {
		respondWithDomainError(w, err, "UpdatePet", h.logger)
		return
	}
	var req petRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, err, "UpdatePet", h.logger)
		return
	}

	if !h.acquireUpload(r) {
		respondWithError(w, http.StatusServiceUnavailable, "upload queue is full", h.logger)
		return
	}
	defer h.releaseUpload()

	res, err := h.pets.UpdatePet(r.Context(), usecase.UpdatePetInput{
		ID:          petID,
		UserID:      userID,
		PetName:     req.PetName,
		Image:       req.PetImgURL,
		PetState:    req.PetState,
		PetLat:      req.PetLat,
		PetLong:     req.PetLong,
		PetLocation: req.PetLocation,
	})
	if err != nil {
		respondWithDomainError(w, err, "UpdatePet", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, petResponse{Pet: res.Pet, IndexWarning: indexWarning(res.IndexErr)}, h.logger)
}

// DeletePet — DELETE /users/{userID}/pets/{petID}
func (h *PetHandler) DeletePet(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		respondWithDomainError(w, err, "DeletePet", h.logger)
		return
	}
	petID, err := idParam(r, "petID")
	if err != nil {
		respondWithDomainError(w, err, "DeletePet", h.logger)
		return
	}

	res, err := h.pets.DeletePet(r.Context(), petID, userID)
	if err != nil {
		respondWithDomainError(w, err, "DeletePet", h.logger)
		return
	}

	body := map[string]string{"message": "pet deleted"}
	if res.IndexErr != nil {
		body["index_warning"] = res.IndexErr.Error()
	}
	respondWithJSON(w, http.StatusOK, body, h.logger)
}

// GetAllPets — GET /users/{userID}/pets
func (h *PetHandler) GetAllPets(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		respondWithDomainError(w, err, "GetAllPets", h.logger)
		return
	}

	pets, err := h.pets.GetAllPets(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, err, "GetAllPets", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, pets, h.logger)
}

// NearbyPets — GET /pets/nearby?lat=..&lng=..[&radius=..]
func (h *PetHandler) NearbyPets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		respondWithError(w, http.StatusBadRequest, "lat and lng query parameters are required", h.logger)
		return
	}

	var radius float64
	if raw := q.Get("radius"); raw != "" {
		var err error
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
			respondWithError(w, http.StatusBadRequest, "radius must be a positive number of meters", h.logger)
			return
		}
	}

	pets, err := h.nearby.NearbyPets(r.Context(), lat, lng, radius)
	if err != nil {
		respondWithDomainError(w, err, "NearbyPets", h.logger)
		return
	}

	h.logger.Info("nearby pets fetched", "count", len(pets))
	respondWithJSON(w, http.StatusOK, pets, h.logger)
}
