package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PetFinder/internal/domain"
	"github.com/GoArmGo/PetFinder/internal/usecase"
)

// UserHandler — регистрация, вход и личные данные пользователя.
type UserHandler struct {
	users  usecase.UserUseCase
	logger *slog.Logger
}

func NewUserHandler(users usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type registerRequest struct {
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Localidad string `json:"localidad"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Fullname  string   `json:"fullname"`
	Localidad string   `json:"localidad"`
	UserLat   *float64 `json:"userLat"`
	UserLong  *float64 `json:"userLong"`
}

type userResponse struct {
	*domain.User
	IndexWarning string `json:"index_warning,omitempty"`
}

// Register — POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, err, "Register", h.logger)
		return
	}

	res, err := h.users.RegisterUser(r.Context(), usecase.RegisterInput{
		Fullname:  req.Fullname,
		Email:     req.Email,
		Password:  req.Password,
		Localidad: req.Localidad,
	})
	if err != nil {
		respondWithDomainError(w, err, "Register", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, userResponse{User: res.User, IndexWarning: indexWarning(res.IndexErr)}, h.logger)
}

// Login — POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, err, "Login", h.logger)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithDomainError(w, err, "Login", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// GetUser — GET /users/{userID}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		respondWithDomainError(w, err, "GetUser", h.logger)
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		respondWithDomainError(w, err, "GetUser", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// UpdateUserData — PUT /users/{userID}
func (h *UserHandler) UpdateUserData(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		respondWithDomainError(w, err, "UpdateUserData", h.logger)
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithDomainError(w, err, "UpdateUserData", h.logger)
		return
	}

	res, err := h.users.UpdateUserData(r.Context(), domain.UserUpdate{
		UserID:    userID,
		Fullname:  req.Fullname,
		Localidad: req.Localidad,
		UserLat:   req.UserLat,
		UserLong:  req.UserLong,
	})
	if err != nil {
		respondWithDomainError(w, err, "UpdateUserData", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, userResponse{User: res.User, IndexWarning: indexWarning(res.IndexErr)}, h.logger)
}
