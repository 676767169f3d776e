package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter собирает маршруты HTTP API.
func NewRouter(pets *PetHandler, users *UserHandler, reports *ReportHandler, requestTimeout time.Duration, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})

	r.Post("/auth/register", users.Register)
	r.Post("/auth/login", users.Login)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/", users.GetUser)
		r.Put("/", users.UpdateUserData)

		r.Get("/pets", pets.GetAllPets)
		r.Post("/pets", pets.CreatePet)
		r.Put("/pets/{petID}", pets.UpdatePet)
		r.Delete("/pets/{petID}", pets.DeletePet)
	})

	r.Get("/pets/nearby", pets.NearbyPets)
	r.Post("/pets/{petID}/reports", reports.ReportPet)
	r.Post("/reports/{reportID}/notify", reports.NotifyOwner)

	return r
}
