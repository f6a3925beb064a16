package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires routes and middleware. Registration, login and token
// refresh are public; everything else behind /api requires a bearer access
// token. Health is unauthenticated for infra checks.
func NewRouter(s *Server, authMW func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Get("/auth/profile", s.handleProfile)

			r.Post("/trips/plan", s.handlePlanTrip)
			r.Post("/trips", s.handleCreateTrip)
			r.Get("/trips", s.handleListTrips)
			r.Get("/trips/{tripID}", s.handleGetTrip)
			r.Patch("/trips/{tripID}/status", s.handleUpdateTripStatus)
			r.Delete("/trips/{tripID}", s.handleDeleteTrip)

			r.Post("/trips/{tripID}/photos", s.handleUploadPhoto)
			r.Get("/trips/{tripID}/photos", s.handleListTripPhotos)
			r.Get("/photos", s.handleListUserPhotos)
			r.Delete("/photos/{photoID}", s.handleDeletePhoto)
		})
	})

	return r
}
