package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarelabs/travel-planner-api/internal/app/auth"
	"github.com/wayfarelabs/travel-planner-api/internal/app/photos"
	"github.com/wayfarelabs/travel-planner-api/internal/app/trips"
	"github.com/wayfarelabs/travel-planner-api/internal/domain"
)

// Server is the HTTP adapter. It decodes requests, delegates to the
// application services and renders the response envelope.
type Server struct {
	Auth   *auth.Service
	Trips  *trips.Service
	Photos *photos.Service
	Log    *slog.Logger
}

func NewServer(authSvc *auth.Service, tripsSvc *trips.Service, photosSvc *photos.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{Auth: authSvc, Trips: tripsSvc, Photos: photosSvc, Log: log}
}

// caller resolves the authenticated user; the auth middleware guarantees it
// is present on protected routes.
func (s *Server) caller(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing authenticated user")
		return "", false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// --- auth ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	sess, err := s.Auth.Register(r.Context(), auth.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusCreated, "user registered", toSessionJSON(sess))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	sess, err := s.Auth.Login(r.Context(), auth.LoginInput{Email: body.Email, Password: body.Password})
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "login successful", toSessionJSON(sess))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}

	p, err := s.Auth.Profile(r.Context(), caller)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "profile", profileJSON{
		ID:        string(p.ID),
		Name:      p.Name,
		Email:     p.Email,
		LastLogin: p.LastLogin,
		CreatedAt: p.CreatedAt,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	ref, err := s.Auth.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "token refreshed", map[string]string{"accessToken": ref.AccessToken})
}

func toSessionJSON(sess auth.Session) sessionJSON {
	return sessionJSON{
		User:         sessionUserJSON{ID: string(sess.UserID), Name: sess.Name, Email: sess.Email},
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}
}

// --- trips ---

func (s *Server) handlePlanTrip(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.caller(w, r); !ok {
		return
	}
	var body struct {
		StartPlace  string `json:"startPlace"`
		Destination string `json:"destination"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	plan, err := s.Trips.Plan(r.Context(), body.StartPlace, body.Destination)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "trip plan generated", toPlanJSON(plan))
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body struct {
		StartPlace  string             `json:"startPlace"`
		Destination string             `json:"destination"`
		Budget      *budgetJSON        `json:"budget"`
		Flights     []flightJSON       `json:"flights"`
		Locations   []locationJSON     `json:"locations"`
		SeasonInfo  string             `json:"seasonInfo"`
		Itinerary   []itineraryDayJSON `json:"itinerary"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	in := trips.CreateTripInput{
		StartPlace:  body.StartPlace,
		Destination: body.Destination,
		SeasonInfo:  body.SeasonInfo,
	}
	if body.Budget != nil {
		b := fromBudgetJSON(*body.Budget)
		in.Budget = &b
	}
	if len(body.Flights) > 0 {
		in.Flights = fromFlightsJSON(body.Flights)
	}
	if len(body.Locations) > 0 {
		in.Locations = fromLocationsJSON(body.Locations)
	}
	if len(body.Itinerary) > 0 {
		in.Itinerary = fromItineraryJSON(body.Itinerary)
	}

	t, err := s.Trips.Create(r.Context(), caller, in)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusCreated, "trip saved", toTripJSON(t))
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}

	opts := trips.ListOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = n
	}

	ts, err := s.Trips.List(r.Context(), caller, opts)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "trips", toTripsJSON(ts))
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	t, err := s.Trips.Get(r.Context(), caller, tripID)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "trip", toTripJSON(t))
}

func (s *Server) handleUpdateTripStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if err := s.Trips.UpdateStatus(r.Context(), caller, tripID, domain.TripStatus(body.Status)); err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "trip status updated", nil)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	if err := s.Trips.Delete(r.Context(), caller, tripID); err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "trip deleted", nil)
}

// --- photos ---

// uploadBodyLimit caps the whole multipart request as abuse protection. It is
// deliberately looser than the payload cap so an oversized photo still reaches
// the service, which owns the exact size decision and its response shape.
const uploadBodyLimit = 4 * photos.MaxUploadBytes

// uploadParseMemory is the in-memory budget for multipart parsing; larger
// parts spill to temp files.
const uploadParseMemory = 1 << 20

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	r.Body = http.MaxBytesReader(w, r.Body, uploadBodyLimit)
	if err := r.ParseMultipartForm(uploadParseMemory); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form or payload too large")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing photo file field")
		return
	}
	defer file.Close()

	// Read one byte past the cap at most; the service rejects the excess
	// without the handler buffering the full oversized part.
	data, err := io.ReadAll(io.LimitReader(file, photos.MaxUploadBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read photo payload")
		return
	}

	var caption *string
	if v := r.FormValue("caption"); v != "" {
		caption = &v
	}

	p, err := s.Photos.Upload(r.Context(), caller, tripID, data, caption)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusCreated, "photo uploaded", toPhotoJSON(p))
}

func (s *Server) handleListTripPhotos(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))

	ps, err := s.Photos.ListTripPhotos(r.Context(), caller, tripID)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "trip photos", toPhotosJSON(ps))
}

func (s *Server) handleListUserPhotos(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}

	ps, err := s.Photos.ListUserPhotos(r.Context(), caller)
	if err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "photos", toPhotosJSON(ps))
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	photoID := domain.PhotoID(chi.URLParam(r, "photoID"))

	if err := s.Photos.Delete(r.Context(), caller, photoID); err != nil {
		writeAppError(w, r, s.Log, err)
		return
	}
	respond(w, http.StatusOK, "photo deleted", nil)
}
