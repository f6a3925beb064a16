package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	memassetstore "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/assetstore"
	memphotorepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/photorepo"
	memplanner "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/planner"
	memtriprepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/userrepo"
	"github.com/wayfarelabs/travel-planner-api/internal/app/auth"
	"github.com/wayfarelabs/travel-planner-api/internal/app/ownership"
	"github.com/wayfarelabs/travel-planner-api/internal/app/photos"
	"github.com/wayfarelabs/travel-planner-api/internal/app/trips"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/token"
)

// harness is a full API stack on memory adapters.
type harness struct {
	srv    *httptest.Server
	assets *memassetstore.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clk := &fixedClock{t: time.Unix(1700000000, 0).UTC()}
	tokens := token.NewService(config.AuthConfig{
		Secret:     []byte("test-secret"),
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}, clk)

	usersRepo := memuserrepo.NewRepo()
	tripsRepo := memtriprepo.NewRepo()
	photosRepo := memphotorepo.NewRepo()
	assets := memassetstore.NewStore()
	guard := ownership.NewGuard(tripsRepo, photosRepo)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	authSvc := auth.NewService(usersRepo, tokens, clk)
	tripsSvc := trips.NewService(tripsRepo, photosRepo, assets, memplanner.NewPlanner(), guard, clk, log)
	photosSvc := photos.NewService(photosRepo, assets, guard, clk, log)

	api := NewServer(authSvc, tripsSvc, photosSvc, log)
	handler := NewRouter(api, NewAuthMiddleware(tokens))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &harness{srv: srv, assets: assets}
}

type apiResponse struct {
	Status  int
	Success bool
	Message string
	Data    json.RawMessage
}

func (h *harness) do(t *testing.T, method, path, bearer string, body any) apiResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return apiResponse{Status: resp.StatusCode, Success: env.Success, Message: env.Message, Data: env.Data}
}

func (h *harness) uploadPhoto(t *testing.T, bearer, tripID string, payload []byte, caption string) apiResponse {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("photo", "photo.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			t.Fatalf("write caption: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/api/trips/"+tripID+"/photos", &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("upload: decode envelope: %v", err)
	}
	return apiResponse{Status: resp.StatusCode, Success: env.Success, Message: env.Message, Data: env.Data}
}

func (h *harness) register(t *testing.T, name, email string) (userID, access string) {
	t.Helper()
	res := h.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	if res.Status != http.StatusCreated || !res.Success {
		t.Fatalf("register: %+v", res)
	}
	var sess struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(res.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return sess.User.ID, sess.AccessToken
}

func validJPEG(size int) []byte {
	b := make([]byte, size)
	copy(b, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return b
}

func TestAPI_Health(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	res := h.do(t, http.MethodGet, "/api/health", "", nil)
	if res.Status != http.StatusOK || !res.Success {
		t.Fatalf("health: %+v", res)
	}
}

func TestAPI_FullTripLifecycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	userID, access := h.register(t, "Alice Smith", "alice@example.com")
	if userID == "" || access == "" {
		t.Fatalf("empty session")
	}

	// Login works with the same credentials.
	res := h.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret1",
	})
	if res.Status != http.StatusOK {
		t.Fatalf("login: %+v", res)
	}

	// Generate a plan; nothing is persisted by this call.
	res = h.do(t, http.MethodPost, "/api/trips/plan", access, map[string]string{
		"startPlace": "Delhi", "destination": "Goa",
	})
	if res.Status != http.StatusOK {
		t.Fatalf("plan: %+v", res)
	}
	res = h.do(t, http.MethodGet, "/api/trips", access, nil)
	var list []json.RawMessage
	if err := json.Unmarshal(res.Data, &list); err != nil {
		t.Fatalf("decode trips: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("plan persisted a trip: %d", len(list))
	}

	// Save the trip explicitly.
	res = h.do(t, http.MethodPost, "/api/trips", access, map[string]any{
		"startPlace": "Delhi", "destination": "Goa",
		"seasonInfo": "October to March",
	})
	if res.Status != http.StatusCreated {
		t.Fatalf("create trip: %+v", res)
	}
	var trip struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(res.Data, &trip); err != nil {
		t.Fatalf("decode trip: %v", err)
	}
	if trip.Status != "planned" {
		t.Fatalf("new trip status=%s", trip.Status)
	}

	// Upload a photo; the URL must be namespaced per user per trip.
	res = h.uploadPhoto(t, access, trip.ID, validJPEG(2048), "sunset")
	if res.Status != http.StatusCreated {
		t.Fatalf("upload: %+v", res)
	}
	var photo struct {
		ID       string `json:"id"`
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(res.Data, &photo); err != nil {
		t.Fatalf("decode photo: %v", err)
	}
	if photo.ImageURL == "" || !strings.Contains(photo.ImageURL, fmt.Sprintf("user_%s/trip_%s", userID, trip.ID)) {
		t.Fatalf("imageUrl=%s", photo.ImageURL)
	}

	// Mark the trip completed, twice; both succeed.
	for i := 0; i < 2; i++ {
		res = h.do(t, http.MethodPatch, "/api/trips/"+trip.ID+"/status", access, map[string]string{"status": "completed"})
		if res.Status != http.StatusOK {
			t.Fatalf("update status #%d: %+v", i+1, res)
		}
	}

	// Delete the trip; the cascade removes photos and assets.
	res = h.do(t, http.MethodDelete, "/api/trips/"+trip.ID, access, nil)
	if res.Status != http.StatusOK {
		t.Fatalf("delete trip: %+v", res)
	}
	if h.assets.ObjectCount() != 0 {
		t.Fatalf("assets remain: %d", h.assets.ObjectCount())
	}

	res = h.do(t, http.MethodGet, "/api/trips/"+trip.ID, access, nil)
	if res.Status != http.StatusNotFound {
		t.Fatalf("deleted trip still readable: %+v", res)
	}
	res = h.do(t, http.MethodGet, "/api/photos", access, nil)
	var ps []json.RawMessage
	if err := json.Unmarshal(res.Data, &ps); err != nil {
		t.Fatalf("decode photos: %v", err)
	}
	if len(ps) != 0 {
		t.Fatalf("photo records remain: %d", len(ps))
	}
}

func TestAPI_ForeignTripsAreInvisible(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, aliceAccess := h.register(t, "Alice", "alice@example.com")
	_, bobAccess := h.register(t, "Bob", "bob@example.com")

	res := h.do(t, http.MethodPost, "/api/trips", aliceAccess, map[string]string{
		"startPlace": "Delhi", "destination": "Goa",
	})
	if res.Status != http.StatusCreated {
		t.Fatalf("create trip: %+v", res)
	}
	var trip struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(res.Data, &trip); err != nil {
		t.Fatalf("decode trip: %v", err)
	}

	// Bob sees 404 for Alice's trip and for a missing one, identically.
	for _, id := range []string{trip.ID, "no-such-trip"} {
		got := h.do(t, http.MethodGet, "/api/trips/"+id, bobAccess, nil)
		if got.Status != http.StatusNotFound {
			t.Fatalf("GET %s as bob: %+v", id, got)
		}
	}
	if res := h.do(t, http.MethodDelete, "/api/trips/"+trip.ID, bobAccess, nil); res.Status != http.StatusNotFound {
		t.Fatalf("foreign delete: %+v", res)
	}
	// The trip is untouched for its owner.
	if res := h.do(t, http.MethodGet, "/api/trips/"+trip.ID, aliceAccess, nil); res.Status != http.StatusOK {
		t.Fatalf("owner get after foreign delete: %+v", res)
	}
}

func TestAPI_UploadRejectsNonImages(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, access := h.register(t, "Alice", "alice@example.com")
	res := h.do(t, http.MethodPost, "/api/trips", access, map[string]string{
		"startPlace": "Delhi", "destination": "Goa",
	})
	var trip struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(res.Data, &trip); err != nil {
		t.Fatalf("decode trip: %v", err)
	}

	got := h.uploadPhoto(t, access, trip.ID, []byte("just some text, definitely not an image"), "")
	if got.Status != http.StatusBadRequest || got.Success {
		t.Fatalf("non-image accepted: %+v", got)
	}
	if h.assets.ObjectCount() != 0 {
		t.Fatalf("asset stored for rejected payload")
	}
}

func TestAPI_UploadRejectsOversizedPayload(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, access := h.register(t, "Alice", "alice@example.com")
	res := h.do(t, http.MethodPost, "/api/trips", access, map[string]string{
		"startPlace": "Delhi", "destination": "Goa",
	})
	var trip struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(res.Data, &trip); err != nil {
		t.Fatalf("decode trip: %v", err)
	}

	got := h.uploadPhoto(t, access, trip.ID, validJPEG(photos.MaxUploadBytes+1), "")
	if got.Status != http.StatusBadRequest || got.Success {
		t.Fatalf("oversized payload accepted: %+v", got)
	}
	if got.Message != "payload exceeds 10 MiB" {
		t.Fatalf("message=%q", got.Message)
	}
	if len(h.assets.UploadCalls()) != 0 {
		t.Fatalf("asset upload attempted for oversized payload")
	}
}

func TestAPI_RefreshFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	res := h.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	})
	var sess struct {
		RefreshToken string `json:"refreshToken"`
		AccessToken  string `json:"accessToken"`
	}
	if err := json.Unmarshal(res.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	got := h.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": sess.RefreshToken})
	if got.Status != http.StatusOK {
		t.Fatalf("refresh: %+v", got)
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(got.Data, &out); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatalf("no access token")
	}

	// An access token is not accepted as a refresh token.
	got = h.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": sess.AccessToken})
	if got.Status != http.StatusUnauthorized {
		t.Fatalf("access token accepted for refresh: %+v", got)
	}

	// The fresh access token authenticates requests.
	if res := h.do(t, http.MethodGet, "/api/auth/profile", out.AccessToken, nil); res.Status != http.StatusOK {
		t.Fatalf("profile with refreshed token: %+v", res)
	}
}
