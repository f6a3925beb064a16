package cloudinary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
)

func newTestStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewStore(config.CloudinaryConfig{
		CloudName:   "demo",
		APIKey:      "key",
		APISecret:   "secret",
		RootFolder:  "travel-ai",
		HTTPTimeout: 5 * time.Second,
	})
	s.SetBaseURLForTest(srv.URL)
	return s
}

func TestStore_Upload(t *testing.T) {
	t.Parallel()

	var gotFolder, gotSignature, gotTransformation, gotUniqueFilename string
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/demo/image/upload" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotFolder = r.FormValue("folder")
		gotSignature = r.FormValue("signature")
		gotTransformation = r.FormValue("transformation")
		gotUniqueFilename = r.FormValue("unique_filename")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://res.cloudinary.com/demo/image/upload/v1/travel-ai/user_u1/trip_t1/abc.jpg",
			"public_id":  "travel-ai/user_u1/trip_t1/abc",
		})
	}))

	a, err := s.Upload(context.Background(), []byte{0xFF, 0xD8}, "user_u1/trip_t1")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if a.ProviderID != "travel-ai/user_u1/trip_t1/abc" {
		t.Fatalf("providerID=%s", a.ProviderID)
	}
	if gotFolder != "travel-ai/user_u1/trip_t1" {
		t.Fatalf("folder=%s", gotFolder)
	}
	if gotSignature == "" {
		t.Fatalf("request unsigned")
	}
	if gotTransformation != "q_auto,f_auto" {
		t.Fatalf("transformation=%s", gotTransformation)
	}
	if gotUniqueFilename != "true" {
		t.Fatalf("unique_filename=%s", gotUniqueFilename)
	}
}

func TestStore_Upload_ServerError(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upload rejected", http.StatusBadRequest)
	}))

	if _, err := s.Upload(context.Background(), []byte{0xFF, 0xD8}, "user_u1/trip_t1"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStore_Delete_ByProviderIDAndByURL(t *testing.T) {
	t.Parallel()

	var gotPublicIDs []string
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/demo/image/destroy" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotPublicIDs = append(gotPublicIDs, r.FormValue("public_id"))
		_ = json.NewEncoder(w).Encode(map[string]string{"result": "ok"})
	}))

	if err := s.Delete(context.Background(), "travel-ai/user_u1/trip_t1/abc"); err != nil {
		t.Fatalf("Delete by id: %v", err)
	}
	url := "https://res.cloudinary.com/demo/image/upload/v17/travel-ai/user_u1/trip_t1/abc.jpg"
	if err := s.Delete(context.Background(), url); err != nil {
		t.Fatalf("Delete by url: %v", err)
	}
	want := "travel-ai/user_u1/trip_t1/abc"
	if len(gotPublicIDs) != 2 || gotPublicIDs[0] != want || gotPublicIDs[1] != want {
		t.Fatalf("public ids=%v", gotPublicIDs)
	}
}

func TestStore_Delete_NotFoundIsSuccess(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"result": "not found"})
	}))

	if err := s.Delete(context.Background(), "travel-ai/user_u1/trip_t1/gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestStore_DeleteNamespace(t *testing.T) {
	t.Parallel()

	var paths []string
	s := newTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method=%s", r.Method)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Errorf("missing basic auth")
		}
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		_ = json.NewEncoder(w).Encode(map[string]any{"deleted": map[string]string{}})
	}))

	if err := s.DeleteNamespace(context.Background(), "user_u1/trip_t1"); err != nil {
		t.Fatalf("DeleteNamespace: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("requests=%v", paths)
	}
	if !strings.Contains(paths[0], "/resources/image/upload") || !strings.Contains(paths[0], "prefix=") {
		t.Fatalf("first request=%s", paths[0])
	}
	if !strings.Contains(paths[1], "/folders/travel-ai/user_u1/trip_t1") {
		t.Fatalf("second request=%s", paths[1])
	}
}

func TestPublicIDFromURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1/travel-ai/user_a/trip_b/x.jpg", "travel-ai/user_a/trip_b/x", true},
		{"https://res.cloudinary.com/demo/image/upload/travel-ai/user_a/trip_b/x.png", "travel-ai/user_a/trip_b/x", true},
		{"https://res.cloudinary.com/demo/image/upload/plain", "plain", true},
		{"https://res.cloudinary.com/demo/image/fetch/x.jpg", "", false},
	}
	for _, tc := range cases {
		got, ok := publicIDFromURL(tc.url)
		if ok != tc.ok || got != tc.want {
			t.Errorf("publicIDFromURL(%q) = %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.ok)
		}
	}
}
