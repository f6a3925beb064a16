// Package cloudinary implements assetstore.Store against the Cloudinary
// upload and admin APIs.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/assetstore"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
)

// Store talks to Cloudinary. Objects live under rootFolder/<namespace>;
// Cloudinary picks the public ID within that folder.
type Store struct {
	cfg    config.CloudinaryConfig
	client *http.Client

	// baseURL is overridable for tests; production uses the public API host.
	baseURL string
}

func NewStore(cfg config.CloudinaryConfig) *Store {
	return &Store{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL: "https://api.cloudinary.com",
	}
}

// SetBaseURLForTest points the store at a local stand-in server.
func (s *Store) SetBaseURLForTest(u string) { s.baseURL = u }

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

func (s *Store) Upload(ctx context.Context, data []byte, namespace string) (assetstore.Asset, error) {
	folder := s.folder(namespace)
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	// Incoming transformation and the unique-name flag are part of the
	// signed parameter set. The transformation normalizes quality and
	// format on ingest; unique_filename keeps sibling uploads from
	// colliding within the folder.
	params := map[string]string{
		"folder":          folder,
		"timestamp":       timestamp,
		"transformation":  "q_auto,f_auto",
		"unique_filename": "true",
	}
	signature := signParams(params, s.cfg.APISecret)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return assetstore.Asset{}, fmt.Errorf("encode upload form: %w", err)
		}
	}
	if err := w.WriteField("api_key", s.cfg.APIKey); err != nil {
		return assetstore.Asset{}, fmt.Errorf("encode upload form: %w", err)
	}
	if err := w.WriteField("signature", signature); err != nil {
		return assetstore.Asset{}, fmt.Errorf("encode upload form: %w", err)
	}
	part, err := w.CreateFormFile("file", "upload")
	if err != nil {
		return assetstore.Asset{}, fmt.Errorf("encode upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return assetstore.Asset{}, fmt.Errorf("encode upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return assetstore.Asset{}, fmt.Errorf("encode upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", s.baseURL, s.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return assetstore.Asset{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return assetstore.Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return assetstore.Asset{}, fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return assetstore.Asset{}, fmt.Errorf("cloudinary upload: decode response: %w", err)
	}
	if ur.SecureURL == "" || ur.PublicID == "" {
		return assetstore.Asset{}, fmt.Errorf("cloudinary upload: incomplete response")
	}
	return assetstore.Asset{URL: ur.SecureURL, ProviderID: ur.PublicID}, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	publicID := ref
	if strings.Contains(ref, "://") {
		id, ok := publicIDFromURL(ref)
		if !ok {
			return fmt.Errorf("cloudinary delete: cannot derive public id from %q", ref)
		}
		publicID = id
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", s.cfg.APIKey)
	form.Set("signature", signParams(params, s.cfg.APISecret))

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/destroy", s.baseURL, s.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary destroy: status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	var dr struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("cloudinary destroy: decode response: %w", err)
	}
	// "not found" is success for a compensating delete.
	if dr.Result != "ok" && dr.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: result %q", dr.Result)
	}
	return nil
}

func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	folder := s.folder(namespace)

	// Remove every object under the folder prefix, then the folder itself.
	endpoint := fmt.Sprintf("%s/v1_1/%s/resources/image/upload?prefix=%s",
		s.baseURL, s.cfg.CloudName, url.QueryEscape(folder+"/"))
	if err := s.adminRequest(ctx, http.MethodDelete, endpoint); err != nil {
		return err
	}

	endpoint = fmt.Sprintf("%s/v1_1/%s/folders/%s", s.baseURL, s.cfg.CloudName, folder)
	return s.adminRequest(ctx, http.MethodDelete, endpoint)
}

func (s *Store) adminRequest(ctx context.Context, method, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.APIKey, s.cfg.APISecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary admin: %w", err)
	}
	defer resp.Body.Close()

	// 404 means the folder was already gone.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("cloudinary admin: status %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	return nil
}

func (s *Store) folder(namespace string) string {
	if s.cfg.RootFolder == "" {
		return namespace
	}
	return s.cfg.RootFolder + "/" + namespace
}

// signParams produces the Cloudinary request signature: the sha1 hex digest
// of the sorted key=value pairs joined by '&', with the secret appended.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// publicIDFromURL extracts the public ID from a Cloudinary delivery URL:
// .../image/upload/v123/<folder...>/<name>.<ext>
func publicIDFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(parts) {
		return "", false
	}
	rest := parts[idx+1:]
	// Skip the version segment if present.
	if len(rest) > 1 && strings.HasPrefix(rest[0], "v") {
		if _, err := strconv.Atoi(rest[0][1:]); err == nil {
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		return "", false
	}
	id := strings.Join(rest, "/")
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	if id == "" {
		return "", false
	}
	return id, true
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
