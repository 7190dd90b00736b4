package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"adgen/internal/domain"
	"adgen/internal/storage"
)

type stubVariationRepo struct {
	items     []domain.ImageVariation
	deletedID string
}

func (s *stubVariationRepo) Insert(_ context.Context, v *domain.ImageVariation) error {
	s.items = append(s.items, *v)
	return nil
}

func (s *stubVariationRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.ImageVariation, error) {
	var out []domain.ImageVariation
	for _, v := range s.items {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubVariationRepo) ListBySession(_ context.Context, userID, sessionID string) ([]domain.ImageVariation, error) {
	var out []domain.ImageVariation
	for _, v := range s.items {
		if v.UserID == userID && v.SessionID == sessionID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubVariationRepo) GetByID(_ context.Context, id, userID string) (*domain.ImageVariation, error) {
	for _, v := range s.items {
		if v.ID == id && v.UserID == userID {
			item := v
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubVariationRepo) Delete(_ context.Context, id, userID string) error {
	for i, v := range s.items {
		if v.ID == id && v.UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.deletedID = id
			return nil
		}
	}
	return domain.ErrNotFound
}

func newVariationApp(t *testing.T, repo *stubVariationRepo) (*App, *storage.FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir, "http://localhost:8080/v1/assets")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	app := newTestApp(&stubSQL{})
	app.Variations = repo
	app.Store = store
	return app, store, dir
}

func seedVariation(t *testing.T, repo *stubVariationRepo, store *storage.FileStore, id, sessionID string) domain.ImageVariation {
	t.Helper()
	key := storage.UserKey("user-123", "variations", sessionID+"-"+id, "image/png")
	saved, err := store.Write(context.Background(), key, []byte("png-bytes-"+id))
	if err != nil {
		t.Fatalf("seed write: %v", err)
	}
	v := domain.ImageVariation{
		ID:          id,
		UserID:      "user-123",
		SessionID:   sessionID,
		StyleName:   "Modern Minimal",
		ArtifactURL: store.PublicURL(saved),
		MIME:        "image/png",
	}
	if err := repo.Insert(context.Background(), &v); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	return v
}

func TestVariationsList(t *testing.T) {
	repo := &stubVariationRepo{}
	app, store, _ := newVariationApp(t, repo)
	seedVariation(t, repo, store, "var-1", "sess-1")
	seedVariation(t, repo, store, "var-2", "sess-1")

	rr := httptest.NewRecorder()
	app.VariationsList(rr, authedRequest("GET", "/v1/variations", nil, ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Items []domain.ImageVariation `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}
}

func TestVariationsListEmpty(t *testing.T) {
	app, _, _ := newVariationApp(t, &stubVariationRepo{})

	rr := httptest.NewRecorder()
	app.VariationsList(rr, authedRequest("GET", "/v1/variations", nil, ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body := rr.Body.String(); !bytes.Contains([]byte(body), []byte(`"items":[]`)) {
		t.Fatalf("empty list must serialize as [], got %s", body)
	}
}

func TestVariationDeleteRemovesRowAndObject(t *testing.T) {
	repo := &stubVariationRepo{}
	app, store, dir := newVariationApp(t, repo)
	v := seedVariation(t, repo, store, "var-1", "sess-1")

	req := withURLParam(authedRequest("DELETE", "/v1/variations/var-1", nil, ""), "id", "var-1")
	rr := httptest.NewRecorder()
	app.VariationDelete(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d; body=%s", rr.Code, rr.Body.String())
	}
	if repo.deletedID != "var-1" {
		t.Fatal("row was not deleted")
	}
	key := app.storageKeyFromURL(v.ArtifactURL)
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); !os.IsNotExist(err) {
		t.Fatal("stored object should be gone")
	}
}

func TestVariationDeleteUnknownID(t *testing.T) {
	app, _, _ := newVariationApp(t, &stubVariationRepo{})

	req := withURLParam(authedRequest("DELETE", "/v1/variations/nope", nil, ""), "id", "nope")
	rr := httptest.NewRecorder()
	app.VariationDelete(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestVariationsArchive(t *testing.T) {
	repo := &stubVariationRepo{}
	app, store, _ := newVariationApp(t, repo)
	seedVariation(t, repo, store, "var-1", "sess-1")
	seedVariation(t, repo, store, "var-2", "sess-1")
	seedVariation(t, repo, store, "var-3", "other-session")

	rr := httptest.NewRecorder()
	app.VariationsArchive(rr, authedRequest("GET", "/v1/variations/archive?session_id=sess-1", nil, ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type = %q", ct)
	}
	zr, err := zip.NewReader(bytes.NewReader(rr.Body.Bytes()), int64(rr.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("archive entries = %d, want 2", len(zr.File))
	}
}

func TestVariationsArchiveEmptySession(t *testing.T) {
	app, _, _ := newVariationApp(t, &stubVariationRepo{})

	rr := httptest.NewRecorder()
	app.VariationsArchive(rr, authedRequest("GET", "/v1/variations/archive?session_id=ghost", nil, ""))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestStorageKeyFromURL(t *testing.T) {
	app := newTestApp(&stubSQL{})
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost:8080/v1/assets")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	app.Store = store

	tests := []struct {
		url  string
		want string
	}{
		{"http://localhost:8080/v1/assets/users/u/variations/a.png", "users/u/variations/a.png"},
		{"data:image/png;base64,AAAA", ""},
		{"https://elsewhere.example.com/file.png", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := app.storageKeyFromURL(tc.url); got != tc.want {
			t.Fatalf("storageKeyFromURL(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
