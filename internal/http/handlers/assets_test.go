package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"adgen/internal/storage"
)

func TestAssetDownloadScopedToOwner(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost:8080/v1/assets")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	app := newTestApp(&stubSQL{})
	app.Store = store

	ownKey := "users/user-123/variations/own.png"
	foreignKey := "users/user-999/variations/theirs.png"
	for _, key := range []string{ownKey, foreignKey} {
		if _, err := store.Write(context.Background(), key, []byte("\x89PNG fake bytes")); err != nil {
			t.Fatalf("seed write: %v", err)
		}
	}

	req := withURLParam(authedRequest("GET", "/v1/assets/"+ownKey, nil, ""), "*", ownKey)
	rr := httptest.NewRecorder()
	app.AssetDownload(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("own asset status = %d; body=%s", rr.Code, rr.Body.String())
	}

	req = withURLParam(authedRequest("GET", "/v1/assets/"+foreignKey, nil, ""), "*", foreignKey)
	rr = httptest.NewRecorder()
	app.AssetDownload(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("foreign asset status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestAssetDownloadRejectsTraversalKeys(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost:8080/v1/assets")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	app := newTestApp(&stubSQL{})
	app.Store = store

	if _, err := store.Write(context.Background(), "users/user-999/variations/secret.png", []byte("victim-bytes")); err != nil {
		t.Fatalf("seed write: %v", err)
	}

	keys := []string{
		"users/user-123/../user-999/variations/secret.png",
		"users/user-123/a/../../user-999/variations/secret.png",
		"../users/user-999/variations/secret.png",
		"/users/user-999/variations/secret.png",
		"users\\user-123\\..\\user-999\\variations\\secret.png",
	}
	for _, key := range keys {
		req := withURLParam(authedRequest("GET", "/v1/assets/"+key, nil, ""), "*", key)
		rr := httptest.NewRecorder()
		app.AssetDownload(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("key %q: status = %d, want %d; body=%s", key, rr.Code, http.StatusForbidden, rr.Body.String())
		}
	}
}

func TestAssetDownloadUnknownKey(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	app := newTestApp(&stubSQL{})
	app.Store = store

	key := "users/user-123/variations/ghost.png"
	req := withURLParam(authedRequest("GET", "/v1/assets/"+key, nil, ""), "*", key)
	rr := httptest.NewRecorder()
	app.AssetDownload(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
