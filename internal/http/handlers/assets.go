package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ownedAssetKey normalizes a caller-supplied object key and verifies it sits
// inside the caller's namespace. Traversal segments are resolved before the
// ownership check so a key cannot dot-dot its way into another user's prefix.
// Returns "" for keys the caller may not touch.
func ownedAssetKey(userID, key string) string {
	key = strings.ReplaceAll(strings.TrimSpace(key), "\\", "/")
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return ""
	}
	if !strings.HasPrefix(cleaned, "users/"+userID+"/") {
		return ""
	}
	return cleaned
}

// AssetDownload serves a stored object. Keys are user-namespaced; callers
// can only read objects under their own prefix.
func (a *App) AssetDownload(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	rawKey := chi.URLParam(r, "*")
	if rawKey == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "asset key required")
		return
	}
	key := ownedAssetKey(userID, rawKey)
	if key == "" {
		a.error(w, http.StatusForbidden, "forbidden", "not your asset")
		return
	}

	data, err := a.Store.Read(r.Context(), key)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
