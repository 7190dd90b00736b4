package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"adgen/internal/domain"
	"adgen/pkg/zip"
)

// VariationsList returns the caller's saved variations, newest first.
func (a *App) VariationsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := a.Variations.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("list variations failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load variations")
		return
	}
	if items == nil {
		items = []domain.ImageVariation{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// VariationDelete removes one owned variation row and best-effort removes
// its stored object.
func (a *App) VariationDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}

	variation, err := a.Variations.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "variation not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load variation")
		return
	}
	if err := a.Variations.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "variation not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete variation")
		return
	}

	if key := a.storageKeyFromURL(variation.ArtifactURL); key != "" {
		if err := a.Store.Delete(r.Context(), key); err != nil {
			a.Logger.Warn().Err(err).Str("key", key).Msg("delete stored object failed")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// VariationsArchive streams every variation of one session as a zip file.
func (a *App) VariationsArchive(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id required")
		return
	}

	items, err := a.Variations.ListBySession(r.Context(), userID, sessionID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load variations")
		return
	}
	if len(items) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no variations for session")
		return
	}

	var assets []zip.Asset
	for _, item := range items {
		key := a.storageKeyFromURL(item.ArtifactURL)
		if key == "" {
			continue
		}
		data, err := a.Store.Read(r.Context(), key)
		if err != nil {
			a.Logger.Warn().Err(err).Str("key", key).Msg("read stored object failed")
			continue
		}
		assets = append(assets, zip.Asset{Filename: fmt.Sprintf("%s-%s", item.StyleName, item.ID), MIME: item.MIME, Data: data})
	}
	if len(assets) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no downloadable artifacts for session")
		return
	}

	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.Logger.Error().Err(err).Str("session_id", sessionID).Msg("build session archive failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=session-%s.zip", sessionID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// storageKeyFromURL maps a public artifact URL back to its object key.
// Ephemeral data URLs and foreign URLs return "".
func (a *App) storageKeyFromURL(url string) string {
	if a.Store == nil || url == "" || strings.HasPrefix(url, "data:") {
		return ""
	}
	var base string
	if a.Config != nil {
		base = strings.TrimRight(a.Config.StorageBaseURL, "/")
	}
	if base == "" || !strings.HasPrefix(url, base+"/") {
		return ""
	}
	return strings.TrimPrefix(url, base+"/")
}
