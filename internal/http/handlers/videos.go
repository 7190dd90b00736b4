package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"adgen/internal/domain"
	"adgen/internal/pipeline"
	"adgen/internal/sqlinline"
)

type videoGenerateRequest struct {
	Title          string `json:"title"`
	Prompt         string `json:"prompt"`
	SourceAssetKey string `json:"source_asset_key"`
	AspectRatio    string `json:"aspect_ratio"`
}

// VideosGenerate queues a standalone video job, optionally animating an
// already-stored asset of the caller's.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req videoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}

	payload := pipeline.VideoJobPayload{
		Title:       req.Title,
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
	}
	if req.SourceAssetKey != "" {
		key := ownedAssetKey(userID, req.SourceAssetKey)
		if key == "" {
			a.error(w, http.StatusForbidden, "forbidden", "not your asset")
			return
		}
		data, err := a.Store.Read(r.Context(), key)
		if err != nil {
			a.error(w, http.StatusNotFound, "not_found", "source asset not found")
			return
		}
		payload.ImageB64 = base64.StdEncoding.EncodeToString(data)
		payload.MIME = http.DetectContentType(data)
		payload.SourceImageURL = a.Store.PublicURL(key)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode job payload")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QEnqueueGenerationJob, userID, pipeline.TaskVideoGeneration, payloadBytes)
	var jobID string
	if err := row.Scan(&jobID); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("enqueue video job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue video job")
		return
	}
	a.json(w, http.StatusAccepted, jobResponse{JobID: jobID, Status: "QUEUED"})
}

// VideosList returns the caller's video artifacts, newest first.
func (a *App) VideosList(w http.ResponseWriter, r *http.Request) {
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

	items, err := a.Videos.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("list videos failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load videos")
		return
	}
	if items == nil {
		items = []domain.VideoArtifact{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
