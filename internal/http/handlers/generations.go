package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"adgen/internal/domain"
	"adgen/internal/media"
	"adgen/internal/pipeline"
	"adgen/internal/sqlinline"
)

// multipartMemoryLimit bounds the in-memory portion of a multipart parse.
// The image itself is capped separately by media.MaxImageBytes.
const multipartMemoryLimit = 4 << 20

type jobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// GenerationsEnqueue accepts a product photo plus options and queues a full
// generation session for the worker. The upload is size-checked before
// anything else happens.
func (a *App) GenerationsEnqueue(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageBytes+multipartMemoryLimit)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "multipart form expected")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file required")
		return
	}
	defer file.Close()

	encoded, err := media.EncodeReader(file)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrImageTooLarge):
			a.error(w, http.StatusRequestEntityTooLarge, "image_too_large", "image exceeds the 10 MiB limit")
		default:
			a.error(w, http.StatusBadRequest, "bad_request", "unreadable image")
		}
		return
	}

	payload := pipeline.SessionJobPayload{
		ImageB64:     encoded.Base64,
		MIME:         encoded.MIME,
		IncludeVideo: r.FormValue("include_video") == "true",
		VideoPrompt:  r.FormValue("video_prompt"),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode job payload")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QEnqueueGenerationJob, userID, pipeline.TaskSessionGeneration, payloadBytes)
	var jobID string
	if err := row.Scan(&jobID); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("enqueue generation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return
	}
	a.json(w, http.StatusAccepted, jobResponse{JobID: jobID, Status: "QUEUED"})
}

// GenerationStatus returns the state of one queued session, including the
// session result once the worker has finished. The raw payload (which holds
// the uploaded image) is never echoed back.
func (a *App) GenerationStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectGenerationJobForUser, jobID, userID)
	var (
		id, ownerID, taskType, status string
		payload, result               []byte
		errorMessage                  sql.NullString
		createdAt, updatedAt          time.Time
	)
	if err := row.Scan(&id, &ownerID, &taskType, &status, &payload, &result, &errorMessage, &createdAt, &updatedAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}

	resp := map[string]any{
		"id":         id,
		"task_type":  taskType,
		"status":     status,
		"created_at": createdAt,
		"updated_at": updatedAt,
	}
	if len(result) > 0 {
		resp["result"] = json.RawMessage(result)
	}
	if errorMessage.Valid && errorMessage.String != "" {
		resp["error"] = errorMessage.String
	}
	a.json(w, http.StatusOK, resp)
}
