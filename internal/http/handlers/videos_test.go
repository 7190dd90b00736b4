package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"adgen/internal/domain"
	"adgen/internal/infra"
	"adgen/internal/pipeline"
	"adgen/internal/storage"
)

type stubVideoRepo struct {
	items []domain.VideoArtifact
}

func (s *stubVideoRepo) Insert(_ context.Context, v *domain.VideoArtifact) error {
	s.items = append(s.items, *v)
	return nil
}

func (s *stubVideoRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.VideoArtifact, error) {
	var out []domain.VideoArtifact
	for _, v := range s.items {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func newVideoApp(t *testing.T, sql infra.SQLExecutor, videos domain.VideoRepository) (*App, *storage.FileStore) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), "http://localhost:8080/v1/assets")
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return &App{
		Config: &infra.Config{JWTSecret: "test-secret", StorageBaseURL: "http://localhost:8080/v1/assets"},
		Logger: zerolog.Nop(),
		SQL:    sql,
		Videos: videos,
		Store:  store,
	}, store
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return buf
}

func TestVideosGenerateFromStoredAsset(t *testing.T) {
	var gotTaskType string
	var gotPayload []byte
	sqlStub := &stubSQL{queryRow: func(query string, args ...any) pgx.Row {
		gotTaskType = args[1].(string)
		gotPayload = args[2].([]byte)
		return NewSimpleRow(func(dest ...any) error {
			*(dest[0].(*string)) = "job-9"
			return nil
		})
	}}
	app, store := newVideoApp(t, sqlStub, &stubVideoRepo{})
	pngBytes := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	key, err := store.Write(context.Background(), "users/user-123/originals/shot.png", pngBytes)
	if err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	body := jsonBody(t, videoGenerateRequest{
		Title:          "Launch teaser",
		Prompt:         "slow dolly across the product",
		SourceAssetKey: key,
		AspectRatio:    "16:9",
	})
	rr := httptest.NewRecorder()
	app.VideosGenerate(rr, authedRequest("POST", "/v1/videos", body, "application/json"))

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d; body=%s", rr.Code, rr.Body.String())
	}
	var resp jobResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.JobID != "job-9" || resp.Status != "QUEUED" {
		t.Fatalf("resp = %+v", resp)
	}
	if gotTaskType != pipeline.TaskVideoGeneration {
		t.Fatalf("task type = %q", gotTaskType)
	}
	var payload pipeline.VideoJobPayload
	if err := json.Unmarshal(gotPayload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Prompt != "slow dolly across the product" || payload.AspectRatio != "16:9" {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.ImageB64 == "" {
		t.Fatal("payload is missing the source image")
	}
	if payload.SourceImageURL != store.PublicURL(key) {
		t.Fatalf("source image url = %q", payload.SourceImageURL)
	}
}

func TestVideosGenerateRequiresPrompt(t *testing.T) {
	app, _ := newVideoApp(t, &stubSQL{queryRow: func(string, ...any) pgx.Row {
		t.Fatal("invalid request must not reach the queue")
		return nil
	}}, &stubVideoRepo{})

	body := jsonBody(t, videoGenerateRequest{Title: "no prompt"})
	rr := httptest.NewRecorder()
	app.VideosGenerate(rr, authedRequest("POST", "/v1/videos", body, "application/json"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestVideosGenerateRejectsForeignAsset(t *testing.T) {
	app, store := newVideoApp(t, &stubSQL{}, &stubVideoRepo{})
	if _, err := store.Write(context.Background(), "users/other-user/originals/shot.png", []byte("img")); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	body := jsonBody(t, videoGenerateRequest{
		Prompt:         "animate it",
		SourceAssetKey: "users/other-user/originals/shot.png",
	})
	rr := httptest.NewRecorder()
	app.VideosGenerate(rr, authedRequest("POST", "/v1/videos", body, "application/json"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestVideosGenerateRejectsTraversalAssetKey(t *testing.T) {
	app, store := newVideoApp(t, &stubSQL{queryRow: func(string, ...any) pgx.Row {
		t.Fatal("traversal key must not reach the queue")
		return nil
	}}, &stubVideoRepo{})
	if _, err := store.Write(context.Background(), "users/user-999/variations/secret.png", []byte("victim-bytes")); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	body := jsonBody(t, videoGenerateRequest{
		Prompt:         "animate it",
		SourceAssetKey: "users/user-123/../user-999/variations/secret.png",
	})
	rr := httptest.NewRecorder()
	app.VideosGenerate(rr, authedRequest("POST", "/v1/videos", body, "application/json"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d; body=%s", rr.Code, http.StatusForbidden, rr.Body.String())
	}
}

func TestVideosGenerateUnknownAsset(t *testing.T) {
	app, _ := newVideoApp(t, &stubSQL{}, &stubVideoRepo{})

	body := jsonBody(t, videoGenerateRequest{
		Prompt:         "animate it",
		SourceAssetKey: "users/user-123/originals/missing.png",
	})
	rr := httptest.NewRecorder()
	app.VideosGenerate(rr, authedRequest("POST", "/v1/videos", body, "application/json"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestVideosList(t *testing.T) {
	repo := &stubVideoRepo{items: []domain.VideoArtifact{
		{
			ID:             "vid-1",
			UserID:         "user-123",
			Title:          "Launch teaser",
			VideoURL:       "http://localhost:8080/v1/assets/users/user-123/videos/vid-1.mp4",
			GenerationType: domain.GenerationTypeTextToVideo,
			Status:         domain.VideoStatusCompleted,
			CreatedAt:      time.Now(),
		},
		{ID: "vid-2", UserID: "other-user"},
	}}
	app, _ := newVideoApp(t, &stubSQL{}, repo)

	rr := httptest.NewRecorder()
	app.VideosList(rr, authedRequest("GET", "/v1/videos", nil, ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Items []domain.VideoArtifact `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "vid-1" {
		t.Fatalf("items = %+v", resp.Items)
	}
}
