package handlers

import (
	"encoding/json"
	"net/http"

	"adgen/internal/domain"
	"adgen/internal/infra"
	"adgen/internal/middleware"
	"adgen/internal/storage"
)

// App carries the dependencies shared by every HTTP handler.
type App struct {
	Config     *infra.Config
	Logger     infra.Logger
	SQL        infra.SQLExecutor
	Variations domain.VariationRepository
	Videos     domain.VideoRepository
	Store      storage.ObjectStore
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Error: code, Message: message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
