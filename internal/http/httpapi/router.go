package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"adgen/internal/http/handlers"
	"adgen/internal/middleware"
)

// NewRouter assembles the public API surface. Everything except health and
// the docs sits behind JWT auth; the expensive generation endpoint carries
// its own rate limit on top.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(app.Config.CORSOrigins),
		middleware.Logger(app.Logger),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Route("/v1/generations", func(r chi.Router) {
			r.With(middleware.RateLimit(10, time.Minute)).Post("/", app.GenerationsEnqueue)
			r.Get("/{job_id}", app.GenerationStatus)
		})

		r.Route("/v1/variations", func(r chi.Router) {
			r.Get("/", app.VariationsList)
			r.Get("/archive", app.VariationsArchive)
			r.Delete("/{id}", app.VariationDelete)
		})

		r.Route("/v1/videos", func(r chi.Router) {
			r.Get("/", app.VideosList)
			r.With(middleware.RateLimit(10, time.Minute)).Post("/", app.VideosGenerate)
		})
		r.Get("/v1/assets/*", app.AssetDownload)
	})

	return r
}
