package httpapi

import (
	"encoding/json"
	"net/http"

	"server/internal/http/handlers"
	"server/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP surface: public health/debug endpoints and the
// authenticated, rate-limited generate endpoint.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	cfg := app.Config
	limiter := middleware.NewLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Logger(*app.Logger, lookup),
	)
	r.MethodNotAllowed(methodNotAllowed)
	r.NotFound(notFound)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/debug", app.Debug)

	// Auth gates rate limiting so anonymous probes never consume a
	// client's window.
	r.Group(func(r chi.Router) {
		r.Use(middleware.BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPassword))
		r.Get("/v1/debug/auth", app.DebugAuth)
		r.Get("/v1/debug/provider", app.DebugProvider)

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.RateLimit(limiter),
				middleware.RequireMultipart,
			)
			r.Post("/v1/generate", app.Generate)
		})
	})

	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
