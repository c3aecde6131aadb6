package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workshop/internal/http/handlers"
	"workshop/internal/infra"
	"workshop/internal/metrics"
	"workshop/internal/middleware"
)

// Options carries what the router needs besides the handlers.
type Options struct {
	CORSOrigins     []string
	RateLimitPerMin int
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	// TrustProxy honors X-Forwarded-For and X-Real-IP. Enable it only
	// behind a proxy that overwrites those headers.
	TrustProxy bool
	// Static serves stored renders under /static when set.
	Static http.Handler
	Logger infra.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		chimw.Recoverer,
		chimw.GetHead,
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		metrics.Middleware(),
	)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static", opts.Static))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			r.Post("/recommendations", app.CreateRecommendation)
			r.Get("/recommendations/{id}", app.GetRecommendation)
			r.Get("/users/{user_id}/recommendations", app.ListUserRecommendations)
			r.Post("/layouts", app.CreateLayout)
			r.Get("/images/{job_id}", app.ImageStatus)
		})
	})

	return r
}
