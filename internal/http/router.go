package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/invoicer/internal/http/invoice"
)

type Options struct {
	CORSOrigins []string
	// AuthSecret enables bearer-token checks on /api/v1 when set.
	AuthSecret string
	Metrics    *Metrics
}

func New(opts Options, invoicesV1 *invoice.Handler) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Handle("/metrics", opts.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if opts.AuthSecret != "" {
			r.Use(RequireBearer(opts.AuthSecret))
		}

		r.Use(middleware.AllowContentType("application/json", "text/plain"))
		invoicesV1.Routes(r)
	})

	return router
}
