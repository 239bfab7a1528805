package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/lensflow/internal/auth"
	"github.com/MrJamesThe3rd/lensflow/internal/http/asset"
	mw "github.com/MrJamesThe3rd/lensflow/internal/http/middleware"
	"github.com/MrJamesThe3rd/lensflow/internal/http/notification"
	"github.com/MrJamesThe3rd/lensflow/internal/http/project"
	"github.com/MrJamesThe3rd/lensflow/internal/http/studio"
	"github.com/MrJamesThe3rd/lensflow/internal/http/token"
	"github.com/MrJamesThe3rd/lensflow/internal/http/transaction"
	"github.com/MrJamesThe3rd/lensflow/internal/metrics"
)

type Options struct {
	Tokens         *auth.Tokens
	Sessions       mw.Sessions
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

func New(
	opts Options,
	tokenV1 *token.Handler,
	projectsV1 *project.Handler,
	transactionsV1 *transaction.Handler,
	notificationsV1 *notification.Handler,
	assetsV1 *asset.Handler,
	studioV1 *studio.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(mw.Instrument(opts.Metrics))

	router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/token", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			tokenV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(opts.Tokens, opts.Sessions))

			r.Route("/projects", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				projectsV1.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			r.Route("/notifications", notificationsV1.Routes)

			r.Route("/assets", assetsV1.Routes)

			studioV1.Routes(r)
		})
	})

	return router
}
