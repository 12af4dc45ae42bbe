package planoraapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	gql "github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planora/planora-api/internal/config"
	"github.com/planora/planora-api/internal/http/graphql"
	"github.com/planora/planora-api/internal/http/middlewarectx"
	"github.com/planora/planora-api/internal/lib/jwt"
	"github.com/planora/planora-api/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	schema gql.Schema, jwtMaker jwt.Maker, db *storage.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit))
		r.Use(middlewarectx.IdentityMiddleware(jwtMaker, logger))
		r.Post("/graphql", graphql.NewHandler(schema, logger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := storage.CheckDatabaseReady(db); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}
