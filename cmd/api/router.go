package main

import (
	"context"
	"net/http"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler)
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func newRouter(db pinger, origins []string, guard func(http.Handler) http.Handler, log *logger.Logger, modules []routeRegistrar) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(httpx.RequestLogger(log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthz(db, log))
	router.Route("/api", func(r chi.Router) {
		for _, m := range modules {
			m.RegisterRoutes(r, guard)
		}
	})
	return router
}

func healthz(db pinger, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Warn("health check failed", "error", err)
			httpx.Respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
