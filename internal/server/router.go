// Package server is the HTTP boundary layer: request validation,
// routing and response rendering around the verification pipeline. No
// verification logic lives here.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/model"
)

// NewRouter builds the chi router for the verification service
func NewRouter(p VerificationPipeline, cfg model.ServerConfig, logger *zap.Logger) *chi.Mux {
	h := NewHandler(p, cfg, logger)

	r := chi.NewRouter()

	// Order matters: request ID first so logging and recovery see it
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", h.Health)
	r.Post("/verify", h.Verify)
	r.Post("/verify-citations", h.VerifyCitations)

	return r
}
