// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nhatvu/averio/internal/identity/admin"
	"github.com/nhatvu/averio/internal/identity/auth"
	"github.com/nhatvu/averio/internal/identity/profile"
	"github.com/nhatvu/averio/internal/identity/role"
	"github.com/nhatvu/averio/internal/platform/config"
	"github.com/nhatvu/averio/internal/platform/constants"
	"github.com/nhatvu/averio/internal/platform/metrics"
	"github.com/nhatvu/averio/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here - no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler - always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler - returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the authentication lifecycle (register, login, recovery).
	Auth *auth.Handler

	// Profile handles the authenticated user's own account.
	Profile *profile.Handler

	// Admin handles privileged account administration.
	Admin *admin.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The guard chain runs in a fixed order on protected subtrees: Authenticate
// binds the account globally; RequireAuth, RequireVerified and RequireRole
// narrow access per route group.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	resolver middleware.AccountResolver,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(collector.Instrument())
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(resolver))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {

		// Credential endpoints get a stricter per-IP throttle on top of
		// the global limiter.
		api.Group(func(authGroup chi.Router) {
			authGroup.Use(middleware.Throttle(context, "auth", constants.AuthThrottleRPM, constants.AuthThrottleBurst))
			authGroup.Mount("/auth", h.Auth.Routes())
		})

		// Self-service profile: must be logged in, verified, and a regular user.
		api.Group(func(userGroup chi.Router) {
			userGroup.Use(middleware.RequireAuth())
			userGroup.Use(middleware.RequireVerified())
			userGroup.Use(middleware.RequireRole(role.User))
			userGroup.Mount("/user/profile", h.Profile.Routes())
		})

		// Administration: privileged roles only; verification not required.
		// Admins manage their own profile through this subtree since /user
		// is reserved for the USER role.
		api.Group(func(adminGroup chi.Router) {
			adminGroup.Use(middleware.RequireAuth())
			adminGroup.Use(middleware.RequireRole(role.Admin, role.Owner))
			adminGroup.Mount("/admin/profile", h.Profile.Routes())
			adminGroup.Mount("/admin", h.Admin.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
