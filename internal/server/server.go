package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	v1 "github.com/gosuda/schooldocs/internal/api/v1"
	"github.com/gosuda/schooldocs/internal/config"
	"github.com/gosuda/schooldocs/internal/server/middleware"
)

// Pinger is a dependency probed by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP surface is built on.
type Deps struct {
	Store     v1.DataStore
	Templates v1.TemplateService
	Renderer  v1.Renderer
	Probes    map[string]Pinger // name → dependency; nil entries are skipped
}

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	probes     map[string]Pinger
}

// New creates a Server with all routes wired. ctx bounds the rate limiters'
// background sweepers.
func New(ctx context.Context, cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		probes: deps.Probes,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, cfg.Server.RateLimit*2, cfg.Server.RateBurst*2))
		r.Use(middleware.Auth(cfg.JWT.Secret))
		r.Use(middleware.RequireTenant())
		r.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleStaff, middleware.RoleTeacher, middleware.RoleViewer))
		r.Use(middleware.RateLimit(ctx, cfg.Server.RateLimit, cfg.Server.RateBurst))

		apiConfig := huma.DefaultConfig("SchoolDocs API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, deps)
	})

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Get("/readyz", s.ready)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.probes))
	for name, p := range s.probes {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("probe", name).Msg("server: readiness probe failed")
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": http.StatusText(status), "checks": checks})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
