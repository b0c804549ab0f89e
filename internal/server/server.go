// Package server is the composition root: it builds the services and
// handlers over the shared pool, mounts them on a chi router and runs the
// HTTP server until a shutdown signal arrives.
//
// ROUTES:
//
//	GET    /health                         liveness
//	GET    /health/ready                   database and Redis readiness
//	GET    /metrics                        Prometheus exposition
//	POST   /api/auth/login                 public
//	GET    /api/auth/me                    bearer token
//	POST   /api/auth/logout                bearer token
//	GET    /api/modules                    bearer token
//	POST   /api/modules                    bearer token
//	DELETE /api/modules/{module_id}        bearer token
//	POST   /api/tutors/register            bearer token
//	GET    /api/tutors                     bearer token
//	GET    /api/assignments                bearer token
//	POST   /api/assignments                bearer token
//	DELETE /api/assignments/{assignment_id} bearer token
//	GET    /api/students                   bearer token
//	POST   /api/students                   bearer token
//	GET    /api/enrollments                bearer token
//	POST   /api/enrollments                bearer token
//	PATCH  /api/enrollments/{enrollment_id} bearer token
//	DELETE /api/enrollments/{enrollment_id} bearer token
//	GET    /api/dashboard                  bearer token
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sakif/lms-admin/internal/auth"
	"github.com/sakif/lms-admin/internal/config"
	"github.com/sakif/lms-admin/internal/database"
	"github.com/sakif/lms-admin/internal/handler"
	"github.com/sakif/lms-admin/internal/metrics"
	"github.com/sakif/lms-admin/internal/middleware"
	"github.com/sakif/lms-admin/internal/repository/sqlstore"
	"github.com/sakif/lms-admin/internal/service"
)

const serviceName = "lms-admin"

// Server owns the router and the resources it closes on shutdown. The
// Redis client, when present, belongs to the caller.
type Server struct {
	router   *chi.Mux
	cfg      *config.Config
	logger   zerolog.Logger
	pool     *database.Pool
	redis    *redis.Client
	registry *prometheus.Registry
}

// New wires every layer. rdb may be nil, which disables token revocation.
// A missing or short JWT secret is an error.
func New(cfg *config.Config, pool *database.Pool, rdb *redis.Client, logger zerolog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("server: token service: %w", err)
	}

	var revocations auth.RevocationStore = auth.NoRevocations{}
	if rdb != nil {
		revocations = auth.NewRedisRevocations(rdb)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    rdb,
		registry: reg,
	}
	if err := s.routes(tokens, revocations, metrics.New(reg)); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) routes(tokens *auth.TokenService, revocations auth.RevocationStore, m *metrics.Metrics) error {
	store := sqlstore.New(s.pool.DB())
	passwords := auth.NewPasswordService()

	authSvc, err := service.NewAuthService(store, tokens, passwords, revocations, m, s.logger)
	if err != nil {
		return fmt.Errorf("server: auth service: %w", err)
	}

	authH := handler.NewAuthHandler(authSvc)
	modules := handler.NewModuleHandler(service.NewModuleService(store, s.logger))
	tutors := handler.NewTutorHandler(service.NewTutorService(store, passwords, m, s.logger))
	assignments := handler.NewAssignmentHandler(service.NewAssignmentService(store, store, store, s.logger))
	students := handler.NewStudentHandler(service.NewStudentService(store, s.logger))
	enrollments := handler.NewEnrollmentHandler(service.NewEnrollmentService(store, store, store, s.logger))
	dashboard := handler.NewDashboardHandler(service.NewDashboardService(store, s.logger))
	health := handler.NewHealthHandler(s.pool, s.redis)

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", health.HandleHealth)
	r.Get("/health/ready", health.HandleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		// the request context carries the deadline into every query
		r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))

		r.Post("/auth/login", authH.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens, revocations, s.logger))

			r.Get("/auth/me", authH.HandleMe)
			r.Post("/auth/logout", authH.HandleLogout)

			r.Get("/modules", modules.HandleList)
			r.Post("/modules", modules.HandleCreate)
			r.Delete("/modules/{module_id}", modules.HandleDelete)

			r.Post("/tutors/register", tutors.HandleRegister)
			r.Get("/tutors", tutors.HandleList)

			r.Get("/assignments", assignments.HandleList)
			r.Post("/assignments", assignments.HandleCreate)
			r.Delete("/assignments/{assignment_id}", assignments.HandleDelete)

			r.Get("/students", students.HandleList)
			r.Post("/students", students.HandleCreate)

			r.Get("/enrollments", enrollments.HandleList)
			r.Post("/enrollments", enrollments.HandleCreate)
			r.Patch("/enrollments/{enrollment_id}", enrollments.HandleGrade)
			r.Delete("/enrollments/{enrollment_id}", enrollments.HandleDelete)

			r.Get("/dashboard", dashboard.HandleSummary)
		})
	})

	return nil
}

// Handler returns the router wrapped in OpenTelemetry HTTP instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, serviceName)
}

// Start serves until SIGINT or SIGTERM, then stops accepting connections,
// waits for in-flight requests and drains the pool. Both waits share
// ShutdownTimeout.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run is Start with the shutdown trigger supplied by the caller.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().
			Int("port", s.cfg.Port).
			Str("env", s.cfg.Env).
			Str("db_driver", s.pool.Driver()).
			Bool("revocation", s.redis != nil).
			Msg("server starting")
		serverErrors <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server: listen: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("server: graceful shutdown: %w", err)
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.pool.Close(closeCtx); err != nil {
		s.logger.Error().Err(err).Msg("closing database pool")
	}

	if runErr == nil {
		s.logger.Info().Msg("server stopped gracefully")
	}
	return runErr
}
