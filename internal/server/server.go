package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/sundayezeilo/linkbio/internal/analytics"
	"github.com/sundayezeilo/linkbio/internal/config"
	"github.com/sundayezeilo/linkbio/internal/httpx"
	"github.com/sundayezeilo/linkbio/internal/identity"
	"github.com/sundayezeilo/linkbio/internal/links"
	"github.com/sundayezeilo/linkbio/internal/payments"
	"github.com/sundayezeilo/linkbio/internal/profile"
	"github.com/sundayezeilo/linkbio/internal/themes"
)

// Handlers groups the HTTP handlers of every domain package.
type Handlers struct {
	Identity  *identity.Handler
	Links     *links.Handler
	Themes    *themes.Handler
	Analytics *analytics.Handler
	Profile   *profile.Handler
	Payments  *payments.Handler
}

// Middlewares holds the session middleware chain.
type Middlewares struct {
	// Authenticate reads an optional bearer token. May be nil.
	Authenticate func(http.Handler) http.Handler
	// RequireUser guards the /api/me/... owner routes.
	RequireUser func(http.Handler) http.Handler
}

// Server represents the HTTP server with all dependencies.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	handlers Handlers
	mw       Middlewares
	router   http.Handler
	server   *http.Server
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger, handlers Handlers, mw Middlewares) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		mw:       mw,
	}
	s.router = s.setupRoutes()
	return s
}

// ServeHTTP serves requests through the configured router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	// Listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting http server",
			"addr", s.server.Addr,
			"env", s.config.App.Environment,
			"backend", s.config.Backend.Mode,
		)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			// Force close if graceful shutdown fails
			if closeErr := s.server.Close(); closeErr != nil {
				return fmt.Errorf("failed to close server: %w", closeErr)
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		s.logger.Info("server stopped gracefully")
		return nil
	}
}

// setupRoutes configures all HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpx.Recovery(s.logger)) // catch panics
	r.Use(httpx.RequestID)
	r.Use(httpx.Logger(s.logger))
	r.Use(httpx.CORS(s.config.Server.AllowedOrigins))
	if s.mw.Authenticate != nil {
		r.Use(s.mw.Authenticate)
	}

	r.Get("/x/health", s.healthCheckHandler)

	h := s.handlers
	clickLimit := s.clickRateLimiter()

	// Public routes
	r.Get("/api/profiles/{username}", h.Profile.GetProfile)
	r.Get("/api/usernames/{username}", h.Identity.CheckUsername)
	r.Get("/api/me", h.Identity.Me)
	r.Put("/api/users", h.Identity.UpsertUser)
	r.Get("/api/links/icons", h.Links.Icons)
	r.Get("/api/themes/presets", h.Themes.Presets)
	r.Post("/api/links/{id}/unlock", h.Profile.Unlock)
	r.Post("/api/payments/{username}/tip", h.Payments.CreateTipSession)
	r.Post("/api/payments/{username}/subscribe", h.Payments.CreateSubscriptionSession)
	r.With(clickLimit).Post("/api/clicks", h.Analytics.TrackClick)
	r.With(clickLimit).Get("/l/{id}", h.Analytics.Redirect)

	// Owner routes
	r.Group(func(r chi.Router) {
		r.Use(s.mw.RequireUser)

		r.Get("/api/me/links", h.Links.List)
		r.Post("/api/me/links", h.Links.CreateLink)
		r.Put("/api/me/links/order", h.Links.Reorder)
		r.Patch("/api/me/links/{id}", h.Links.UpdateLink)
		r.Delete("/api/me/links/{id}", h.Links.DeleteLink)

		r.Get("/api/me/theme", h.Themes.GetTheme)
		r.Put("/api/me/theme", h.Themes.SaveTheme)

		r.Get("/api/me/analytics/links", h.Analytics.LinkStats)
		r.Get("/api/me/analytics/summary", h.Analytics.Summary)

		r.Get("/api/me/billing", h.Payments.BillingSummary)
	})

	return r
}

// clickRateLimiter limits click tracking per client IP. RealIP has already
// rewritten RemoteAddr from proxy headers.
func (s *Server) clickRateLimiter() func(http.Handler) http.Handler {
	return httprate.Limit(
		s.config.RateLimit.ClicksPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, please try again later", nil)
		}),
	)
}

// healthCheckHandler handles health check requests.
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.App.ServiceName,
		"version": s.config.App.Version,
		"backend": s.config.Backend.Mode,
	})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("shutdown timeout exceeded, forcing close")
			return s.server.Close()
		}
		return err
	}

	return nil
}
