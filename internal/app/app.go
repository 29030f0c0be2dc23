package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sundayezeilo/linkbio/internal/analytics"
	"github.com/sundayezeilo/linkbio/internal/auth"
	"github.com/sundayezeilo/linkbio/internal/config"
	"github.com/sundayezeilo/linkbio/internal/identity"
	"github.com/sundayezeilo/linkbio/internal/links"
	"github.com/sundayezeilo/linkbio/internal/payments"
	"github.com/sundayezeilo/linkbio/internal/postgres"
	"github.com/sundayezeilo/linkbio/internal/profile"
	"github.com/sundayezeilo/linkbio/internal/seed"
	"github.com/sundayezeilo/linkbio/internal/server"
	"github.com/sundayezeilo/linkbio/internal/themes"
)

// App holds the application dependencies and configuration.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DBPool *pgxpool.Pool
	Redis  *redis.Client
	Server *server.Server
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"backend", cfg.Backend.Mode,
	)

	return Build(ctx, cfg, logger)
}

// Build wires the application from an already loaded configuration.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	st, err := a.openStores(ctx)
	if err != nil {
		a.Shutdown()
		return nil, err
	}

	if cfg.Redis.URL != "" {
		a.Redis, err = analytics.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			a.Shutdown()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("analytics cache enabled", "ttl", cfg.Redis.StatsTTL.String())
	}

	session, tokens, authenticate := setupSession(cfg.Session)

	users := identity.NewService(st.users, &identity.ServiceConfig{Session: session})
	linkSvc := links.NewService(st.links)
	themeSvc := themes.NewService(st.themes)

	engineCfg := &analytics.EngineConfig{Logger: logger}
	if a.Redis != nil {
		engineCfg.Cache = analytics.NewRedisCache(a.Redis, cfg.Redis.StatsTTL)
	}
	engine := analytics.NewEngine(st.events, linkSvc, engineCfg)

	pay := setupPayments(cfg, logger)

	profileSvc := profile.NewService(profile.Config{
		Users:    users,
		Links:    linkSvc,
		Themes:   themeSvc,
		Views:    engine,
		Unlocker: pay,
		Logger:   logger,
	})

	if err := applySeed(ctx, cfg, logger, seed.Services{Users: users, Links: linkSvc, Themes: themeSvc}); err != nil {
		a.Shutdown()
		return nil, err
	}

	handlers := server.Handlers{
		Identity:  identity.NewHandler(identity.HandlerConfig{Service: users, Tokens: tokens, Logger: logger}),
		Links:     links.NewHandler(links.HandlerConfig{Service: linkSvc, Logger: logger}),
		Themes:    themes.NewHandler(themes.HandlerConfig{Service: themeSvc, Logger: logger}),
		Analytics: analytics.NewHandler(analytics.HandlerConfig{Engine: engine, Links: linkSvc, Logger: logger}),
		Profile:   profile.NewHandler(profile.HandlerConfig{Service: profileSvc, Logger: logger}),
		Payments:  payments.NewHandler(payments.HandlerConfig{Service: pay, Owners: users, Logger: logger}),
	}

	a.Server = server.New(cfg, logger, handlers, server.Middlewares{
		Authenticate: authenticate,
		RequireUser:  identity.RequireUser(users, logger),
	})

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"session", cfg.Session.Mode,
	)
	return a, nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
		"base_url", a.Config.Server.BaseURL,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
		a.Redis = nil
	}
	if a.DBPool != nil {
		a.DBPool.Close()
		a.DBPool = nil
		a.Logger.Info("database connection closed")
	}

	return errors.Join(errs...)
}

type stores struct {
	users  identity.Repository
	links  links.Repository
	themes themes.Repository
	events analytics.Repository
}

// openStores selects the repositories for the configured backend.
func (a *App) openStores(ctx context.Context) (stores, error) {
	switch a.Config.Backend.Mode {
	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, a.Config.Database, a.Logger)
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DBPool = pool

		if a.Config.Database.Migrate {
			if err := postgres.Migrate(ctx, pool, a.Logger); err != nil {
				return stores{}, fmt.Errorf("failed to migrate database: %w", err)
			}
		}

		return stores{
			users:  identity.NewPostgresRepository(pool, nil),
			links:  links.NewPostgresRepository(pool, nil),
			themes: themes.NewPostgresRepository(pool, nil),
			events: analytics.NewPostgresRepository(pool),
		}, nil

	case config.BackendMock:
		a.Logger.Warn("using in-memory mock backend; data is lost on restart")
		return stores{
			users:  identity.NewMemoryRepository(nil),
			links:  links.NewMemoryRepository(nil),
			themes: themes.NewMemoryRepository(nil),
			events: analytics.NewMemoryRepository(),
		}, nil

	default:
		a.Logger.Warn("no backend configured; data operations will fail with not implemented")
		return stores{
			users:  identity.NewUnimplementedRepository(),
			links:  links.NewUnimplementedRepository(),
			themes: themes.NewUnimplementedRepository(),
			events: analytics.NewUnimplementedRepository(),
		}, nil
	}
}

// setupSession picks the session resolver. Only jwt mode issues and
// verifies bearer tokens.
func setupSession(cfg config.SessionConfig) (identity.SessionResolver, identity.TokenIssuer, func(http.Handler) http.Handler) {
	switch cfg.Mode {
	case config.SessionFixed:
		return identity.FixedSession{ID: cfg.UserID}, nil, nil
	case config.SessionJWT:
		jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
		return identity.ContextSession{}, jwtService, auth.Authenticate(jwtService)
	default:
		return identity.AnonymousSession{}, nil, nil
	}
}

func setupPayments(cfg *config.Config, logger *slog.Logger) payments.Service {
	if !cfg.Payments.UseStub(cfg.Backend.Mode) {
		return payments.NewUnimplemented()
	}
	logger.Warn("using payment stub; every premium unlock is approved", "provider_url", cfg.Payments.ProviderURL)
	return payments.NewStub(&payments.StubConfig{ProviderURL: cfg.Payments.ProviderURL, Logger: logger})
}

// applySeed loads SEED_FILE, or the demo profiles on the mock backend.
// Records that fail are logged; only an unreadable seed file is fatal.
func applySeed(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc seed.Services) error {
	var f *seed.File
	switch {
	case cfg.Seed.File != "":
		loaded, err := seed.Load(cfg.Seed.File)
		if err != nil {
			return fmt.Errorf("failed to load seed: %w", err)
		}
		f = loaded
	case cfg.Seed.Demo && cfg.Backend.Mode == config.BackendMock:
		f = seed.Demo()
	default:
		return nil
	}

	if _, err := seed.Apply(ctx, f, svc, logger); err != nil {
		logger.Warn("seed applied with errors", "error", err.Error())
	}
	return nil
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "" || env == "development" || env == "test" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
