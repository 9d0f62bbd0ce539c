// Package main is the entrypoint for the FocusFlow API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/cache"
	"github.com/focusflow/focusflow/internal/config"
	"github.com/focusflow/focusflow/internal/handler"
	"github.com/focusflow/focusflow/internal/metrics"
	"github.com/focusflow/focusflow/internal/middleware"
	"github.com/focusflow/focusflow/internal/repository"
	"github.com/focusflow/focusflow/internal/server"
	"github.com/focusflow/focusflow/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Services
	recorder := metrics.NewInMemory()
	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(repo, tokenIssuer)
	taskService := service.NewTaskService(repo, cacheClient, recorder)
	timerService := service.NewTimerService(repo, cacheClient, recorder)
	statsService := service.NewStatsService(repo, cacheClient, cfg.SummaryCacheTTL, recorder)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	authHandler := handler.NewAuthHandler(authService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	timerHandler := handler.NewTimerHandler(timerService, logger)
	dashboardHandler := handler.NewDashboardHandler(statsService, logger)

	r := setupRouter(routerDeps{
		root:      h,
		health:    healthHandler,
		metrics:   metricsHandler,
		auth:      authHandler,
		task:      taskHandler,
		timer:     timerHandler,
		dashboard: dashboardHandler,
		tokens:    tokenIssuer,
		cache:     cacheClient,
		cfg:       cfg,
		logger:    logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	root      *handler.Handler
	health    *handler.HealthHandler
	metrics   *handler.MetricsHandler
	auth      *handler.AuthHandler
	task      *handler.TaskHandler
	timer     *handler.TimerHandler
	dashboard *handler.DashboardHandler
	tokens    *auth.TokenIssuer
	cache     *cache.Cache
	cfg       *config.Config
	logger    *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: deps.cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.root.Hello)

	authCfg := middleware.AuthConfig{
		Logger: deps.logger,
		Tokens: deps.tokens,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitAuthEnabled,
		RPS:     deps.cfg.RateLimitAuthRPS,
		Burst:   deps.cfg.RateLimitAuthBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints are rate limited per IP, not authenticated.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitIP(rateLimitCfg))
			r.Post("/auth/register", deps.auth.Register)
			r.Post("/auth/login", deps.auth.Login)
		})

		// Everything else requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Get("/auth/me", deps.auth.Me)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", deps.task.List)
				r.Post("/", deps.task.Create)
				r.Get("/export", deps.task.Export)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deps.task.Get)
					r.Patch("/", deps.task.Update)
					r.Delete("/", deps.task.Delete)
					r.Post("/complete", deps.task.ToggleComplete)

					r.Get("/timer", deps.timer.Active)
					r.Post("/timer/start", deps.timer.Start)
					r.Post("/timer/stop", deps.timer.Stop)
					r.Get("/timer/report", deps.timer.Report)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/summary", deps.dashboard.Summary)
				r.Get("/weekly", deps.dashboard.Weekly)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(deps.root.NotFound)
	r.MethodNotAllowed(deps.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
