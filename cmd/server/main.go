package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/radiocov/internal/api"
	"github.com/RMahshie/radiocov/internal/config"
	"github.com/RMahshie/radiocov/internal/coverage"
	"github.com/RMahshie/radiocov/internal/observability"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)

	shutdownTracing, err := observability.InitTracing(context.Background(), observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise tracing")
	}

	// Metrics collector doubles as the coverage engine's recorder
	var (
		collector *observability.Collector
		recorder  coverage.Recorder
	)
	if cfg.Metrics.Enabled {
		collector, err = observability.NewCollector(nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to register metrics")
		}
		recorder = collector
	}

	coverageSvc := coverage.NewCoverageService(coverage.Config{
		MaxGridPoints:  cfg.Coverage.MaxGridPoints,
		MaxEvaluations: cfg.Coverage.MaxEvaluations,
		Workers:        cfg.Coverage.Workers,
	}, recorder)

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	if collector != nil {
		router.Use(collector.Middleware)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Calculation-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	router.Use(middleware.Compress(5))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Radio Coverage API", api.Version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	api.RegisterRoutes(humaAPI, coverageSvc)

	if collector != nil {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("env", cfg.Server.Env).
			Msg("Starting coverage API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log.Logger)

	log.Info().Msg("Server exited")
}

// setupLogger applies the configured level and switches to JSON output
// outside development.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Server.Env != "dev" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog.
// The request-scoped logger is stored in the context for downstream handlers.
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger := log.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(logger.WithContext(r.Context()))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
