package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/hellosauravgupta/project-tracker-agent/internal/agent"
	"github.com/hellosauravgupta/project-tracker-agent/internal/cache"
	"github.com/hellosauravgupta/project-tracker-agent/internal/config"
	"github.com/hellosauravgupta/project-tracker-agent/internal/database"
	"github.com/hellosauravgupta/project-tracker-agent/internal/handlers"
	"github.com/hellosauravgupta/project-tracker-agent/internal/logger"
	"github.com/hellosauravgupta/project-tracker-agent/internal/middleware"
	"github.com/hellosauravgupta/project-tracker-agent/internal/pdfexport"
	"github.com/hellosauravgupta/project-tracker-agent/internal/telemetry"
	"github.com/hellosauravgupta/project-tracker-agent/internal/tracker"
)

const version = "1.0.0"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging, including LLM selection traces")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// OpenTelemetry tracing (optional)
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), cfg.OTELEndpoint, version)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer schemaCancel()
	if err := db.EnsureSchema(schemaCtx); err != nil {
		zapLogger.Fatal("failed_to_ensure_schema", zap.Error(err))
	}
	zapLogger.Info("connected_to_database")

	// Redis cache, telemetry and rate limit store
	cacheStore, err := cache.New(cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// PDF export
	exporter, err := pdfexport.NewExporter(cfg.PDFOutputDir)
	if err != nil {
		zapLogger.Fatal("failed_to_create_pdf_output_dir", zap.Error(err))
	}
	if cfg.PDFRetention > 0 {
		removed, err := exporter.Sweep(cfg.PDFRetention)
		if err != nil {
			zapLogger.Warn("pdf_sweep_failed", zap.Error(err))
		} else if removed > 0 {
			zapLogger.Info("pdf_sweep_complete", zap.Int("removed", removed))
		}
	}

	// Agent wiring: the data tools call back into this API over HTTP.
	trackerClient := tracker.NewClient(cfg.TrackerAPIRoot)
	registry := agent.NewRegistry(trackerClient, cacheStore, zapLogger)
	selector := createSelector(cfg, zapLogger)
	executor := agent.NewExecutor(registry, selector, cacheStore, exporter, zapLogger)

	// Handlers
	projectHandler := handlers.NewProjectHandler(database.NewProjectRepository(db), zapLogger)
	agentHandler := handlers.NewAgentHandler(executor, zapLogger)
	healthChecker := handlers.NewHealthChecker(map[string]handlers.Pinger{
		"database": handlers.NewSQLPinger(db.PingContext),
		"redis":    handlers.NewSQLPinger(cacheStore.Ping),
	})

	// Router and middleware. gorilla/mux runs middleware in reverse order of
	// registration: the last registered wraps outermost.
	r := mux.NewRouter()
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
	}
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Recovery(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	projectHandler.RegisterRoutes(r)

	// The agent endpoint is rate limited; CRUD routes are not.
	rateLimitMW, err := middleware.RateLimit(cacheStore.Client(), cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}
	r.Handle("/agent", rateLimitMW(http.HandlerFunc(agentHandler.Query))).Methods("POST")

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}
	zapLogger.Info("server_exited")
}

// createSelector picks the LLM-backed selector when an API key is
// configured, falling back to keyword matching otherwise.
func createSelector(cfg *config.Config, zapLogger *zap.Logger) agent.Selector {
	if cfg.OpenAIKey == "" {
		zapLogger.Info("using_keyword_selector")
		return agent.NewKeywordSelector()
	}
	zapLogger.Info("using_openai_selector", zap.String("model", cfg.AIModel))
	return agent.NewOpenAISelector(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger)
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"version":%q,"timestamp":%q}`, version, time.Now().UTC().Format(time.RFC3339))
}
