package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/todo-assistant/internal/config"
	"github.com/benvon/todo-assistant/internal/logger"
	"github.com/benvon/todo-assistant/internal/services/ai"
	"github.com/benvon/todo-assistant/internal/telemetry"
	"go.uber.org/zap"
)

// writeTimeout leaves headroom over the upstream client timeout so a slow
// model reply is still delivered to the caller.
const writeTimeout = ai.DefaultTimeout + 30*time.Second

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(debugMode, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		// Sync fails on stderr for some terminals; nothing useful to do about it
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("ai_base_url", cfg.AIBaseURL),
		zap.String("chat_model", cfg.ChatModel),
		zap.String("task_model", cfg.TaskModel),
		zap.String("openai_api_key", logger.RedactAPIKey(cfg.OpenAIKey)),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
		zap.Bool("task_json_repair", cfg.TaskJSONRepair),
		zap.Bool("task_strict_validation", cfg.TaskStrictValidation),
	)

	// Initialize OpenTelemetry if enabled
	tracing := false
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), telemetry.ServiceName, telemetry.ServiceVersion, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracing = true
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	var metrics *telemetry.Metrics
	if cfg.MetricsEnabled {
		metrics = telemetry.NewMetrics()
	}

	provider, err := ai.NewOpenAIProvider(ai.OpenAIConfig{
		APIKey:    cfg.OpenAIKey,
		BaseURL:   cfg.AIBaseURL,
		Logger:    zapLogger,
		DebugMode: debugMode,
		Metrics:   metrics,
	})
	if err != nil {
		zapLogger.Fatal("failed_to_create_ai_provider", zap.Error(err))
	}

	assistant := ai.NewAssistant(provider,
		ai.WithChatModel(cfg.ChatModel),
		ai.WithTaskModel(cfg.TaskModel),
		ai.WithJSONRepair(cfg.TaskJSONRepair),
		ai.WithStrictTaskValidation(cfg.TaskStrictValidation),
		ai.WithLogger(zapLogger),
		ai.WithMetrics(metrics),
	)

	r := newRouter(routerConfig{
		allowedOrigins: cfg.AllowedOrigins,
		enableHSTS:     cfg.EnableHSTS,
		tracing:        tracing,
		logger:         zapLogger,
		metrics:        metrics,
		assistant:      assistant,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down", zap.Duration("timeout", cfg.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
		return
	}

	zapLogger.Info("server_exited")
}
