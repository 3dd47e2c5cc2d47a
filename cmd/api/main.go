// Package main is the entrypoint for the contact form API server.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/contactdesk/contactdesk/internal/config"
	"github.com/contactdesk/contactdesk/internal/gemini"
	"github.com/contactdesk/contactdesk/internal/handler"
	"github.com/contactdesk/contactdesk/internal/metrics"
	"github.com/contactdesk/contactdesk/internal/repository"
	"github.com/contactdesk/contactdesk/internal/server"
	"github.com/contactdesk/contactdesk/internal/service"
)

func main() {
	ctx := context.Background()

	// Local .env is optional; real environment wins.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", sanitizeError(err, os.Getenv("DATABASE_URL"), os.Getenv("GEMINI_API_KEY")))
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
	logger.Info("connected to database")

	improver := gemini.New(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.ImproveTimeout,
	})
	if !improver.Configured() {
		logger.Warn("GEMINI_API_KEY is not set, AI improvement is disabled")
	}

	recorder, exporter := initMetrics(cfg)

	// Initialize services
	submissions := service.NewSubmissionService(repo, logger, recorder)
	usage := service.NewUsageService(repo, recorder)
	improve := service.NewImproveService(improver, usage, logger, recorder)

	r := handler.NewRouter(handler.RouterConfig{
		Logger:          logger,
		Recorder:        recorder,
		MetricsEnabled:  cfg.MetricsEnabled,
		MetricsExporter: exporter,
		IsDevelopment:   cfg.IsDevelopment(),
		AllowedOrigins:  cfg.AllowedOrigins(),
		MaxBodySize:     cfg.MaxRequestBodySize,
		DB:              repo,
		Submissions:     submissions,
		Improver:        improve,
		Usage:           usage,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"model", improver.Model(),
		"ai_enabled", improver.Configured(),
		"metrics_enabled", cfg.MetricsEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
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

// initMetrics returns the recorder and, when enabled, the /metrics exporter.
func initMetrics(cfg *config.Config) (metrics.Recorder, http.Handler) {
	if !cfg.MetricsEnabled {
		return metrics.NewNoop(), nil
	}
	prom := metrics.NewPrometheus()
	return prom, prom.Handler()
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
		if redacted == "" || redacted == secret {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
