package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/config"
	"github.com/venturematch/venturematch/internal/db"
	dbRedis "github.com/venturematch/venturematch/internal/db/redis"
	"github.com/venturematch/venturematch/internal/domain"
	logpkg "github.com/venturematch/venturematch/internal/logger"
	"github.com/venturematch/venturematch/internal/metrics"
	"github.com/venturematch/venturematch/internal/repository/embcache"
	embeddingrepo "github.com/venturematch/venturematch/internal/repository/embedding"
	interactionrepo "github.com/venturematch/venturematch/internal/repository/interaction"
	profilerepo "github.com/venturematch/venturematch/internal/repository/profile"
	seenrepo "github.com/venturematch/venturematch/internal/repository/seen"
	settingsrepo "github.com/venturematch/venturematch/internal/repository/settings"
	"github.com/venturematch/venturematch/internal/transport/httpapi"
	jinaEmb "github.com/venturematch/venturematch/internal/transport/jina"
	openaiEmb "github.com/venturematch/venturematch/internal/transport/openai"
	discoveryuc "github.com/venturematch/venturematch/internal/usecase/discovery"
	embeddinguc "github.com/venturematch/venturematch/internal/usecase/embedding"
	healthuc "github.com/venturematch/venturematch/internal/usecase/health"
	interactionuc "github.com/venturematch/venturematch/internal/usecase/interaction"
	profileuc "github.com/venturematch/venturematch/internal/usecase/profile"
	settingsuc "github.com/venturematch/venturematch/internal/usecase/settings"
	"github.com/venturematch/venturematch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting venturematch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterMatchingMetrics()

	// Build one embedder chain per configured provider — composition root
	registry := embeddinguc.Registry{}
	healthCheckers := map[string]domain.HealthChecker{}
	for name, provCfg := range cfg.Embedding.Providers {
		providerID, ok := domain.ParseProviderID(name)
		if !ok {
			logger.Fatal("Unknown embedding provider in config", zap.String("provider", name))
		}
		base := buildProvider(providerID, provCfg, logger)
		registry[providerID] = buildChain(base, name, provCfg.Model, store, cfg.Storage.KeyPrefix, logger)
		if hc, ok := base.(domain.HealthChecker); ok {
			healthCheckers[name] = hc
		}
		logger.Info("Embedder created",
			zap.String("provider", name),
			zap.String("model", provCfg.Model),
			zap.Int("dimensions", provCfg.Dimensions),
		)
	}
	defaultProvider, ok := domain.ParseProviderID(cfg.Embedding.DefaultProvider)
	if !ok {
		logger.Fatal("Unknown default embedding provider",
			zap.String("provider", cfg.Embedding.DefaultProvider))
	}

	// Repositories
	prefix := cfg.Storage.KeyPrefix
	embRepo := embeddingrepo.New(store, prefix)
	intRepo := interactionrepo.New(store, prefix)
	setRepo := settingsrepo.New(store, prefix)
	seenRepo := seenrepo.New(store, prefix)
	profRepo := profilerepo.New(store, prefix)

	// Use case services
	embSvc := embeddinguc.NewService(registry, embRepo, defaultProvider,
		time.Duration(cfg.Embedding.TimeoutSec)*time.Second)
	discSvc := discoveryuc.NewService(embRepo, intRepo, setRepo, seenRepo, profRepo,
		cfg.Matching.DefaultLimit, cfg.Matching.MaxLimit, *cfg.Matching.PassExcludesDiscovery)
	intSvc := interactionuc.NewService(intRepo, profRepo, cfg.Matching.BlockHidesMatches)
	setSvc := settingsuc.NewService(setRepo)
	profSvc := profileuc.NewService(profRepo)
	healthSvc := healthuc.NewService(store, healthCheckers)

	server := httpapi.NewServer(embSvc, discSvc, intSvc, setSvc, profSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(httpapi.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildProvider creates the base transport embedder for one provider.
func buildProvider(id domain.ProviderID, provCfg config.ProviderConfig, logger *zap.Logger) domain.Embedder {
	switch id {
	case domain.ProviderOpenAI:
		return openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     provCfg.APIKey,
			BaseURL:    provCfg.BaseURL,
			Model:      provCfg.Model,
			Dimensions: provCfg.Dimensions,
			Logger:     logger,
		})
	default:
		return jinaEmb.NewEmbedder(&jinaEmb.Config{
			APIKey:     provCfg.APIKey,
			BaseURL:    provCfg.BaseURL,
			Model:      provCfg.Model,
			Dimensions: provCfg.Dimensions,
			Logger:     logger,
		})
	}
}

// buildChain assembles per entity type: provider -> cached -> instrumented ->
// instruction. The venture instruction sits outermost so cache keys include
// it; profile text embeds as-is.
func buildChain(
	base domain.Embedder,
	provider, model string,
	store db.Store,
	keyPrefix string,
	logger *zap.Logger,
) embeddinguc.Chain {
	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, keyPrefix, model, metrics.EmbeddingCacheTotal, logger)
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, provider)

	return embeddinguc.Chain{
		Venture: domain.NewInstructionEmbedder(embedder, domain.VentureInstruction),
		Profile: embedder,
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
