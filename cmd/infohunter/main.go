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

	"github.com/Ham12-3/info-hunter/internal/config"
	"github.com/Ham12-3/info-hunter/internal/domain"
	"github.com/Ham12-3/info-hunter/internal/index/elastic"
	"github.com/Ham12-3/info-hunter/internal/kv"
	kvRedis "github.com/Ham12-3/info-hunter/internal/kv/redis"
	logpkg "github.com/Ham12-3/info-hunter/internal/logger"
	"github.com/Ham12-3/info-hunter/internal/metrics"
	"github.com/Ham12-3/info-hunter/internal/ratelimit"
	"github.com/Ham12-3/info-hunter/internal/repository/embcache"
	chiTransport "github.com/Ham12-3/info-hunter/internal/transport/chi"
	openaiTransport "github.com/Ham12-3/info-hunter/internal/transport/openai"
	askuc "github.com/Ham12-3/info-hunter/internal/usecase/ask"
	healthuc "github.com/Ham12-3/info-hunter/internal/usecase/health"
	"github.com/Ham12-3/info-hunter/internal/usecase/retrieval"
	searchuc "github.com/Ham12-3/info-hunter/internal/usecase/search"
	"github.com/Ham12-3/info-hunter/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting info-hunter API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_url", cfg.Index.URL),
		zap.String("index_name", cfg.Index.Name),
	)

	// Register AI metrics explicitly (no init())
	metrics.RegisterAIMetrics()

	// Index client
	esClient := elastic.NewClient(elastic.Config{
		BaseURL: cfg.Index.URL,
		Index:   cfg.Index.Name,
		Timeout: time.Duration(cfg.Index.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	ctx := context.Background()
	if err := esClient.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure knowledge index", zap.Error(err))
	}
	logger.Info("Knowledge index ready")

	// Optional embedding cache store
	var store kv.Store
	if cfg.Cache.Enabled {
		store, err = kvRedis.NewStore(kvRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()
		logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// AI provider clients
	embedder, baseEmbedder := buildEmbedder(cfg, store, logger)
	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Generation.Model,
		Temperature: float32(cfg.AI.Generation.Temperature),
		MaxTokens:   cfg.AI.Generation.MaxTokens,
		Timeout:     time.Duration(cfg.AI.Generation.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	limiter := ratelimit.New(
		cfg.AI.RateLimit.MaxRequests,
		time.Duration(cfg.AI.RateLimit.WindowSec)*time.Second,
		time.Duration(cfg.AI.RateLimit.AcquireTimeoutSec)*time.Second,
		metrics.RateLimitWaitDuration,
		logger,
	)

	// Use case services
	searchSvc := searchuc.New(esClient, embedder, logger)
	retriever := retrieval.New(searchSvc)
	synthesizer := askuc.NewSynthesizer(generator, limiter, logger)
	askSvc := askuc.NewService(retriever, synthesizer, cfg.Ask.DefaultTopK, cfg.Ask.MaxTopK, logger)

	// Pass nil interface (not typed nil pointer!) when the cache is absent.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(esClient, cachePinger, baseEmbedder)

	// HTTP server
	server := chiTransport.NewServer(searchSvc, askSvc, esClient, healthSvc)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// buildEmbedder assembles the embedder chain: OpenAI provider, optionally
// wrapped in the key-value embedding cache. The base client is returned
// separately so the health check can reach the provider past the cache.
func buildEmbedder(
	cfg config.Config, store kv.Store, logger *zap.Logger,
) (domain.Embedder, *openaiTransport.Embedder) {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		Model:      cfg.AI.Embedding.Model,
		Dimensions: cfg.AI.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.AI.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})
	if store == nil {
		return base, base
	}
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	cached := embcache.New(base, store, cfg.AI.Embedding.Model, ttl, metrics.EmbeddingCacheTotal, logger)
	return cached, base
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithContext(r.Context(), reqLogger)

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
