package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assetdex/internal/config"
	logpkg "github.com/kailas-cloud/assetdex/internal/logger"
	"github.com/kailas-cloud/assetdex/internal/metrics"
	corpusrepo "github.com/kailas-cloud/assetdex/internal/repository/corpus"
	chiTransport "github.com/kailas-cloud/assetdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/assetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/assetdex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/assetdex/internal/usecase/session"
	"github.com/kailas-cloud/assetdex/internal/version"
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

	logger.Info("Starting assetdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_path", cfg.Corpus.Path),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	fx, err := corpusrepo.NewLoader(logger).Load(cfg.Corpus.Path)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	taxonomy, err := fx.Taxonomy()
	if err != nil {
		logger.Fatal("Invalid facet taxonomy", zap.Error(err))
	}

	matcher, err := searchuc.NewMatcher(cfg.Search.FuzzyThreshold, cfg.Search.MinFuzzyLength)
	if err != nil {
		logger.Fatal("Invalid matcher settings", zap.Error(err))
	}

	searchSvc := searchuc.New(fx.Corpus, taxonomy, matcher).WithLogger(logger)
	var searcher searchuc.Searcher = searchSvc
	if cfg.Search.CacheSize > 0 {
		searcher = searchuc.NewCachedSearcher(
			searchSvc, cfg.Search.CacheSize, time.Duration(cfg.Search.CacheTTLSec)*time.Second, time.Now,
		)
	}

	// Session queries run on a bounded pool shared by every session.
	pool, err := ants.NewPool(cfg.Session.PoolSize, ants.WithNonblocking(true))
	if err != nil {
		logger.Fatal("Failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	sessions, err := sessionuc.NewRegistry(searcher, pool, sessionuc.Options{
		MinLatency: cfg.Session.MinLatency(),
		MaxLatency: cfg.Session.MaxLatency(),
	}, cfg.Session.MaxSessions, cfg.Session.IdleTTL())
	if err != nil {
		logger.Fatal("Failed to create session registry", zap.Error(err))
	}
	sessions.WithLogger(logger)
	defer sessions.Close()

	healthSvc := healthuc.New(fx.Corpus, pool)

	server := chiTransport.NewServer(searcher, taxonomy, sessions, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// One line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
