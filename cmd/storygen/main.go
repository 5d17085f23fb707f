// Command storygen is the conversation-engine server: it loads
// configuration, wires the Session Store, LLM Client, Vector Client, and
// Prompt Library into an Engine, and serves the Conversation Engine over
// HTTP, grounded on the teacher's cmd/agentd/main.go wiring order (load
// env, init logger, load config, construct clients, build the domain
// engine, register routes, listen).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ford-at-home/storygen-sub000/internal/config"
	"github.com/ford-at-home/storygen-sub000/internal/engine"
	"github.com/ford-at-home/storygen-sub000/internal/httpapi"
	"github.com/ford-at-home/storygen-sub000/internal/llmclient"
	"github.com/ford-at-home/storygen-sub000/internal/observability"
	"github.com/ford-at-home/storygen-sub000/internal/promptlib"
	"github.com/ford-at-home/storygen-sub000/internal/session"
	"github.com/ford-at-home/storygen-sub000/internal/vectorclient"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		_ = godotenv.Load("example.env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("storygen.log", cfg.LogLevel)
	if err := cfg.RequiredSecrets(); err != nil {
		log.Fatal().Err(err).Msg("missing required configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := observability.NewHTTPClient(nil)

	provider, err := llmclient.NewProvider(ctx, cfg.LLM, httpClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct llm provider")
	}
	llm := llmclient.New(cfg.LLM, provider)

	embedder := vectorclient.NewHTTPEmbedder(cfg.LLM.BaseURL, cfg.LLM.APIKey, "", httpClient)
	backend, err := vectorBackend(ctx, cfg.Vector)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct vector backend")
	}
	vector := vectorclient.New(embedder, backend, cfg.Vector.TopK)

	prompts := promptlib.New()

	exporter, err := sessionExporter(ctx, cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct session exporter")
	}
	store := session.New(cfg.Session.TTL, nil, exporter)

	lock, err := sweeperLock(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct distributed lock")
	}
	go session.RunSweeper(ctx, store, 5*time.Minute, lock)

	eng := engine.New(store, llm, vector, prompts, nil, cfg)
	srv := httpapi.NewServer(eng)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http server shutdown error")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Msg("storygen listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// vectorBackend selects the configured Vector Client backend, defaulting to
// the in-memory backend for single-node/dev deployments.
func vectorBackend(ctx context.Context, cfg config.VectorConfig) (vectorclient.Backend, error) {
	switch cfg.Backend {
	case "", "memory":
		return vectorclient.NewMemoryBackend(), nil
	case "qdrant":
		return vectorclient.NewQdrantBackend(ctx, cfg.DSN, cfg.Collection, cfg.Dimensions, cfg.Metric)
	default:
		return nil, fmt.Errorf("storygen: unsupported vector backend %q", cfg.Backend)
	}
}

// sessionExporter wires the optional Postgres durability tier; a deployment
// without DATABASE_URL runs single-node, in-memory-only.
func sessionExporter(ctx context.Context, cfg config.SessionConfig) (session.Exporter, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return session.NewPostgresExporter(ctx, pool)
}

// sweeperLock wires the optional Redis cross-instance lock; a deployment
// without REDIS_URL runs the sweeper unconditionally, correct for a single
// instance.
func sweeperLock(cfg config.SessionConfig) (session.DistributedLock, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return session.NewRedisLock(redis.NewClient(opts)), nil
}
