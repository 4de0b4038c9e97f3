package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/jurislens-poc/server/internal/agent/graph"
	"github.com/jurislens-poc/server/internal/agent/graph/tools"
	"github.com/jurislens-poc/server/internal/agent/model"
	"github.com/jurislens-poc/server/internal/agent/repo"
	"github.com/jurislens-poc/server/internal/agent/session"
	"github.com/jurislens-poc/server/internal/compliance"
	"github.com/jurislens-poc/server/internal/knowledge"
	"github.com/jurislens-poc/server/internal/retrieval"
	"github.com/jurislens-poc/server/internal/server"
	logx "github.com/jurislens-poc/server/pkg/logger"
	pkgredis "github.com/jurislens-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the compliance agent,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis    pkgredis.Config
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Response     model.ResponseModelConfig
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig
	Retrieval    model.RetrievalConfig
	Compliance   model.ComplianceConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.InitFromEnv()

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()
	logx.Info().Msg("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	convRepo := repo.NewRedisConversationRepository(rdb, ttl)

	// Remote semantic retrieval is optional: without an embedding key the
	// regulation search tool serves local keyword matches only.
	var retriever retrieval.Retriever
	if envCfg.Retrieval.EmbeddingAPIKey != "" {
		embedder := retrieval.NewEmbedder(retrieval.EmbedderConfig{
			APIKey:     envCfg.Retrieval.EmbeddingAPIKey,
			BaseURL:    envCfg.Retrieval.EmbeddingBaseURL,
			Model:      envCfg.Retrieval.EmbeddingModel,
			Dimensions: envCfg.Retrieval.Dimensions,
		})
		idx, err := retrieval.NewRedisIndex(ctx, rdb, embedder, retrieval.RedisIndexConfig{
			IndexName:  envCfg.Retrieval.IndexName,
			Dimensions: envCfg.Retrieval.Dimensions,
			Timeout:    time.Duration(envCfg.Retrieval.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			logx.Warn().Err(err).Msg("Vector index unavailable; running with keyword search only")
		} else {
			retriever = idx
		}
	} else {
		logx.Info().Msg("EMBEDDING_API_KEY not set; remote retrieval disabled")
	}

	ledger := compliance.NewSimulatedLedger(time.Duration(envCfg.Compliance.LedgerLatencyMS) * time.Millisecond)
	registry := compliance.NewSimulatedRegistry(time.Duration(envCfg.Compliance.SanctionsLatencyMS) * time.Millisecond)
	lookupTimeout := time.Duration(envCfg.Compliance.LookupTimeoutMS) * time.Millisecond

	// Each session gets its own knowledge store wired into the tool set, so
	// the graph is built per session rather than shared.
	factory := func(ctx context.Context, store *knowledge.Store) (session.Runner, error) {
		return graph.BuildResponseGraph(ctx, graph.Config{
			APIKey:           envCfg.APIKey,
			BaseURL:          envCfg.BaseURL,
			ResponseModel:    envCfg.Response,
			ResponsePrompt:   envCfg.Prompt,
			Conversation:     envCfg.Conversation,
			ConversationRepo: convRepo,
			Tools: tools.Deps{
				Knowledge:     store,
				Retriever:     retriever,
				Ledger:        ledger,
				Registry:      registry,
				LookupTimeout: lookupTimeout,
			},
		})
	}

	sessions := session.NewManager(factory)
	srv := server.New(sessions, convRepo, retriever)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(envCfg.HTTPAddr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	case sig := <-stop:
		logx.Info().Str("signal", sig.String()).Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logx.Error().Err(err).Msg("Graceful shutdown failed")
		}
		sessions.Close()
	}
}
