package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/support-router-poc/server/internal/core"
	"github.com/support-router-poc/server/internal/retrieval"
	"github.com/support-router-poc/server/internal/router/graph"
	"github.com/support-router-poc/server/internal/router/model"
	"github.com/support-router-poc/server/internal/server"
	pkggemini "github.com/support-router-poc/server/pkg/gemini"
	logx "github.com/support-router-poc/server/pkg/logger"
	pkgredis "github.com/support-router-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the query router,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	HTTP  server.Config
	Redis pkgredis.Config

	// LLM provider
	Gemini pkggemini.Config

	// Triage configs
	Classifier model.ClassifierModelConfig
	Generator  model.GeneratorModelConfig
	Prompt     model.PromptConfig
	Capability model.CapabilityConfig
	Retrieval  retrieval.Config
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

	env := core.ParseEnvironment(envCfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()
	logx.Info().Msg("Connected to Redis successfully")

	client, err := envCfg.Gemini.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialise Gemini client: %v", err)
	}

	timeout, err := time.ParseDuration(envCfg.Capability.Timeout)
	if err != nil {
		log.Fatalf("Invalid CAPABILITY_TIMEOUT '%s': %v", envCfg.Capability.Timeout, err)
	}

	embedder := retrieval.NewGeminiEmbedder(client, envCfg.Retrieval.EmbeddingModel)
	retriever := retrieval.NewRedisRetriever(rdb, embedder, envCfg.Retrieval)

	runner, err := graph.BuildTriageGraph(ctx, graph.Config{
		Client:            client,
		Classifier:        envCfg.Classifier,
		Generator:         envCfg.Generator,
		Prompt:            envCfg.Prompt,
		Retriever:         retriever,
		TopK:              envCfg.Retrieval.TopK,
		CapabilityTimeout: timeout,
	})
	if err != nil {
		log.Fatalf("Failed to build triage graph: %v", err)
	}

	srv := server.New(runner, rdb, env)
	logx.Info().Str("addr", envCfg.HTTP.Addr).Msg("Starting query router")
	if err := srv.Run(envCfg.HTTP.Addr); err != nil {
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
