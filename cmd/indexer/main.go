// Command indexer seeds the Redis vector index the query router searches at
// serving time. It reads a JSON file of knowledge passages, embeds each one
// with the configured Gemini embedding model, and upserts them under the
// retrieval key prefix, creating the index on first use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/support-router-poc/server/internal/core"
	"github.com/support-router-poc/server/internal/retrieval"
	pkggemini "github.com/support-router-poc/server/pkg/gemini"
	logx "github.com/support-router-poc/server/pkg/logger"
	pkgredis "github.com/support-router-poc/server/pkg/redis"
)

type indexerConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Redis       pkgredis.Config
	Gemini      pkggemini.Config
	Retrieval   retrieval.Config
}

func main() {
	passagesPath := flag.String("passages", "knowledge.json", "path to a JSON array of {id, content} passages")
	flag.Parse()

	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg indexerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}
	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	raw, err := os.ReadFile(*passagesPath)
	if err != nil {
		log.Fatalf("Failed to read passages file %s: %v", *passagesPath, err)
	}
	var passages []retrieval.Passage
	if err := json.Unmarshal(raw, &passages); err != nil {
		log.Fatalf("Failed to parse passages file: %v", err)
	}
	if len(passages) == 0 {
		log.Fatalf("No passages found in %s", *passagesPath)
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	client, err := cfg.Gemini.New(ctx)
	if err != nil {
		log.Fatalf("Failed to initialise Gemini client: %v", err)
	}

	embedder := retrieval.NewGeminiEmbedder(client, cfg.Retrieval.EmbeddingModel)
	indexer := retrieval.NewIndexer(rdb, embedder, cfg.Retrieval)

	indexCreated := false
	for _, p := range passages {
		dim, err := indexer.IndexPassage(ctx, p)
		if err != nil {
			log.Fatalf("Failed to index passage %s: %v", p.ID, err)
		}
		if !indexCreated {
			if err := indexer.EnsureIndex(ctx, dim); err != nil {
				log.Fatalf("Failed to ensure vector index: %v", err)
			}
			indexCreated = true
		}
	}

	logx.Info().Int("passages", len(passages)).Msg("Knowledge base indexed")
}
