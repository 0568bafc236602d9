package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	errx "github.com/support-router-poc/server/internal/core/error"
	"github.com/support-router-poc/server/internal/router/model"
	logx "github.com/support-router-poc/server/pkg/logger"
)

// Passage is one knowledge-base entry to index.
type Passage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Indexer writes embedded passages into the Redis vector index the retriever
// searches. It is used by cmd/indexer; the serving path never writes.
type Indexer struct {
	rdb      redis.Cmdable
	embedder model.Embedder
	cfg      Config
}

func NewIndexer(rdb redis.Cmdable, embedder model.Embedder, cfg Config) *Indexer {
	return &Indexer{rdb: rdb, embedder: embedder, cfg: cfg}
}

// EnsureIndex creates the vector index if it does not exist yet. dim must
// match the embedding model's output dimension.
func (i *Indexer) EnsureIndex(ctx context.Context, dim int) error {
	err := i.rdb.FTCreate(ctx, i.cfg.IndexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []interface{}{i.cfg.KeyPrefix},
		},
		&redis.FieldSchema{
			FieldName: ContentField,
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: EmbeddingField,
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				HNSWOptions: &redis.FTHNSWOptions{
					Type:           "FLOAT32",
					Dim:            dim,
					DistanceMetric: "COSINE",
				},
			},
		},
	).Err()
	if err != nil {
		if strings.Contains(err.Error(), "Index already exists") {
			logx.Debug().Str("index", i.cfg.IndexName).Msg("Vector index already exists")
			return nil
		}
		return errx.WrapRedis(err)
	}

	logx.Info().Str("index", i.cfg.IndexName).Int("dim", dim).Msg("Vector index created")
	return nil
}

// IndexPassage embeds one passage and upserts it under the configured prefix.
// It returns the embedding dimension so callers can create the index lazily.
func (i *Indexer) IndexPassage(ctx context.Context, p Passage) (int, error) {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Content) == "" {
		return 0, fmt.Errorf("passage requires both id and content")
	}

	vec, err := i.embedder.Embed(ctx, p.Content)
	if err != nil {
		return 0, fmt.Errorf("embed passage %s: %w", p.ID, err)
	}

	key := i.cfg.KeyPrefix + p.ID
	if err := i.rdb.HSet(ctx, key,
		ContentField, p.Content,
		EmbeddingField, EncodeVector(vec),
	).Err(); err != nil {
		return 0, errx.WrapRedis(err)
	}

	logx.Debug().Str("key", key).Int("dim", len(vec)).Msg("Passage indexed")
	return len(vec), nil
}
