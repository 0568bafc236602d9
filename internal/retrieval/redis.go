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

const (
	// ContentField holds the passage text on each indexed hash.
	ContentField = "content"
	// EmbeddingField holds the FLOAT32 vector blob on each indexed hash.
	EmbeddingField = "embedding"

	scoreAlias = "vector_score"
)

// Config describes the pre-populated Redis vector index the retriever
// searches against.
type Config struct {
	IndexName      string `envconfig:"RETRIEVAL_INDEX_NAME" default:"support_knowledge_idx"`
	KeyPrefix      string `envconfig:"RETRIEVAL_KEY_PREFIX" default:"knowledge:"`
	EmbeddingModel string `envconfig:"RETRIEVAL_EMBEDDING_MODEL" default:"gemini-embedding-001"`
	TopK           int    `envconfig:"RETRIEVAL_TOP_K" default:"3"`
}

// RedisRetriever implements the vector-similarity-search capability over a
// Redis index of pre-embedded knowledge passages. The query is embedded into
// the same space as the documents, then matched with a KNN search.
type RedisRetriever struct {
	rdb      redis.Cmdable
	embedder model.Embedder
	cfg      Config
}

func NewRedisRetriever(rdb redis.Cmdable, embedder model.Embedder, cfg Config) *RedisRetriever {
	return &RedisRetriever{rdb: rdb, embedder: embedder, cfg: cfg}
}

// Retrieve returns up to topK passages ranked most similar first. Zero
// matches return an empty slice without error; the caller decides how absence
// of knowledge is represented.
func (r *RedisRetriever) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	knnQuery := fmt.Sprintf("(*)=>[KNN %d @%s $vec AS %s]", topK, EmbeddingField, scoreAlias)
	res, err := r.rdb.FTSearchWithArgs(ctx, r.cfg.IndexName, knnQuery, &redis.FTSearchOptions{
		Return: []redis.FTSearchReturn{
			{FieldName: ContentField},
			{FieldName: scoreAlias},
		},
		SortBy: []redis.FTSearchSortBy{
			{FieldName: scoreAlias, Asc: true},
		},
		LimitOffset:    0,
		Limit:          topK,
		DialectVersion: 2,
		Params: map[string]interface{}{
			"vec": EncodeVector(vec),
		},
	}).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}

	passages := make([]string, 0, len(res.Docs))
	for _, doc := range res.Docs {
		content, ok := doc.Fields[ContentField]
		if !ok || strings.TrimSpace(content) == "" {
			logx.Warn().Str("doc_id", doc.ID).Msg("Indexed document has no content field - skipping")
			continue
		}
		passages = append(passages, content)
	}

	logx.Debug().
		Str("index", r.cfg.IndexName).
		Int("top_k", topK).
		Int("matches", len(passages)).
		Msg("Vector similarity search completed")

	return passages, nil
}

var _ model.ContextRetriever = (*RedisRetriever)(nil)
